package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"ticket-tracker.com/ticket-tracker/internal/auth"
	config "ticket-tracker.com/ticket-tracker/internal/configs"
	httpapi "ticket-tracker.com/ticket-tracker/internal/http"
	repository "ticket-tracker.com/ticket-tracker/internal/repositories"
	"ticket-tracker.com/ticket-tracker/internal/rules"
	"ticket-tracker.com/ticket-tracker/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the ticket tracker HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		database := config.New(cfg.DatabaseDSN)

		ticketRepo := repository.NewTicketRepository(database)
		userRepo := repository.NewUserRepository(database)

		var tokens auth.TokenStore
		if cfg.TokenStore == config.TokenStoreRedis {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			tokens = auth.NewRedisTokenStore(redisClient, cfg.TokenKeyPrefix)
		} else {
			tokens = auth.NewMemoryTokenStore()
		}

		policy := rules.Policy{
			TitleMinLength:       cfg.TitleMinLength,
			TitleMaxLength:       cfg.TitleMaxLength,
			DescriptionMinLength: cfg.DescriptionMinLength,
			DescriptionMaxLength: cfg.DescriptionMaxLength,
		}

		ticketService := services.NewTicketService(ticketRepo, policy)
		authService := services.NewAuthService(userRepo, tokens, services.SuperuserDefaults{
			Username: cfg.SuperuserUsername,
			Email:    cfg.SuperuserEmail,
			Password: cfg.SuperuserPassword,
		})

		e := echo.New()
		handler := httpapi.NewHandler(ticketService)
		authHandler := httpapi.NewAuthHandler(authService)
		httpapi.Register(e, handler, authHandler, authService, cfg.RateLimit)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		log.Println("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
