package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ticket-tracker.com/ticket-tracker/internal/auth"
	apperrors "ticket-tracker.com/ticket-tracker/internal/errors"
	model "ticket-tracker.com/ticket-tracker/internal/models"
	repository "ticket-tracker.com/ticket-tracker/internal/repositories"
)

// SuperuserDefaults are the fallback credentials for auto login and for the
// create-superuser bootstrap when the request omits fields.
type SuperuserDefaults struct {
	Username string
	Email    string
	Password string
}

type AuthService struct {
	users     *repository.UserRepository
	tokens    auth.TokenStore
	superuser SuperuserDefaults
}

func NewAuthService(users *repository.UserRepository, tokens auth.TokenStore, superuser SuperuserDefaults) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		superuser: superuser,
	}
}

// Login verifies the credentials and issues (or reuses) the user's token.
// With auto set, the configured superuser credentials are used instead.
// Failures never say which part of the credentials was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string, auto bool) (string, *model.User, error) {
	if auto {
		username = s.superuser.Username
		password = s.superuser.Password
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokens.RevokeUser(ctx, userID)
}

// CreateSuperuser is an idempotent bootstrap: an existing account is returned
// as-is with its token, a missing one is created. Blank fields fall back to
// the configured defaults.
func (s *AuthService) CreateSuperuser(ctx context.Context, username, email, password string) (*model.User, string, bool, error) {
	if username == "" {
		username = s.superuser.Username
	}
	if email == "" {
		email = s.superuser.Email
	}
	if password == "" {
		password = s.superuser.Password
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		token, err := s.tokens.Issue(ctx, user.ID)
		if err != nil {
			return nil, "", false, fmt.Errorf("failed to issue token: %w", err)
		}
		return user, token, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", false, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to hash password: %w", err)
	}

	user = &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsSuperuser:  true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", false, fmt.Errorf("failed to create superuser: %w", err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, "", false, fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, true, nil
}

// Authenticate resolves a bearer token to its user. Any failure collapses to
// a single authentication error with no detail on the cause.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, apperrors.ErrAuthenticationRequired
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrAuthenticationRequired
	}

	return user, nil
}
