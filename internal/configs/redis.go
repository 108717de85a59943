package config

import (
	"log"

	"github.com/redis/rueidis"
)

// NewRedisClient connects the rueidis client backing the redis token store.
func NewRedisClient(addr string) rueidis.Client {
	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	return redisClient
}
