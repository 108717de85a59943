package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// TokenStore maps opaque bearer tokens to user identities. A user holds at
// most one token at a time; Issue returns the existing token when one is
// already out.
type TokenStore interface {
	Issue(ctx context.Context, userID string) (string, error)

	Resolve(ctx context.Context, token string) (string, error)

	RevokeUser(ctx context.Context, userID string) error
}

var ErrTokenNotFound = errors.New("token not found")

func newKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
