package auth

import (
	"context"

	"github.com/redis/rueidis"
)

// RedisTokenStore keeps two keys per token: <prefix>token:<key> holding the
// user id, and <prefix>user:<id> holding the key, so lookups work both ways.
type RedisTokenStore struct {
	client rueidis.Client
	prefix string
}

func NewRedisTokenStore(client rueidis.Client, prefix string) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisTokenStore) Issue(ctx context.Context, userID string) (string, error) {
	existing := r.client.Do(ctx, r.client.B().Get().Key(r.userKey(userID)).Build())
	if err := existing.Error(); err == nil {
		return existing.ToString()
	} else if !rueidis.IsRedisNil(err) {
		return "", err
	}

	token, err := newKey()
	if err != nil {
		return "", err
	}

	if err := r.client.Do(
		ctx,
		r.client.B().Set().Key(r.tokenKey(token)).Value(userID).Build(),
	).Error(); err != nil {
		return "", err
	}

	if err := r.client.Do(
		ctx,
		r.client.B().Set().Key(r.userKey(userID)).Value(token).Build(),
	).Error(); err != nil {
		return "", err
	}

	return token, nil
}

func (r *RedisTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	result := r.client.Do(ctx, r.client.B().Get().Key(r.tokenKey(token)).Build())
	if err := result.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	return result.ToString()
}

func (r *RedisTokenStore) RevokeUser(ctx context.Context, userID string) error {
	existing := r.client.Do(ctx, r.client.B().Get().Key(r.userKey(userID)).Build())
	if err := existing.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil
		}
		return err
	}

	token, err := existing.ToString()
	if err != nil {
		return err
	}

	return r.client.Do(
		ctx,
		r.client.B().Del().Key(r.tokenKey(token)).Key(r.userKey(userID)).Build(),
	).Error()
}

func (r *RedisTokenStore) tokenKey(token string) string {
	return r.prefix + "token:" + token
}

func (r *RedisTokenStore) userKey(userID string) string {
	return r.prefix + "user:" + userID
}
