package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so tests can swap in miniredis or a mock
type Client interface {
	redis.UniversalClient
}

// IsNil reports whether err is the go-redis "key does not exist" sentinel
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
