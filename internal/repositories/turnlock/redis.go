package turnlock

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-narrator/internal/redis"
)

const (
	lockKeyPrefix       = "turn:lock:"
	generationKeyPrefix = "turn:generation:"

	// DefaultTTL is used when AcquireInput.TTL is zero
	DefaultTTL = 3 * time.Minute

	errSessionIDEmpty = "session ID cannot be empty"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis turn lock.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed turn lock
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Acquire(ctx context.Context, input AcquireInput) (*AcquireOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	generation, err := r.client.Incr(ctx, generationKeyPrefix+input.SessionID).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to advance turn generation")
	}

	acquired, err := r.client.SetNX(ctx, lockKeyPrefix+input.SessionID,
		strconv.FormatInt(generation, 10), ttl).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to acquire turn lock")
	}
	if !acquired {
		return nil, errors.Conflictf("a turn is already being processed for session %s", input.SessionID).
			WithMeta("session_id", input.SessionID)
	}

	return &AcquireOutput{Generation: generation}, nil
}

func (r *redisRepository) Renew(ctx context.Context, input RenewInput) (*RenewOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	keys := []string{lockKeyPrefix + input.SessionID}
	renewed, err := renewScript.Run(ctx, r.client, keys,
		strconv.FormatInt(input.Generation, 10), ttl.Milliseconds()).Int64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to renew turn lock")
	}

	return &RenewOutput{Renewed: renewed == 1}, nil
}

func (r *redisRepository) Release(ctx context.Context, input ReleaseInput) (*ReleaseOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	keys := []string{lockKeyPrefix + input.SessionID}
	deleted, err := releaseScript.Run(ctx, r.client, keys, strconv.FormatInt(input.Generation, 10)).Int64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to release turn lock")
	}

	return &ReleaseOutput{Released: deleted == 1}, nil
}

func (r *redisRepository) Held(ctx context.Context, input HeldInput) (*HeldOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	n, err := r.client.Exists(ctx, lockKeyPrefix+input.SessionID).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check turn lock")
	}

	return &HeldOutput{Held: n > 0}, nil
}
