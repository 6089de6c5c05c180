package session

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-narrator/internal/redis"
)

const (
	sessionKeyPrefix = "session:"

	errSessionNil     = "session cannot be nil"
	errSessionIDEmpty = "session ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis session repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
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

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	stored := *input.Session
	now := r.clock.Now().Unix()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Transcript == nil {
		stored.Transcript = []entities.TranscriptEntry{}
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}

	created, err := r.client.SetNX(ctx, sessionKeyPrefix+stored.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}
	if !created {
		return nil, errors.AlreadyExistsf("session with ID %s already exists", stored.ID)
	}

	return &CreateOutput{Session: &stored}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	result, err := r.client.Get(ctx, sessionKeyPrefix+input.ID).Result()
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, errors.NotFoundf("session with ID %s not found", input.ID)
		}
		return nil, errors.Wrap(err, "failed to get session")
	}

	var sess entities.Session
	if err := json.Unmarshal([]byte(result), &sess); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}

	return &GetOutput{Session: &sess}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.Session.CompactedCount < 0 || input.Session.CompactedCount > len(input.Session.Transcript) {
		return nil, errors.InvalidArgumentf("compacted count %d outside transcript of %d entries",
			input.Session.CompactedCount, len(input.Session.Transcript))
	}

	stored := *input.Session
	stored.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session")
	}

	updated, err := r.client.SetXX(ctx, sessionKeyPrefix+stored.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to update session")
	}
	if !updated {
		return nil, errors.NotFoundf("session with ID %s not found", stored.ID)
	}

	return &UpdateOutput{Session: &stored}, nil
}
