package combat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-narrator/internal/entities"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-narrator/internal/redis"
)

const (
	combatKeyPrefix    = "combat:"
	sessionIndexPrefix = "combat:session:"
	activeKeyPrefix    = "combat:active:"

	errCombatNil      = "combat cannot be nil"
	errCombatIDEmpty  = "combat ID cannot be empty"
	errSessionIDEmpty = "session ID cannot be empty"
)

// clearActiveScript deletes the active pointer only while it still names ARGV[1]
var clearActiveScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis combat repository.
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

// NewRedis creates a new Redis-backed combat repository
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

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Combat == nil {
		return nil, errors.InvalidArgument(errCombatNil)
	}
	if input.Combat.ID == "" {
		return nil, errors.InvalidArgument(errCombatIDEmpty)
	}
	if input.Combat.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	stored := input.Combat.Clone()
	now := r.clock.Now().Unix()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal combat")
	}

	created, err := r.client.SetNX(ctx, combatKeyPrefix+stored.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create combat")
	}
	if !created {
		return nil, errors.AlreadyExistsf("combat with ID %s already exists", stored.ID)
	}

	if err := r.client.SAdd(ctx, sessionIndexPrefix+stored.SessionID, stored.ID).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to index combat")
	}

	return &CreateOutput{Combat: stored}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCombatIDEmpty)
	}

	c, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Combat: c}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Combat == nil {
		return nil, errors.InvalidArgument(errCombatNil)
	}
	if input.Combat.ID == "" {
		return nil, errors.InvalidArgument(errCombatIDEmpty)
	}

	stored := input.Combat.Clone()
	stored.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal combat")
	}

	updated, err := r.client.SetXX(ctx, combatKeyPrefix+stored.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to update combat")
	}
	if !updated {
		return nil, errors.NotFoundf("combat with ID %s not found", stored.ID)
	}

	return &UpdateOutput{Combat: stored}, nil
}

func (r *redisRepository) GetActive(ctx context.Context, input GetActiveInput) (*GetActiveOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	id, err := r.client.Get(ctx, activeKeyPrefix+input.SessionID).Result()
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, errors.NotFoundf("no active combat in session %s", input.SessionID)
		}
		return nil, errors.Wrap(err, "failed to get active combat")
	}

	c, err := r.load(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			slog.WarnContext(ctx, "Active combat pointer names a missing combat",
				"session_id", input.SessionID,
				"combat_id", id)
			return nil, errors.NotFoundf("no active combat in session %s", input.SessionID)
		}
		return nil, err
	}

	return &GetActiveOutput{Combat: c}, nil
}

func (r *redisRepository) SetActive(ctx context.Context, input SetActiveInput) error {
	if input.SessionID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.CombatID == "" {
		return errors.InvalidArgument(errCombatIDEmpty)
	}

	if err := r.client.Set(ctx, activeKeyPrefix+input.SessionID, input.CombatID, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to set active combat")
	}
	return nil
}

func (r *redisRepository) ClearActive(ctx context.Context, input ClearActiveInput) error {
	if input.SessionID == "" {
		return errors.InvalidArgument(errSessionIDEmpty)
	}

	keys := []string{activeKeyPrefix + input.SessionID}
	if err := clearActiveScript.Run(ctx, r.client, keys, input.CombatID).Err(); err != nil {
		return errors.Wrap(err, "failed to clear active combat")
	}
	return nil
}

func (r *redisRepository) ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	indexKey := sessionIndexPrefix + input.SessionID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list combats")
	}

	combats := make([]*entities.Combat, 0, len(ids))
	for _, id := range ids {
		c, err := r.load(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, err
		}
		combats = append(combats, c)
	}

	sort.Slice(combats, func(i, j int) bool {
		if combats[i].CreatedAt != combats[j].CreatedAt {
			return combats[i].CreatedAt > combats[j].CreatedAt
		}
		return combats[i].ID < combats[j].ID
	})

	return &ListBySessionOutput{Combats: combats}, nil
}

func (r *redisRepository) load(ctx context.Context, id string) (*entities.Combat, error) {
	raw, err := r.client.Get(ctx, combatKeyPrefix+id).Result()
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, errors.NotFoundf("combat with ID %s not found", id)
		}
		return nil, errors.Wrap(err, "failed to get combat")
	}

	var c entities.Combat
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal combat")
	}
	return &c, nil
}
