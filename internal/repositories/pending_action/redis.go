package pendingaction

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
	pendingKeyPrefix = "pending:"

	errSessionIDEmpty = "session ID cannot be empty"
)

// clearScript deletes each field only if it still holds the listed value
var clearScript = redis.NewScript(`
local removed = 0
for i = 1, #ARGV, 2 do
	if redis.call("HGET", KEYS[1], ARGV[i]) == ARGV[i + 1] then
		removed = removed + redis.call("HDEL", KEYS[1], ARGV[i])
	end
end
return removed
`)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis pending action repository.
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

// NewRedis creates a new Redis-backed pending action repository
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

func (r *redisRepository) Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error) {
	if input.Action == nil {
		return nil, errors.InvalidArgument("action cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if input.Action.SessionID == "" {
		vb.RequiredField("action.session_id")
	}
	if input.Action.CharacterID == "" {
		vb.RequiredField("action.character_id")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	stored := *input.Action
	if stored.SubmittedAt == 0 {
		stored.SubmittedAt = r.clock.Now().UnixNano()
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal pending action")
	}

	// HSET reports how many fields were newly created
	added, err := r.client.HSet(ctx, pendingKeyPrefix+stored.SessionID, stored.CharacterID, data).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to store pending action")
	}

	return &UpsertOutput{Replaced: added == 0}, nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	fields, err := r.client.HGetAll(ctx, pendingKeyPrefix+input.SessionID).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending actions")
	}

	actions := make([]*entities.PendingAction, 0, len(fields))
	for characterID, raw := range fields {
		var action entities.PendingAction
		if err := json.Unmarshal([]byte(raw), &action); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable pending action",
				"session_id", input.SessionID,
				"character_id", characterID,
				"error", err)
			continue
		}
		actions = append(actions, &action)
	}

	sort.Slice(actions, func(i, j int) bool {
		if actions[i].SubmittedAt != actions[j].SubmittedAt {
			return actions[i].SubmittedAt < actions[j].SubmittedAt
		}
		return actions[i].CharacterID < actions[j].CharacterID
	})

	return &ListOutput{Actions: actions}, nil
}

func (r *redisRepository) Clear(ctx context.Context, input ClearInput) (*ClearOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	key := pendingKeyPrefix + input.SessionID

	if len(input.Actions) > 0 {
		return r.clearActions(ctx, key, input.Actions)
	}

	if len(input.CharacterIDs) == 0 {
		removed, err := r.client.Del(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrap(err, "failed to clear pending actions")
		}
		return &ClearOutput{Removed: removed}, nil
	}

	removed, err := r.client.HDel(ctx, key, input.CharacterIDs...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear pending actions")
	}

	return &ClearOutput{Removed: removed}, nil
}

func (r *redisRepository) clearActions(ctx context.Context, key string, actions []*entities.PendingAction) (*ClearOutput, error) {
	args := make([]any, 0, 2*len(actions))
	for _, a := range actions {
		if a == nil {
			continue
		}
		// Same encoding Upsert stored, so the script compares exact bytes
		data, err := json.Marshal(a)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal pending action")
		}
		args = append(args, a.CharacterID, string(data))
	}
	if len(args) == 0 {
		return &ClearOutput{}, nil
	}

	removed, err := clearScript.Run(ctx, r.client, []string{key}, args...).Int64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to clear pending actions")
	}

	return &ClearOutput{Removed: removed}, nil
}
