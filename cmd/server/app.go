package main

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/clients/narrator"
	"github.com/KirkDiggler/rpg-narrator/internal/config"
	"github.com/KirkDiggler/rpg-narrator/internal/handlers/narrative/v1alpha1"
	"github.com/KirkDiggler/rpg-narrator/internal/handlers/ws"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/combat"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/mutation"
	"github.com/KirkDiggler/rpg-narrator/internal/orchestrators/turn"
	"github.com/KirkDiggler/rpg-narrator/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrator/internal/redis"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/character"
	combatrepo "github.com/KirkDiggler/rpg-narrator/internal/repositories/combat"
	pendingaction "github.com/KirkDiggler/rpg-narrator/internal/repositories/pending_action"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/session"
	"github.com/KirkDiggler/rpg-narrator/internal/repositories/turnlock"
)

// app holds the assembled services and handlers
type app struct {
	hub           *broadcast.Hub
	characterRepo character.Repository
	turnService   turn.Service
	combatService combat.Service
	grpcHandler   *v1alpha1.Handler
	wsHandler     *ws.Handler
}

// buildApp wires repositories, orchestrators and handlers around one Redis client
func buildApp(ctx context.Context, cfg *config.Config, client redis.Client) (*app, error) {
	eventBus := events.NewBus()

	broadcaster, err := broadcast.NewBus(&broadcast.BusConfig{EventBus: eventBus})
	if err != nil {
		return nil, fmt.Errorf("failed to create broadcaster: %w", err)
	}
	hub, err := broadcast.NewHub(&broadcast.HubConfig{EventBus: eventBus})
	if err != nil {
		return nil, fmt.Errorf("failed to create hub: %w", err)
	}

	characterRepo, err := character.NewRedis(&character.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create character repository: %w", err)
	}
	sessionRepo, err := session.NewRedis(&session.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}
	pendingRepo, err := pendingaction.NewRedis(&pendingaction.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create pending action repository: %w", err)
	}
	combatRepo, err := combatrepo.NewRedis(&combatrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create combat repository: %w", err)
	}
	turnLock, err := turnlock.NewRedis(&turnlock.RedisConfig{Client: client})
	if err != nil {
		return nil, fmt.Errorf("failed to create turn lock: %w", err)
	}

	narratorClient, err := newNarrator(ctx, cfg.Narrator)
	if err != nil {
		return nil, err
	}

	combatService, err := combat.NewOrchestrator(&combat.Config{
		CombatRepo:    combatRepo,
		CharacterRepo: characterRepo,
		Broadcaster:   broadcaster,
		IDGenerator:   idgen.NewUUID("cmb"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create combat service: %w", err)
	}

	mutationService, err := mutation.NewOrchestrator(&mutation.Config{
		CharacterRepo: characterRepo,
		CombatService: combatService,
		Broadcaster:   broadcaster,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mutation service: %w", err)
	}

	turnService, err := turn.NewOrchestrator(&turn.Config{
		SessionRepo:      sessionRepo,
		CharacterRepo:    characterRepo,
		PendingRepo:      pendingRepo,
		TurnLock:         turnLock,
		Narrator:         narratorClient,
		Mutator:          mutationService,
		Broadcaster:      broadcaster,
		IDGenerator:      idgen.NewUUID(""),
		TokenCeiling:     cfg.Turn.TokenCeiling,
		NarratorTimeout:  cfg.Narrator.Timeout,
		MaxOutputTokens:  cfg.Narrator.MaxOutputTokens,
		SummaryMaxTokens: cfg.Narrator.SummaryMaxTokens,
		LockTTL:          cfg.Turn.LockTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create turn service: %w", err)
	}

	grpcHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		TurnService:   turnService,
		CombatService: combatService,
		Hub:           hub,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game handler: %w", err)
	}

	wsHandler, err := ws.NewHandler(&ws.HandlerConfig{
		Hub:            hub,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create websocket handler: %w", err)
	}

	return &app{
		hub:           hub,
		characterRepo: characterRepo,
		turnService:   turnService,
		combatService: combatService,
		grpcHandler:   grpcHandler,
		wsHandler:     wsHandler,
	}, nil
}

func newNarrator(ctx context.Context, cfg config.NarratorConfig) (narrator.Client, error) {
	switch cfg.Provider {
	case config.ProviderEcho:
		return narrator.NewEcho(), nil
	case config.ProviderGemini:
		client, err := narrator.NewGemini(ctx, &narrator.GeminiConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini narrator: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown narrator provider %q", cfg.Provider)
	}
}
