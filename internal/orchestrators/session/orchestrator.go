// Package session hosts many independent games, one per session id. Every
// call that touches a game holds that session's lock, so each game still
// sees exactly one update at a time.
package session

//go:generate mockgen -destination=mock/mock_service.go -package=sessionmock github.com/KirkDiggler/certquest/internal/orchestrators/session Service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/game"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/pkg/clock"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
	"github.com/KirkDiggler/certquest/internal/pkg/roller"
	"github.com/KirkDiggler/certquest/internal/repositories/quizbank"
	"github.com/KirkDiggler/certquest/internal/world"
)

// DefaultMaxSessions caps concurrent games when Config.MaxSessions is zero
const DefaultMaxSessions = 256

// Service defines the interface for game session operations
type Service interface {
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)
	SendInput(ctx context.Context, input *SendInputInput) (*SendInputOutput, error)
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)
	ResetSession(ctx context.Context, input *ResetSessionInput) (*ResetSessionOutput, error)
	EndSession(ctx context.Context, input *EndSessionInput) (*EndSessionOutput, error)
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)
}

// RollerFactory builds the random source of a new session
type RollerFactory func(seed uint64) dice.Roller

// WorldFactory builds the map of a new session. Each call must return a
// world no other session holds, since NPC defeated flags live on it.
type WorldFactory func() (*world.World, error)

// Config holds the dependencies for the session orchestrator
type Config struct {
	QuizRepo    quizbank.Repository
	Balance     *config.Balance
	IDGenerator idgen.Generator
	EventBus    events.EventBus
	Clock       clock.Clock

	// Optional
	RollerFactory RollerFactory
	WorldFactory  WorldFactory
	LocaleDir     string
	DefaultLang   string
	MaxSessions   int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.QuizRepo == nil {
		vb.RequiredField("QuizRepo")
	}
	if c.Balance == nil {
		vb.RequiredField("Balance")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.MaxSessions < 0 {
		vb.Field("MaxSessions", "must not be negative")
	}

	return vb.Build()
}

type entry struct {
	mu         sync.Mutex
	game       *game.Game
	seed       uint64
	lang       string
	createdAt  time.Time
	lastActive time.Time
}

type orchestrator struct {
	quizRepo      quizbank.Repository
	balance       *config.Balance
	idGen         idgen.Generator
	eventBus      events.EventBus
	clock         clock.Clock
	rollerFactory RollerFactory
	worldFactory  WorldFactory
	localeDir     string
	defaultLang   string
	maxSessions   int

	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewOrchestrator creates a new session orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("session config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &orchestrator{
		quizRepo:      cfg.QuizRepo,
		balance:       cfg.Balance,
		idGen:         cfg.IDGenerator,
		eventBus:      cfg.EventBus,
		clock:         cfg.Clock,
		rollerFactory: cfg.RollerFactory,
		worldFactory:  cfg.WorldFactory,
		localeDir:     cfg.LocaleDir,
		defaultLang:   cfg.DefaultLang,
		maxSessions:   cfg.MaxSessions,
		sessions:      make(map[string]*entry),
	}
	if o.rollerFactory == nil {
		o.rollerFactory = func(seed uint64) dice.Roller { return roller.NewSeeded(seed) }
	}
	if o.defaultLang == "" {
		o.defaultLang = notice.DefaultLang
	}
	if o.maxSessions == 0 {
		o.maxSessions = DefaultMaxSessions
	}

	notice.SubscribeAll(o.eventBus, logNotice)

	return o, nil
}

func logNotice(_ context.Context, source core.Entity, n notice.Notice) error {
	sessionID := ""
	if source != nil {
		sessionID = source.GetID()
	}
	slog.Debug("Game notice",
		"session_id", sessionID,
		"key", n.Key,
		"tick", n.Tick,
		"text", n.Text)
	return nil
}

// StartSession creates a new game with a fresh player
func (o *orchestrator) StartSession(_ context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	if input == nil {
		input = &StartSessionInput{}
	}

	o.mu.RLock()
	count := len(o.sessions)
	o.mu.RUnlock()
	if count >= o.maxSessions {
		return nil, errors.ResourceExhaustedf("session limit of %d reached", o.maxSessions)
	}

	now := o.clock.Now()
	seed := uint64(now.UnixNano())
	if input.Seed != nil {
		seed = *input.Seed
	}
	lang := input.Lang
	if lang == "" {
		lang = o.defaultLang
	}

	id := o.idGen.Generate()
	rng := o.rollerFactory(seed)

	picker, err := quizbank.NewPicker(&quizbank.PickerConfig{
		Repository:      o.quizRepo,
		Roller:          rng,
		DefaultCategory: o.balance.DefaultCategory,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create question picker")
	}

	// nil keeps the built-in overworld
	var w *world.World
	if o.worldFactory != nil {
		w, err = o.worldFactory()
		if err != nil {
			return nil, errors.Wrap(err, "failed to build world")
		}
	}

	g, err := game.New(&game.Config{
		ID:          id,
		World:       w,
		Balance:     o.balance,
		Picker:      picker,
		Roller:      rng,
		IDGenerator: idgen.NewSequential("battle"),
		EventBus:    o.eventBus,
		Catalog:     notice.NewCatalog(lang, o.localeDir),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create game")
	}

	e := &entry{
		game:       g,
		seed:       seed,
		lang:       lang,
		createdAt:  now,
		lastActive: now,
	}

	// Concurrent starts may have filled the table while the game was built
	o.mu.Lock()
	if len(o.sessions) >= o.maxSessions {
		o.mu.Unlock()
		return nil, errors.ResourceExhaustedf("session limit of %d reached", o.maxSessions)
	}
	if _, exists := o.sessions[id]; exists {
		o.mu.Unlock()
		return nil, errors.AlreadyExistsf("session %s already exists", id)
	}
	o.sessions[id] = e
	o.mu.Unlock()

	slog.Info("Session started",
		"session_id", id,
		"seed", seed,
		"lang", lang)

	return &StartSessionOutput{
		SessionID: id,
		Seed:      seed,
		Snapshot:  g.Snapshot(),
	}, nil
}

func (o *orchestrator) lookup(sessionID string) (*entry, error) {
	if sessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.RLock()
	e, ok := o.sessions[sessionID]
	o.mu.RUnlock()
	if !ok {
		return nil, errors.NotFoundf("session %s not found", sessionID)
	}
	return e, nil
}

// SendInput applies one tick of intents to a game
func (o *orchestrator) SendInput(ctx context.Context, input *SendInputInput) (*SendInputOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	e, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	intents, err := game.ParseIntents(input.Intents)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	notices, err := e.game.Update(ctx, intents...)
	if err != nil {
		slog.Error("Game update failed",
			"session_id", input.SessionID,
			"tick", e.game.Tick(),
			"error", err)
		return nil, errors.Wrapf(err, "failed to update session %s", input.SessionID)
	}
	e.lastActive = o.clock.Now()

	return &SendInputOutput{
		Notices:  notices,
		Snapshot: e.game.Snapshot(),
	}, nil
}

// GetSnapshot returns the current state of a game
func (o *orchestrator) GetSnapshot(_ context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	e, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return &GetSnapshotOutput{Snapshot: e.game.Snapshot()}, nil
}

// ResetSession restarts a game in place, as a game over would
func (o *orchestrator) ResetSession(ctx context.Context, input *ResetSessionInput) (*ResetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	e, err := o.lookup(input.SessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	notices, err := e.game.Reset(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reset session %s", input.SessionID)
	}
	e.lastActive = o.clock.Now()

	return &ResetSessionOutput{
		Notices:  notices,
		Snapshot: e.game.Snapshot(),
	}, nil
}

// EndSession drops a game
func (o *orchestrator) EndSession(_ context.Context, input *EndSessionInput) (*EndSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	o.mu.Lock()
	e, ok := o.sessions[input.SessionID]
	delete(o.sessions, input.SessionID)
	o.mu.Unlock()
	if !ok {
		return nil, errors.NotFoundf("session %s not found", input.SessionID)
	}

	e.mu.Lock()
	ticks := e.game.Tick()
	e.mu.Unlock()

	slog.Info("Session ended",
		"session_id", input.SessionID,
		"ticks", ticks)

	return &EndSessionOutput{Ticks: ticks}, nil
}

// ListSessions returns every running game, oldest first
func (o *orchestrator) ListSessions(_ context.Context, _ *ListSessionsInput) (*ListSessionsOutput, error) {
	o.mu.RLock()
	entries := make(map[string]*entry, len(o.sessions))
	for id, e := range o.sessions {
		entries[id] = e
	}
	o.mu.RUnlock()

	infos := make([]*Info, 0, len(entries))
	for id, e := range entries {
		e.mu.Lock()
		infos = append(infos, &Info{
			ID:         id,
			Seed:       e.seed,
			Lang:       e.lang,
			Area:       e.game.World().Active().Name,
			Level:      e.game.Player().Level,
			Tick:       e.game.Tick(),
			CreatedAt:  e.createdAt,
			LastActive: e.lastActive,
		})
		e.mu.Unlock()
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})

	return &ListSessionsOutput{Sessions: infos}, nil
}
