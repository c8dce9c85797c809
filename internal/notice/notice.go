// Package notice carries the informational messages the game emits
// alongside state transitions. The core never blocks on them; renderers
// and subscribers on the event bus consume them whenever they like.
package notice

import (
	"context"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/certquest/internal/errors"
)

// Key identifies a notice and its message template
type Key string

// Notice keys
const (
	KeyBattleWild      Key = "BATTLE_WILD"
	KeyBattleNPC       Key = "BATTLE_NPC"
	KeyQuizUnavailable Key = "QUIZ_UNAVAILABLE"
	KeyAlreadyDefeated Key = "ALREADY_DEFEATED"
	KeyAnswerCorrect   Key = "ANSWER_CORRECT"
	KeyAnswerWrong     Key = "ANSWER_WRONG"
	KeyVictory         Key = "VICTORY"
	KeyLevelUp         Key = "LEVEL_UP"
	KeyBadgeEarned     Key = "BADGE_EARNED"
	KeyRetreat         Key = "RETREAT"
	KeyFled            Key = "FLED"
	KeyAborted         Key = "ABORTED"
	KeyRespawned       Key = "RESPAWNED"
	KeyGameOver        Key = "GAME_OVER"
	KeyHealed          Key = "HEALED"
	KeyEnteredArea     Key = "ENTERED_AREA"
)

// Keys lists every notice key
func Keys() []Key {
	return []Key{
		KeyBattleWild, KeyBattleNPC, KeyQuizUnavailable, KeyAlreadyDefeated,
		KeyAnswerCorrect, KeyAnswerWrong, KeyVictory, KeyLevelUp,
		KeyBadgeEarned, KeyRetreat, KeyFled, KeyAborted,
		KeyRespawned, KeyGameOver, KeyHealed, KeyEnteredArea,
	}
}

// EventPrefix namespaces notice events on the bus
const EventPrefix = "certquest."

// ContextKey is where the notice is stored on a published event
const ContextKey = "notice"

// Notice is one message for the player
type Notice struct {
	Key  Key    `json:"key"`
	Text string `json:"text"`
	Tick uint64 `json:"tick"`
}

// EventType returns the bus event type for a key, e.g. certquest.victory
func EventType(key Key) string {
	return EventPrefix + strings.ToLower(string(key))
}

// Publisher renders notices and publishes them on an event bus
type Publisher struct {
	bus     events.EventBus
	catalog *Catalog
	source  core.Entity

	mu     sync.Mutex
	recent []Notice
	limit  int
}

// PublisherConfig configures a Publisher
type PublisherConfig struct {
	EventBus events.EventBus
	Catalog  *Catalog
	// Source is attached to every published event
	Source core.Entity
	// Recent is how many notices are kept for snapshots
	Recent int
}

// Validate ensures all required dependencies are provided
func (c *PublisherConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Source == nil {
		vb.RequiredField("Source")
	}

	return vb.Build()
}

// NewPublisher creates a publisher
func NewPublisher(cfg *PublisherConfig) (*Publisher, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("publisher config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	limit := cfg.Recent
	if limit <= 0 {
		limit = 5
	}
	return &Publisher{
		bus:     cfg.EventBus,
		catalog: cfg.Catalog,
		source:  cfg.Source,
		limit:   limit,
	}, nil
}

// Emit renders a notice, remembers it and publishes it. A failing
// subscriber does not stop the notice from being returned.
func (p *Publisher) Emit(ctx context.Context, tick uint64, target core.Entity, key Key, args ...any) (Notice, error) {
	n := Notice{Key: key, Text: p.catalog.Text(key, args...), Tick: tick}

	p.mu.Lock()
	p.recent = append(p.recent, n)
	if len(p.recent) > p.limit {
		p.recent = p.recent[len(p.recent)-p.limit:]
	}
	p.mu.Unlock()

	event := events.NewGameEvent(EventType(key), p.source, target)
	event.Context().Set(ContextKey, n)
	if err := p.bus.Publish(ctx, event); err != nil {
		return n, errors.Wrapf(err, "failed to publish %s", key)
	}
	return n, nil
}

// Recent returns the last notices, oldest first
func (p *Publisher) Recent() []Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Notice(nil), p.recent...)
}

// Clear forgets the recent notices
func (p *Publisher) Clear() {
	p.mu.Lock()
	p.recent = nil
	p.mu.Unlock()
}

// FromEvent extracts the notice carried by a bus event
func FromEvent(e events.Event) (Notice, bool) {
	if e == nil {
		return Notice{}, false
	}
	v, ok := e.Context().Get(ContextKey)
	if !ok {
		return Notice{}, false
	}
	n, ok := v.(Notice)
	return n, ok
}

// SubscribeAll registers fn for every notice event type and returns the
// subscription ids
func SubscribeAll(bus events.EventBus, fn func(ctx context.Context, source core.Entity, n Notice) error) []string {
	ids := make([]string, 0, len(Keys()))
	for _, key := range Keys() {
		ids = append(ids, bus.SubscribeFunc(EventType(key), 0, func(ctx context.Context, e events.Event) error {
			n, ok := FromEvent(e)
			if !ok {
				return nil
			}
			return fn(ctx, e.Source(), n)
		}))
	}
	return ids
}

// Unsubscribe removes subscriptions created by SubscribeAll
func Unsubscribe(bus events.EventBus, ids []string) {
	for _, id := range ids {
		_ = bus.Unsubscribe(id)
	}
}

// Entity is a minimal core.Entity used as event source or target
type Entity struct {
	ID   string
	Type string
}

// GetID returns the entity id
func (e *Entity) GetID() string {
	return e.ID
}

// GetType returns the entity type
func (e *Entity) GetType() string {
	return e.Type
}

var _ core.Entity = (*Entity)(nil)
