package session

import (
	"time"

	"github.com/KirkDiggler/certquest/internal/game"
	"github.com/KirkDiggler/certquest/internal/notice"
)

// StartSessionInput defines the request for starting a game
type StartSessionInput struct {
	// Seed fixes the random source; a clock-derived seed is used when nil
	Seed *uint64
	// Lang selects the notice language; the service default when empty
	Lang string
}

// StartSessionOutput defines the response for starting a game
type StartSessionOutput struct {
	SessionID string
	Seed      uint64
	Snapshot  *game.Snapshot
}

// SendInputInput defines the request for applying one tick of intents
type SendInputInput struct {
	SessionID string
	// Intents in wire form: up|down|left|right, interact, answer:<n>, flee
	Intents []string
}

// SendInputOutput defines the response for one tick
type SendInputOutput struct {
	Notices  []notice.Notice
	Snapshot *game.Snapshot
}

// GetSnapshotInput defines the request for reading a game
type GetSnapshotInput struct {
	SessionID string
}

// GetSnapshotOutput defines the response for reading a game
type GetSnapshotOutput struct {
	Snapshot *game.Snapshot
}

// ResetSessionInput defines the request for restarting a game in place
type ResetSessionInput struct {
	SessionID string
}

// ResetSessionOutput defines the response for restarting a game
type ResetSessionOutput struct {
	Notices  []notice.Notice
	Snapshot *game.Snapshot
}

// EndSessionInput defines the request for ending a game
type EndSessionInput struct {
	SessionID string
}

// EndSessionOutput defines the response for ending a game
type EndSessionOutput struct {
	Ticks uint64
}

// ListSessionsInput defines the request for listing games
type ListSessionsInput struct{}

// ListSessionsOutput defines the response for listing games
type ListSessionsOutput struct {
	Sessions []*Info
}

// Info summarizes one running game
type Info struct {
	ID         string
	Seed       uint64
	Lang       string
	Area       string
	Level      int
	Tick       uint64
	CreatedAt  time.Time
	LastActive time.Time
}
