package main

import (
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/certquest/internal/orchestrators/session"
	"github.com/KirkDiggler/certquest/internal/world"
)

// mapWorlds returns a factory that loads dir afresh for every session, or
// nil when dir is empty. dir is loaded once here to check it.
func mapWorlds(dir string, tileSize int) (session.WorldFactory, error) {
	if dir == "" {
		return nil, nil
	}

	w, err := world.LoadTMXDir(dir, tileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load maps from %s: %w", dir, err)
	}
	slog.Info("Loaded area maps", "dir", dir, "areas", len(w.Areas()))

	return func() (*world.World, error) {
		return world.LoadTMXDir(dir, tileSize)
	}, nil
}
