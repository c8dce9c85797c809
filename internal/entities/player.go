// Package entities provides the core game data structures for certquest.
package entities

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Direction is a movement or facing direction
type Direction string

// Directions
const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Delta returns the unit step for the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirectionUp:
		return 0, -1
	case DirectionDown:
		return 0, 1
	case DirectionLeft:
		return -1, 0
	case DirectionRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	dx, dy := d.Delta()
	return dx != 0 || dy != 0
}

// Player is the single player character of a game session
type Player struct {
	// Pixel position of the player's top-left corner in the active area
	X int
	Y int

	Facing    Direction
	Moving    bool
	AnimFrame int

	// Accepted steps since the game started; drives the encounter stride
	Steps int

	Health    int
	MaxHealth int
	Lives     int

	Level            int
	Experience       int
	ExperienceToNext int
	Currency         int

	// Certification codes of NPCs defeated at least once
	Badges mapset.Set[string]
}

// HasBadge reports whether the player holds the badge for code
func (p *Player) HasBadge(code string) bool {
	if code == "" {
		return false
	}
	return p.Badges.Has(code)
}

// AddBadge records a badge and reports whether it was new
func (p *Player) AddBadge(code string) bool {
	if code == "" || p.Badges.Has(code) {
		return false
	}
	p.Badges.Put(code)
	return true
}

// BadgeList returns the badges in sorted order
func (p *Player) BadgeList() []string {
	badges := make([]string, 0, p.Badges.Size())
	p.Badges.Each(func(code string) {
		badges = append(badges, code)
	})
	sort.Strings(badges)
	return badges
}

// ClearBadges drops every collected badge
func (p *Player) ClearBadges() {
	p.Badges = mapset.New[string]()
}

// TakeDamage lowers health, never below zero, and returns the damage applied
func (p *Player) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > p.Health {
		amount = p.Health
	}
	p.Health -= amount
	return amount
}

// RestoreHealth sets health to max and returns how much was restored
func (p *Player) RestoreHealth() int {
	restored := p.MaxHealth - p.Health
	p.Health = p.MaxHealth
	return restored
}

// Alive reports whether the player has health left
func (p *Player) Alive() bool {
	return p.Health > 0
}
