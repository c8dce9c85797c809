// Package roller provides the game's random source. Every random decision
// (encounter chance, monster choice, question choice) goes through a
// dice.Roller so a session can be replayed from a seed and tests can
// script exact outcomes.
package roller

import (
	"math/rand/v2"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/certquest/internal/errors"
)

// Seeded is a deterministic dice.Roller backed by a PCG source
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ dice.Roller = (*Seeded)(nil)

// NewSeeded creates a roller whose sequence is fully determined by seed
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Roll returns a value in [1, size]
func (s *Seeded) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, errors.InvalidArgumentf("die size must be positive: %d", size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(size) + 1, nil
}

// RollN rolls count dice of the given size
func (s *Seeded) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, errors.InvalidArgumentf("dice count must not be negative: %d", count)
	}

	results := make([]int, count)
	for i := range results {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// Scripted replays a fixed list of roll results in order
type Scripted struct {
	mu     sync.Mutex
	values []int
	next   int
}

var _ dice.Roller = (*Scripted)(nil)

// NewScripted creates a roller that returns values in order
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// Push appends more results to the script
func (s *Scripted) Push(values ...int) {
	s.mu.Lock()
	s.values = append(s.values, values...)
	s.mu.Unlock()
}

// Remaining returns how many scripted results are left
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.next
}

// Roll returns the next scripted value, which must fit the die
func (s *Scripted) Roll(size int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.values) {
		return 0, errors.ResourceExhaustedf("scripted roller exhausted after %d rolls", s.next)
	}
	v := s.values[s.next]
	if v < 1 || v > size {
		return 0, errors.InvalidArgumentf("scripted value %d does not fit a d%d", v, size)
	}
	s.next++
	return v, nil
}

// RollN returns the next count scripted values
func (s *Scripted) RollN(count, size int) ([]int, error) {
	results := make([]int, count)
	for i := range results {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// Chance rolls a d100 and reports whether it landed at or under percent
func Chance(r dice.Roller, percent int) (bool, error) {
	if percent <= 0 {
		return false, nil
	}
	v, err := r.Roll(100)
	if err != nil {
		return false, errors.Wrap(err, "failed to roll chance")
	}
	return v <= percent, nil
}

// Pick returns a uniform index in [0, n). A single candidate is returned
// without consuming a roll.
func Pick(r dice.Roller, n int) (int, error) {
	if n <= 0 {
		return 0, errors.InvalidArgument("nothing to pick from")
	}
	if n == 1 {
		return 0, nil
	}
	v, err := r.Roll(n)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll pick")
	}
	return v - 1, nil
}
