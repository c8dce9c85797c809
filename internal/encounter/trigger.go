// Package encounter decides whether an accepted step starts a battle.
package encounter

import (
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/pkg/roller"
	"github.com/KirkDiggler/certquest/internal/world"
)

// Outcome is what a step triggered
type Outcome string

// Outcomes
const (
	OutcomeNone            Outcome = "none"
	OutcomeWild            Outcome = "wild"
	OutcomeNPC             Outcome = "npc"
	OutcomeAlreadyDefeated Outcome = "already_defeated"
)

// Config configures a Trigger
type Config struct {
	Roller        dice.Roller
	Stride        int
	ChancePercent int
	LevelSlack    int
}

// Validate checks the trigger configuration
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	errors.ValidatePositive("Stride", c.Stride, vb)
	errors.ValidateRange("ChancePercent", c.ChancePercent, 0, 100, vb)
	if c.LevelSlack < 0 {
		vb.Field("LevelSlack", "must not be negative")
	}

	return vb.Build()
}

// Trigger turns movement into encounters
type Trigger struct {
	roller        dice.Roller
	stride        int
	chancePercent int
	levelSlack    int
}

// New creates a trigger
func New(cfg *Config) (*Trigger, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("encounter config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid encounter config")
	}

	return &Trigger{
		roller:        cfg.Roller,
		stride:        cfg.Stride,
		chancePercent: cfg.ChancePercent,
		levelSlack:    cfg.LevelSlack,
	}, nil
}

// CheckInput is the accepted move to evaluate
type CheckInput struct {
	Area   *world.Area
	Player *entities.Player
	Move   world.MoveResult
	// Player footprint in pixels after the move
	PlayerBox world.Rect
	// Player footprint before the move. NPCs it already touched do not
	// trigger again; the zero Rect touches nothing.
	PrevBox  world.Rect
	TileSize int
}

// CheckOutput is the encounter, if any
type CheckOutput struct {
	Outcome Outcome
	NPC     *entities.NPC
	Monster *entities.Monster
}

// Check evaluates one move. Entering an NPC footprint wins over grass, and
// standing inside one never rolls for grass. Blocked and warping moves never
// trigger anything.
func (t *Trigger) Check(input *CheckInput) (*CheckOutput, error) {
	if input == nil || input.Area == nil || input.Player == nil {
		return nil, errors.InvalidArgument("area and player are required")
	}
	none := &CheckOutput{Outcome: OutcomeNone}
	if input.Move.Blocked || input.Move.Warped {
		return none, nil
	}

	if touching := input.Area.NPCsOverlapping(input.PlayerBox, input.TileSize); len(touching) > 0 {
		return t.contact(input, touching), nil
	}

	if !input.Move.StepCounted || input.Move.Tile != world.TileGrass {
		return none, nil
	}
	if input.Player.Steps%t.stride != 0 {
		return none, nil
	}

	hit, err := roller.Chance(t.roller, t.chancePercent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll encounter chance")
	}
	if !hit {
		return none, nil
	}

	eligible := input.Area.EligibleMonsters(input.Player.Level + t.levelSlack)
	if len(eligible) == 0 {
		return none, nil
	}

	idx, err := roller.Pick(t.roller, len(eligible))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pick monster")
	}
	return &CheckOutput{Outcome: OutcomeWild, Monster: eligible[idx]}, nil
}

// contact picks the NPC just entered. An NPC still willing to battle wins
// over one already beaten.
func (t *Trigger) contact(input *CheckInput, touching []*entities.NPC) *CheckOutput {
	prevTouching := input.Area.NPCsOverlapping(input.PrevBox, input.TileSize)

	var beaten *entities.NPC
	for _, npc := range touching {
		if slices.Contains(prevTouching, npc) {
			continue
		}
		if npc.Defeated || input.Player.HasBadge(npc.CertCode) {
			if beaten == nil {
				beaten = npc
			}
			continue
		}
		return &CheckOutput{Outcome: OutcomeNPC, NPC: npc}
	}
	if beaten != nil {
		return &CheckOutput{Outcome: OutcomeAlreadyDefeated, NPC: beaten}
	}
	return &CheckOutput{Outcome: OutcomeNone}
}
