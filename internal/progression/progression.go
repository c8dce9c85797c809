// Package progression applies rewards and penalties once a battle is
// resolved: experience, levels, currency, badges, lives and the game-over
// reset.
package progression

import (
	"log/slog"

	"github.com/zyedidia/generic/mapset"

	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/world"
)

// Config holds the dependencies for progression
type Config struct {
	Balance *config.Balance
	World   *world.World
	Mover   *world.Mover
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Balance == nil {
		vb.RequiredField("Balance")
	}
	if c.World == nil {
		vb.RequiredField("World")
	}
	if c.Mover == nil {
		vb.RequiredField("Mover")
	}
	if c.Balance != nil && c.World != nil {
		if _, err := c.World.Area(c.Balance.SafeArea); err != nil {
			vb.Fieldf("Balance.SafeArea", "area %q does not exist", c.Balance.SafeArea)
		}
	}

	return vb.Build()
}

// Progression owns the reward formulas
type Progression struct {
	balance *config.Balance
	world   *world.World
	mover   *world.Mover
}

// New creates a progression
func New(cfg *Config) (*Progression, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("progression config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Progression{
		balance: cfg.Balance,
		world:   cfg.World,
		mover:   cfg.Mover,
	}, nil
}

// Reward is what a victory granted
type Reward struct {
	Experience   int
	Currency     int
	LevelsGained int
	Level        int
	// Badge is set for NPC victories; BadgeNew is false when already owned
	Badge    string
	BadgeNew bool
}

// DefeatResult is what losing all health cost
type DefeatResult struct {
	LivesLeft int
	GameOver  bool
	// Area the player was moved to
	RespawnArea string
}

// NewPlayer returns a player with starting stats and no position
func (p *Progression) NewPlayer() *entities.Player {
	player := &entities.Player{}
	p.resetStats(player)
	return player
}

func (p *Progression) resetStats(player *entities.Player) {
	*player = entities.Player{
		X:                player.X,
		Y:                player.Y,
		Facing:           entities.DirectionDown,
		Health:           p.balance.PlayerMaxHealth,
		MaxHealth:        p.balance.PlayerMaxHealth,
		Lives:            p.balance.StartingLives,
		Level:            1,
		ExperienceToNext: p.balance.ExperienceToNext(1),
		Badges:           mapset.New[string](),
	}
}

// ExperienceFor returns the experience granted for beating an opponent of level
func (p *Progression) ExperienceFor(level int) int {
	return p.balance.XPBase + p.balance.XPPerLevel*level
}

// CurrencyFor returns the currency granted for beating an opponent of level
func (p *Progression) CurrencyFor(level int) int {
	return p.balance.CurrencyPerLevel * level
}

// GrantVictory credits the player for beating opponent. Each level-up fully
// restores health.
func (p *Progression) GrantVictory(player *entities.Player, opponent *entities.Opponent) *Reward {
	reward := &Reward{
		Experience: p.ExperienceFor(opponent.Level),
		Currency:   p.CurrencyFor(opponent.Level),
	}

	player.Experience += reward.Experience
	player.Currency += reward.Currency

	for player.ExperienceToNext > 0 && player.Experience >= player.ExperienceToNext {
		player.Experience -= player.ExperienceToNext
		player.Level++
		player.ExperienceToNext = p.balance.ExperienceToNext(player.Level)
		player.RestoreHealth()
		reward.LevelsGained++
	}
	reward.Level = player.Level

	if opponent.Kind == entities.EncounterNPC {
		reward.Badge = opponent.CertCode
		reward.BadgeNew = player.AddBadge(opponent.CertCode)
		if opponent.NPC != nil {
			opponent.NPC.Defeated = true
		}
	}

	slog.Debug("Victory granted",
		"opponent", opponent.Name,
		"experience", reward.Experience,
		"currency", reward.Currency,
		"levels_gained", reward.LevelsGained,
		"badge", reward.Badge)

	return reward
}

// GrantDefeat takes a life. With lives left the player respawns in the safe
// area at full health; otherwise the whole game resets.
func (p *Progression) GrantDefeat(player *entities.Player) (*DefeatResult, error) {
	player.Lives--
	if player.Lives > 0 {
		player.RestoreHealth()
		if err := p.mover.PlaceAtSpawn(player, p.balance.SafeArea); err != nil {
			return nil, errors.Wrap(err, "failed to respawn player")
		}
		return &DefeatResult{LivesLeft: player.Lives, RespawnArea: p.balance.SafeArea}, nil
	}

	if err := p.Reset(player); err != nil {
		return nil, err
	}
	return &DefeatResult{GameOver: true, LivesLeft: player.Lives, RespawnArea: p.balance.SafeArea}, nil
}

// Reset restores the player to starting stats, clears badges and every NPC
// defeated flag, and moves the player to the safe area
func (p *Progression) Reset(player *entities.Player) error {
	p.resetStats(player)
	p.world.ResetNPCs()

	if err := p.mover.PlaceAtSpawn(player, p.balance.SafeArea); err != nil {
		return errors.Wrap(err, "failed to place player after reset")
	}

	slog.Info("Game reset", "safe_area", p.balance.SafeArea)
	return nil
}

// Heal restores health to max and returns the amount restored
func (p *Progression) Heal(player *entities.Player) int {
	return player.RestoreHealth()
}
