// Package config holds the game balance values and the environment-driven
// defaults for the command line.
package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/certquest/internal/errors"
)

// MovementMode selects how a directional intent moves the player
type MovementMode string

// Movement modes
const (
	MovementGrid       MovementMode = "grid"
	MovementContinuous MovementMode = "continuous"
)

// BattleStyle selects whether a battle ends on the first answer
type BattleStyle string

// Battle styles
const (
	BattleSingleShot BattleStyle = "single_shot"
	BattleHealthPool BattleStyle = "health_pool"
)

// Balance is every tunable number of the game in one place. The zero value is
// not usable; start from DefaultBalance.
type Balance struct {
	TileSize     int          `yaml:"tile_size" json:"tile_size"`
	MovementMode MovementMode `yaml:"movement_mode" json:"movement_mode"`
	// Pixels per intent in continuous mode
	MoveSpeed int `yaml:"move_speed" json:"move_speed"`

	EncounterStride        int `yaml:"encounter_stride" json:"encounter_stride"`
	EncounterChancePercent int `yaml:"encounter_chance_percent" json:"encounter_chance_percent"`
	LevelSlack             int `yaml:"level_slack" json:"level_slack"`

	PlayerMaxHealth int `yaml:"player_max_health" json:"player_max_health"`
	StartingLives   int `yaml:"starting_lives" json:"starting_lives"`

	PlayerDamage           int `yaml:"player_damage" json:"player_damage"`
	OpponentDamageBase     int `yaml:"opponent_damage_base" json:"opponent_damage_base"`
	OpponentDamagePerLevel int `yaml:"opponent_damage_per_level" json:"opponent_damage_per_level"`

	XPBase           int `yaml:"xp_base" json:"xp_base"`
	XPPerLevel       int `yaml:"xp_per_level" json:"xp_per_level"`
	CurrencyPerLevel int `yaml:"currency_per_level" json:"currency_per_level"`
	XPCurveBase      int `yaml:"xp_curve_base" json:"xp_curve_base"`
	XPCurveStep      int `yaml:"xp_curve_step" json:"xp_curve_step"`

	WildBattleStyle BattleStyle `yaml:"wild_battle_style" json:"wild_battle_style"`
	NPCBattleStyle  BattleStyle `yaml:"npc_battle_style" json:"npc_battle_style"`

	DefaultCategory string `yaml:"default_category" json:"default_category"`
	StartArea       string `yaml:"start_area" json:"start_area"`
	SafeArea        string `yaml:"safe_area" json:"safe_area"`

	// Snapshot pushes per second on the websocket feed
	TickRate int `yaml:"tick_rate" json:"tick_rate"`
}

// DefaultBalance returns the shipped tuning
func DefaultBalance() *Balance {
	return &Balance{
		TileSize:     32,
		MovementMode: MovementGrid,
		MoveSpeed:    4,

		EncounterStride:        2,
		EncounterChancePercent: 25,
		LevelSlack:             2,

		PlayerMaxHealth: 100,
		StartingLives:   1,

		PlayerDamage:           25,
		OpponentDamageBase:     10,
		OpponentDamagePerLevel: 5,

		XPBase:           50,
		XPPerLevel:       10,
		CurrencyPerLevel: 20,
		XPCurveBase:      100,
		XPCurveStep:      50,

		WildBattleStyle: BattleHealthPool,
		NPCBattleStyle:  BattleSingleShot,

		DefaultCategory: "CLF-C02",
		StartArea:       "town",
		SafeArea:        "center",

		TickRate: 15,
	}
}

// Validate checks every value is usable
func (b *Balance) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidatePositive("tile_size", b.TileSize, vb)
	errors.ValidateEnum("movement_mode", string(b.MovementMode),
		[]string{string(MovementGrid), string(MovementContinuous)}, vb)
	errors.ValidateRange("move_speed", b.MoveSpeed, 1, b.TileSize, vb)

	errors.ValidatePositive("encounter_stride", b.EncounterStride, vb)
	errors.ValidateRange("encounter_chance_percent", b.EncounterChancePercent, 0, 100, vb)
	if b.LevelSlack < 0 {
		vb.Field("level_slack", "must not be negative")
	}

	errors.ValidatePositive("player_max_health", b.PlayerMaxHealth, vb)
	errors.ValidatePositive("starting_lives", b.StartingLives, vb)

	errors.ValidatePositive("player_damage", b.PlayerDamage, vb)
	errors.ValidatePositive("opponent_damage_base", b.OpponentDamageBase, vb)
	if b.OpponentDamagePerLevel < 0 {
		vb.Field("opponent_damage_per_level", "must not be negative")
	}

	if b.XPBase < 0 || b.XPPerLevel < 0 || b.CurrencyPerLevel < 0 {
		vb.Field("rewards", "reward coefficients must not be negative")
	}
	errors.ValidatePositive("xp_curve_base", b.XPCurveBase, vb)
	if b.XPCurveStep < 0 {
		vb.Field("xp_curve_step", "must not be negative")
	}

	styles := []string{string(BattleSingleShot), string(BattleHealthPool)}
	errors.ValidateEnum("wild_battle_style", string(b.WildBattleStyle), styles, vb)
	errors.ValidateEnum("npc_battle_style", string(b.NPCBattleStyle), styles, vb)

	errors.ValidateRequired("default_category", b.DefaultCategory, vb)
	errors.ValidateRequired("start_area", b.StartArea, vb)
	errors.ValidateRequired("safe_area", b.SafeArea, vb)

	errors.ValidateRange("tick_rate", b.TickRate, 1, 120, vb)

	return vb.Build()
}

// ExperienceToNext returns the experience needed to leave level
func (b *Balance) ExperienceToNext(level int) int {
	if level < 1 {
		level = 1
	}
	return b.XPCurveBase + b.XPCurveStep*(level-1)
}

// OpponentDamage returns the damage an opponent of level deals per wrong answer
func (b *Balance) OpponentDamage(level int) int {
	return b.OpponentDamageBase + b.OpponentDamagePerLevel*level
}

// StyleFor returns the battle style for wild or NPC encounters
func (b *Balance) StyleFor(npc bool) BattleStyle {
	if npc {
		return b.NPCBattleStyle
	}
	return b.WildBattleStyle
}

// DecodeBalance overlays YAML from r onto the defaults. Keys that are absent
// keep their default value; unknown keys are rejected.
func DecodeBalance(r io.Reader) (*Balance, error) {
	b := DefaultBalance()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(b); err != nil && err != io.EOF {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode balance")
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadBalance reads a YAML balance file. An empty path returns the defaults.
func LoadBalance(path string) (*Balance, error) {
	if path == "" {
		return DefaultBalance(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("balance file %s not found", path)
		}
		return nil, errors.Wrapf(err, "failed to read balance file %s", path)
	}

	b, err := DecodeBalance(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid balance file %s", path)
	}
	return b, nil
}

// Marshal renders the balance as YAML
func (b *Balance) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(b)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode balance")
	}
	return out, nil
}
