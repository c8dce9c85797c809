package entities

// EncounterKind identifies how a battle was started
type EncounterKind string

// Encounter kinds
const (
	EncounterWild EncounterKind = "wild"
	EncounterNPC  EncounterKind = "npc"
)

// NPC is a trainer-like character placed on the map. Beating one awards
// the badge for its certification code and marks it defeated until the
// next game over.
type NPC struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	CertCode   string   `json:"cert_code" yaml:"cert_code"`
	Categories []string `json:"categories" yaml:"categories"`
	Level      int      `json:"level" yaml:"level"`
	MaxHealth  int      `json:"max_health" yaml:"max_health"`
	Color      string   `json:"color" yaml:"color"`

	// Tile position and footprint
	TileX  int `json:"tile_x" yaml:"tile_x"`
	TileY  int `json:"tile_y" yaml:"tile_y"`
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`

	Defeated bool `json:"defeated" yaml:"-"`
}

// Footprint returns the NPC size in tiles, defaulting to a single tile
func (n *NPC) Footprint() (w, h int) {
	w, h = n.Width, n.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// Monster is a wild opponent template. Monsters carry no persistent state;
// every encounter builds a fresh Opponent from the template.
type Monster struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Categories []string `json:"categories" yaml:"categories"`
	Level      int      `json:"level" yaml:"level"`
	MaxHealth  int      `json:"max_health" yaml:"max_health"`
	Color      string   `json:"color" yaml:"color"`
}

// Opponent is the transient battle-side view of an NPC or monster
type Opponent struct {
	Kind       EncounterKind
	ID         string
	Name       string
	Level      int
	CertCode   string
	Categories []string
	Health     int
	MaxHealth  int
	Color      string

	// Set for NPC encounters so victory can flag the NPC defeated
	NPC *NPC
}

// NewWildOpponent creates per-battle state from a monster template
func NewWildOpponent(m *Monster) *Opponent {
	return &Opponent{
		Kind:       EncounterWild,
		ID:         m.ID,
		Name:       m.Name,
		Level:      m.Level,
		Categories: append([]string(nil), m.Categories...),
		Health:     m.MaxHealth,
		MaxHealth:  m.MaxHealth,
		Color:      m.Color,
	}
}

// NewNPCOpponent creates per-battle state for an NPC
func NewNPCOpponent(n *NPC) *Opponent {
	categories := append([]string(nil), n.Categories...)
	if len(categories) == 0 && n.CertCode != "" {
		categories = []string{n.CertCode}
	}
	return &Opponent{
		Kind:       EncounterNPC,
		ID:         n.ID,
		Name:       n.Name,
		Level:      n.Level,
		CertCode:   n.CertCode,
		Categories: categories,
		Health:     n.MaxHealth,
		MaxHealth:  n.MaxHealth,
		Color:      n.Color,
		NPC:        n,
	}
}

// TakeDamage lowers health, never below zero, and returns the damage applied
func (o *Opponent) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > o.Health {
		amount = o.Health
	}
	o.Health -= amount
	return amount
}

// Defeated reports whether the opponent has no health left
func (o *Opponent) Defeated() bool {
	return o.Health <= 0
}
