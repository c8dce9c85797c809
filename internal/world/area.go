package world

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
)

// Door warps the player to another area when it overlaps the player
type Door struct {
	// Trigger zone in tiles of the source area
	Zone   Rect   `json:"zone"`
	ToArea string `json:"to_area"`
	SpawnX int    `json:"spawn_x"`
	SpawnY int    `json:"spawn_y"`
}

// Area is one independently gridded region of the world
type Area struct {
	Name     string
	Grid     [][]TileCode
	Blocking mapset.Set[TileCode]
	Doors    []Door
	NPCs     []*entities.NPC
	Monsters []*entities.Monster

	// Spawn tile used when the game starts or respawns in this area
	SpawnX int
	SpawnY int
}

// AreaConfig describes an area to build
type AreaConfig struct {
	Name     string
	Grid     [][]TileCode
	Blocking []TileCode
	Doors    []Door
	NPCs     []*entities.NPC
	Monsters []*entities.Monster
	SpawnX   int
	SpawnY   int
}

// Validate checks the grid is rectangular, the border blocks and every
// placed object sits inside the area
func (c *AreaConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("name", c.Name, vb)
	if len(c.Grid) < 3 || len(c.Grid[0]) < 3 {
		vb.Field("grid", "must be at least 3x3")
		return vb.Build()
	}

	blocking := c.blockingSet()
	height, width := len(c.Grid), len(c.Grid[0])
	for y, row := range c.Grid {
		if len(row) != width {
			vb.Fieldf("grid", "row %d has %d tiles, want %d", y, len(row), width)
			continue
		}
		for x, code := range row {
			if !code.Known() {
				vb.Fieldf("grid", "unknown tile code %d at (%d,%d)", code, x, y)
			}
			border := x == 0 || y == 0 || x == width-1 || y == height-1
			if border && !blocking.Has(code) {
				vb.Fieldf("grid", "border tile (%d,%d) is %s, must block", x, y, code)
			}
		}
	}
	if err := vb.Build(); err != nil {
		return err
	}

	inside := func(x, y int) bool { return x > 0 && y > 0 && x < width-1 && y < height-1 }
	walkable := func(x, y int) bool { return inside(x, y) && !blocking.Has(c.Grid[y][x]) }

	if !walkable(c.SpawnX, c.SpawnY) {
		vb.Fieldf("spawn", "(%d,%d) is not a walkable tile", c.SpawnX, c.SpawnY)
	}
	for i, d := range c.Doors {
		if d.ToArea == "" {
			vb.Fieldf("doors", "door %d has no destination", i)
		}
		if d.Zone.W <= 0 || d.Zone.H <= 0 ||
			!inside(d.Zone.X, d.Zone.Y) || !inside(d.Zone.X+d.Zone.W-1, d.Zone.Y+d.Zone.H-1) {
			vb.Fieldf("doors", "door %d zone %+v is outside the playable area", i, d.Zone)
		}
	}
	for _, n := range c.NPCs {
		w, h := n.Footprint()
		if !inside(n.TileX, n.TileY) || !inside(n.TileX+w-1, n.TileY+h-1) {
			vb.Fieldf("npcs", "npc %s at (%d,%d) is outside the playable area", n.ID, n.TileX, n.TileY)
		}
		errors.ValidateRequired("npcs.id", n.ID, vb)
	}
	for _, m := range c.Monsters {
		errors.ValidateRequired("monsters.id", m.ID, vb)
		errors.ValidatePositive("monsters."+m.ID+".max_health", m.MaxHealth, vb)
	}

	return vb.Build()
}

func (c *AreaConfig) blockingSet() mapset.Set[TileCode] {
	if len(c.Blocking) == 0 {
		return DefaultBlocking()
	}
	s := mapset.New[TileCode]()
	for _, code := range c.Blocking {
		s.Put(code)
	}
	return s
}

// NewArea builds a validated area. The grid is copied.
func NewArea(cfg *AreaConfig) (*Area, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("area config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid area %q", cfg.Name)
	}

	grid := make([][]TileCode, len(cfg.Grid))
	for y, row := range cfg.Grid {
		grid[y] = append([]TileCode(nil), row...)
	}

	return &Area{
		Name:     cfg.Name,
		Grid:     grid,
		Blocking: cfg.blockingSet(),
		Doors:    append([]Door(nil), cfg.Doors...),
		NPCs:     cfg.NPCs,
		Monsters: cfg.Monsters,
		SpawnX:   cfg.SpawnX,
		SpawnY:   cfg.SpawnY,
	}, nil
}

// Width returns the grid width in tiles
func (a *Area) Width() int {
	return len(a.Grid[0])
}

// Height returns the grid height in tiles
func (a *Area) Height() int {
	return len(a.Grid)
}

// InBounds reports whether the tile lies inside the grid
func (a *Area) InBounds(tx, ty int) bool {
	return tx >= 0 && ty >= 0 && ty < len(a.Grid) && tx < len(a.Grid[ty])
}

// Tile returns the tile code at the coordinate
func (a *Area) Tile(tx, ty int) (TileCode, error) {
	if !a.InBounds(tx, ty) {
		return 0, errors.OutOfBoundsMove(tx, ty)
	}
	return a.Grid[ty][tx], nil
}

// CanMoveTo reports whether the player may occupy the tile
func (a *Area) CanMoveTo(tx, ty int) bool {
	code, err := a.Tile(tx, ty)
	if err != nil {
		return false
	}
	return !a.Blocking.Has(code)
}

// DoorOverlapping returns the first door whose zone overlaps box, both in
// pixels
func (a *Area) DoorOverlapping(box Rect, tileSize int) *Door {
	for i := range a.Doors {
		if a.Doors[i].Zone.Scale(tileSize).Overlaps(box) {
			return &a.Doors[i]
		}
	}
	return nil
}

// NPCsOverlapping returns the NPCs whose footprint overlaps box, in area
// order. Box is in pixels. Defeated NPCs are included; callers decide what
// contact means.
func (a *Area) NPCsOverlapping(box Rect, tileSize int) []*entities.NPC {
	var out []*entities.NPC
	for _, n := range a.NPCs {
		if NPCZone(n).Scale(tileSize).Overlaps(box) {
			out = append(out, n)
		}
	}
	return out
}

// NPCZone returns the NPC footprint in tiles
func NPCZone(n *entities.NPC) Rect {
	w, h := n.Footprint()
	return Rect{X: n.TileX, Y: n.TileY, W: w, H: h}
}

// EligibleMonsters returns the monsters whose level is at most maxLevel
func (a *Area) EligibleMonsters(maxLevel int) []*entities.Monster {
	var out []*entities.Monster
	for _, m := range a.Monsters {
		if m.Level <= maxLevel {
			out = append(out, m)
		}
	}
	return out
}

// CopyGrid returns a deep copy of the grid
func (a *Area) CopyGrid() [][]TileCode {
	grid := make([][]TileCode, len(a.Grid))
	for y, row := range a.Grid {
		grid[y] = append([]TileCode(nil), row...)
	}
	return grid
}
