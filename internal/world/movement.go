package world

import (
	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
)

// animFrames is the length of the walk cycle
const animFrames = 4

// MoveResult describes what one directional intent did
type MoveResult struct {
	// Blocked moves leave the position untouched and never reach the
	// encounter trigger
	Blocked bool
	// StepCounted is true when the player entered a new tile
	StepCounted bool

	// Tile the player occupies after the move
	TileX int
	TileY int
	Tile  TileCode

	// Set when a door moved the player to another area
	Warped   bool
	FromArea string
	ToArea   string
}

// MoverConfig configures a Mover
type MoverConfig struct {
	World *World
	Mode  config.MovementMode
	// Pixels per intent in continuous mode
	Speed int
}

// Validate checks the mover dependencies
func (c *MoverConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.World == nil {
		vb.RequiredField("World")
	}
	errors.ValidateEnum("Mode", string(c.Mode),
		[]string{string(config.MovementGrid), string(config.MovementContinuous)}, vb)
	if c.Mode == config.MovementContinuous {
		errors.ValidatePositive("Speed", c.Speed, vb)
	}

	return vb.Build()
}

// Mover applies directional intents to the player
type Mover struct {
	world *World
	mode  config.MovementMode
	speed int
}

// NewMover creates a mover
func NewMover(cfg *MoverConfig) (*Mover, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("mover config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid mover config")
	}

	return &Mover{
		world: cfg.World,
		mode:  cfg.Mode,
		speed: cfg.Speed,
	}, nil
}

// PlayerBox returns the player's footprint in pixels
func (m *Mover) PlayerBox(p *entities.Player) Rect {
	ts := m.world.TileSize()
	return Rect{X: p.X, Y: p.Y, W: ts, H: ts}
}

// PlayerTile returns the tile under the center of the player
func (m *Mover) PlayerTile(p *entities.Player) (tx, ty int) {
	ts := m.world.TileSize()
	return floorDiv(p.X+ts/2, ts), floorDiv(p.Y+ts/2, ts)
}

// Place puts the player on a tile of an area and makes that area active
func (m *Mover) Place(p *entities.Player, area string, tx, ty int) error {
	a, err := m.world.Area(area)
	if err != nil {
		return err
	}
	if !a.CanMoveTo(tx, ty) {
		return errors.InvalidArgumentf("tile (%d,%d) in %q is not walkable", tx, ty, area)
	}
	if err := m.world.SetActive(area); err != nil {
		return err
	}

	ts := m.world.TileSize()
	p.X, p.Y = tx*ts, ty*ts
	p.Moving = false
	return nil
}

// PlaceAtSpawn puts the player on the spawn tile of an area
func (m *Mover) PlaceAtSpawn(p *entities.Player, area string) error {
	a, err := m.world.Area(area)
	if err != nil {
		return err
	}
	return m.Place(p, area, a.SpawnX, a.SpawnY)
}

// AttemptMove moves the player one step in dir. Facing always follows the
// intent, even when the move is blocked.
func (m *Mover) AttemptMove(p *entities.Player, dir entities.Direction) MoveResult {
	p.Facing = dir
	dx, dy := dir.Delta()
	if dx == 0 && dy == 0 {
		p.Moving = false
		return m.blocked(p)
	}

	area := m.world.Active()
	ts := m.world.TileSize()
	beforeX, beforeY := m.PlayerTile(p)

	var nx, ny int
	switch m.mode {
	case config.MovementContinuous:
		nx, ny = p.X+dx*m.speed, p.Y+dy*m.speed
		if !m.boxFits(area, Rect{X: nx, Y: ny, W: ts, H: ts}) {
			p.Moving = false
			return m.blocked(p)
		}
	default:
		tx, ty := floorDiv(p.X, ts)+dx, floorDiv(p.Y, ts)+dy
		if !area.CanMoveTo(tx, ty) {
			p.Moving = false
			return m.blocked(p)
		}
		nx, ny = tx*ts, ty*ts
	}

	p.X, p.Y = nx, ny
	p.Moving = true
	p.AnimFrame = (p.AnimFrame + 1) % animFrames

	res := MoveResult{}
	res.TileX, res.TileY = m.PlayerTile(p)
	res.Tile, _ = area.Tile(res.TileX, res.TileY)
	if res.TileX != beforeX || res.TileY != beforeY {
		res.StepCounted = true
		p.Steps++
	}

	if door := area.DoorOverlapping(m.PlayerBox(p), ts); door != nil {
		res.Warped = true
		res.FromArea = area.Name
		res.ToArea = door.ToArea
		// Door destinations were checked when the world was built
		_ = m.Place(p, door.ToArea, door.SpawnX, door.SpawnY)
		res.TileX, res.TileY = door.SpawnX, door.SpawnY
		res.Tile, _ = m.world.Active().Tile(door.SpawnX, door.SpawnY)
	}

	return res
}

func (m *Mover) blocked(p *entities.Player) MoveResult {
	tx, ty := m.PlayerTile(p)
	code, _ := m.world.Active().Tile(tx, ty)
	return MoveResult{Blocked: true, TileX: tx, TileY: ty, Tile: code}
}

// boxFits checks the tiles under all four corners of a pixel box
func (m *Mover) boxFits(area *Area, box Rect) bool {
	ts := m.world.TileSize()
	left, top := floorDiv(box.X, ts), floorDiv(box.Y, ts)
	right, bottom := floorDiv(box.X+box.W-1, ts), floorDiv(box.Y+box.H-1, ts)
	return area.CanMoveTo(left, top) && area.CanMoveTo(right, top) &&
		area.CanMoveTo(left, bottom) && area.CanMoveTo(right, bottom)
}
