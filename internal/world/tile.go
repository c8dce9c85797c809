// Package world holds the tile map of every area and moves the player
// across it.
package world

import (
	"strconv"

	"github.com/zyedidia/generic/mapset"

	"github.com/KirkDiggler/certquest/internal/errors"
)

// TileCode is the semantic type of a single map cell
type TileCode int

// Tile codes
const (
	TileGrass    TileCode = 0
	TilePath     TileCode = 1
	TileWall     TileCode = 2
	TileFloor    TileCode = 3
	TileBuilding TileCode = 4
	TileHeal     TileCode = 5
)

var tileNames = map[TileCode]string{
	TileGrass:    "grass",
	TilePath:     "path",
	TileWall:     "wall",
	TileFloor:    "floor",
	TileBuilding: "building",
	TileHeal:     "heal",
}

// String returns the tile name
func (t TileCode) String() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return "tile(" + strconv.Itoa(int(t)) + ")"
}

// Known reports whether t is one of the defined codes
func (t TileCode) Known() bool {
	_, ok := tileNames[t]
	return ok
}

// DefaultBlocking returns the blocking set used by every built-in area
func DefaultBlocking() mapset.Set[TileCode] {
	s := mapset.New[TileCode]()
	s.Put(TileWall)
	s.Put(TileBuilding)
	return s
}

// GridFromRows builds a grid from rows of digits, one digit per tile code.
// Whitespace inside a row is ignored so literal maps can be aligned.
func GridFromRows(rows ...string) ([][]TileCode, error) {
	grid := make([][]TileCode, 0, len(rows))
	for y, row := range rows {
		line := make([]TileCode, 0, len(row))
		for _, ch := range row {
			if ch == ' ' || ch == '\t' {
				continue
			}
			if ch < '0' || ch > '9' {
				return nil, errors.InvalidArgumentf("row %d: %q is not a tile code", y, ch)
			}
			code := TileCode(ch - '0')
			if !code.Known() {
				return nil, errors.InvalidArgumentf("row %d: unknown tile code %d", y, code)
			}
			line = append(line, code)
		}
		grid = append(grid, line)
	}
	return grid, nil
}

// Rect is an axis-aligned rectangle. Areas use tile units for doors and
// NPC footprints; overlap checks run in pixels.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Overlaps reports whether the interiors of r and o intersect. Touching
// edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Scale converts a tile rect to pixels
func (r Rect) Scale(tileSize int) Rect {
	return Rect{X: r.X * tileSize, Y: r.Y * tileSize, W: r.W * tileSize, H: r.H * tileSize}
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
