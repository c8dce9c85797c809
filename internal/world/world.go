package world

import (
	"github.com/KirkDiggler/certquest/internal/errors"
)

// World is the set of areas plus the name of the one the player is in.
// Switching the active area and clearing NPC defeated flags are the only
// runtime changes to map data.
type World struct {
	areas    map[string]*Area
	order    []string
	active   string
	tileSize int
}

// New creates a world. The first area is active until SetActive is called.
func New(tileSize int, areas ...*Area) (*World, error) {
	if tileSize <= 0 {
		return nil, errors.InvalidArgumentf("tile size must be positive, got %d", tileSize)
	}
	if len(areas) == 0 {
		return nil, errors.InvalidArgument("world needs at least one area")
	}

	w := &World{
		areas:    make(map[string]*Area, len(areas)),
		tileSize: tileSize,
	}
	for _, a := range areas {
		if _, dup := w.areas[a.Name]; dup {
			return nil, errors.AlreadyExistsf("area %q defined twice", a.Name)
		}
		w.areas[a.Name] = a
		w.order = append(w.order, a.Name)
	}

	for _, a := range areas {
		for _, d := range a.Doors {
			dest, ok := w.areas[d.ToArea]
			if !ok {
				return nil, errors.NotFoundf("area %q has a door to unknown area %q", a.Name, d.ToArea)
			}
			if !dest.CanMoveTo(d.SpawnX, d.SpawnY) {
				return nil, errors.InvalidArgumentf("door from %q lands on blocked tile (%d,%d) in %q",
					a.Name, d.SpawnX, d.SpawnY, dest.Name)
			}
		}
	}

	w.active = w.order[0]
	return w, nil
}

// TileSize returns the tile edge length in pixels
func (w *World) TileSize() int {
	return w.tileSize
}

// Active returns the area the player is in
func (w *World) Active() *Area {
	return w.areas[w.active]
}

// Area looks up an area by name
func (w *World) Area(name string) (*Area, error) {
	a, ok := w.areas[name]
	if !ok {
		return nil, errors.NotFoundf("area %q not found", name)
	}
	return a, nil
}

// SetActive switches the active area
func (w *World) SetActive(name string) error {
	if _, ok := w.areas[name]; !ok {
		return errors.NotFoundf("area %q not found", name)
	}
	w.active = name
	return nil
}

// Areas returns the areas in definition order
func (w *World) Areas() []*Area {
	out := make([]*Area, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.areas[name])
	}
	return out
}

// ResetNPCs clears the defeated flag of every NPC in every area
func (w *World) ResetNPCs() {
	for _, a := range w.areas {
		for _, n := range a.NPCs {
			n.Defeated = false
		}
	}
}
