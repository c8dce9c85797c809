package world

import (
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
)

// Object group names read from TMX files
const (
	tmxGroupDoors    = "doors"
	tmxGroupNPCs     = "npcs"
	tmxGroupMonsters = "monsters"
	tmxGroupMarkers  = "markers"
	tmxSpawnMarker   = "spawn"
)

// LoadTMX reads an area from a Tiled map file. The area is named after the
// file unless name is given.
func LoadTMX(path, name string) (*Area, error) {
	m, err := tiled.LoadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load tmx %s", path)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return areaFromTMX(name, m)
}

// LoadTMXReader reads an area from TMX data. baseDir resolves external
// tilesets.
func LoadTMXReader(name, baseDir string, r io.Reader) (*Area, error) {
	m, err := tiled.LoadReader(baseDir, r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse tmx for area %q", name)
	}
	return areaFromTMX(name, m)
}

// LoadTMXDir builds a world from every *.tmx file in dir, each area named
// after its file. Files load in name order; the first is active.
func LoadTMXDir(dir string, tileSize int) (*World, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.tmx"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list maps in %s", dir)
	}
	if len(paths) == 0 {
		return nil, errors.NotFoundf("no tmx maps in %s", dir)
	}

	areas := make([]*Area, 0, len(paths))
	for _, path := range paths {
		area, err := LoadTMX(path, "")
		if err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	return New(tileSize, areas...)
}

// areaFromTMX maps the first tile layer onto tile codes using each tile's
// local id within its tileset. Empty cells become walls.
func areaFromTMX(name string, m *tiled.Map) (*Area, error) {
	if len(m.Layers) == 0 {
		return nil, errors.InvalidArgumentf("tmx for area %q has no tile layer", name)
	}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, errors.InvalidArgumentf("tmx for area %q has no tile size", name)
	}

	layer := m.Layers[0]
	if len(layer.Tiles) != m.Width*m.Height {
		return nil, errors.InvalidArgumentf("tmx layer %q has %d tiles, want %d",
			layer.Name, len(layer.Tiles), m.Width*m.Height)
	}

	grid := make([][]TileCode, m.Height)
	for y := 0; y < m.Height; y++ {
		grid[y] = make([]TileCode, m.Width)
		for x := 0; x < m.Width; x++ {
			t := layer.Tiles[y*m.Width+x]
			if t == nil || t.Nil {
				grid[y][x] = TileWall
				continue
			}
			grid[y][x] = TileCode(t.ID)
		}
	}

	cfg := &AreaConfig{Name: name, Grid: grid}
	toTile := func(v float64, size int) int {
		return int(math.Floor(v / float64(size)))
	}
	spanTiles := func(v float64, size int) int {
		n := int(math.Round(v / float64(size)))
		if n < 1 {
			n = 1
		}
		return n
	}

	spawnSet := false
	for _, group := range m.ObjectGroups {
		for _, obj := range group.Objects {
			tx, ty := toTile(obj.X, m.TileWidth), toTile(obj.Y, m.TileHeight)

			switch group.Name {
			case tmxGroupDoors:
				cfg.Doors = append(cfg.Doors, Door{
					Zone: Rect{
						X: tx, Y: ty,
						W: spanTiles(obj.Width, m.TileWidth),
						H: spanTiles(obj.Height, m.TileHeight),
					},
					ToArea: obj.Properties.GetString("to_area"),
					SpawnX: obj.Properties.GetInt("spawn_x"),
					SpawnY: obj.Properties.GetInt("spawn_y"),
				})
			case tmxGroupNPCs:
				cfg.NPCs = append(cfg.NPCs, &entities.NPC{
					ID:         objectID(obj),
					Name:       obj.Name,
					CertCode:   obj.Properties.GetString("cert_code"),
					Categories: splitList(obj.Properties.GetString("categories")),
					Level:      obj.Properties.GetInt("level"),
					MaxHealth:  obj.Properties.GetInt("max_health"),
					Color:      obj.Properties.GetString("color"),
					TileX:      tx,
					TileY:      ty,
					Width:      spanTiles(obj.Width, m.TileWidth),
					Height:     spanTiles(obj.Height, m.TileHeight),
				})
			case tmxGroupMonsters:
				cfg.Monsters = append(cfg.Monsters, &entities.Monster{
					ID:         objectID(obj),
					Name:       obj.Name,
					Categories: splitList(obj.Properties.GetString("categories")),
					Level:      obj.Properties.GetInt("level"),
					MaxHealth:  obj.Properties.GetInt("max_health"),
					Color:      obj.Properties.GetString("color"),
				})
			case tmxGroupMarkers:
				if obj.Name == tmxSpawnMarker {
					cfg.SpawnX, cfg.SpawnY = tx, ty
					spawnSet = true
				}
			}
		}
	}
	if !spawnSet {
		return nil, errors.InvalidArgumentf("tmx for area %q has no %q marker", name, tmxSpawnMarker)
	}

	return NewArea(cfg)
}

func objectID(obj *tiled.Object) string {
	if id := obj.Properties.GetString("id"); id != "" {
		return id
	}
	return strings.ToLower(strings.ReplaceAll(obj.Name, " ", "-"))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
