package world

import (
	"github.com/KirkDiggler/certquest/internal/entities"
)

// Built-in area names
const (
	AreaTown   = "town"
	AreaRoute1 = "route1"
	AreaCenter = "center"
)

// DefaultOverworld builds the three built-in areas. NPCs are created fresh
// on every call so each game owns its defeated flags.
func DefaultOverworld(tileSize int) (*World, error) {
	town, err := NewArea(townConfig())
	if err != nil {
		return nil, err
	}
	route, err := NewArea(route1Config())
	if err != nil {
		return nil, err
	}
	center, err := NewArea(centerConfig())
	if err != nil {
		return nil, err
	}
	return New(tileSize, town, route, center)
}

// filledGrid returns a w x h grid of fill surrounded by walls
func filledGrid(w, h int, fill TileCode) [][]TileCode {
	grid := make([][]TileCode, h)
	for y := range grid {
		grid[y] = make([]TileCode, w)
		for x := range grid[y] {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				grid[y][x] = TileWall
			} else {
				grid[y][x] = fill
			}
		}
	}
	return grid
}

func fillRect(grid [][]TileCode, r Rect, code TileCode) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			grid[y][x] = code
		}
	}
}

func townConfig() *AreaConfig {
	grid := filledGrid(20, 15, TilePath)
	// Certification center
	fillRect(grid, Rect{X: 6, Y: 3, W: 4, H: 4}, TileBuilding)
	for _, t := range [][2]int{{3, 12}, {15, 3}, {16, 12}, {2, 2}} {
		grid[t[1]][t[0]] = TileWall
	}
	// Park lawn, no monsters live in town
	fillRect(grid, Rect{X: 2, Y: 10, W: 4, H: 2}, TileGrass)

	return &AreaConfig{
		Name: AreaTown,
		Grid: grid,
		Doors: []Door{
			{Zone: Rect{X: 7, Y: 7, W: 1, H: 1}, ToArea: AreaCenter, SpawnX: 6, SpawnY: 7},
			{Zone: Rect{X: 18, Y: 7, W: 1, H: 1}, ToArea: AreaRoute1, SpawnX: 2, SpawnY: 7},
		},
		NPCs: []*entities.NPC{
			{
				ID:        "npc-cora",
				Name:      "Cloud Guide Cora",
				CertCode:  "CLF-C02",
				Level:     2,
				MaxHealth: 30,
				Color:     "#ff9900",
				TileX:     12,
				TileY:     10,
			},
		},
		SpawnX: 5,
		SpawnY: 8,
	}
}

func route1Config() *AreaConfig {
	grid := filledGrid(20, 15, TileGrass)
	fillRect(grid, Rect{X: 1, Y: 7, W: 18, H: 1}, TilePath)
	for _, t := range [][2]int{{10, 3}, {10, 11}, {5, 4}, {14, 10}} {
		grid[t[1]][t[0]] = TileWall
	}

	return &AreaConfig{
		Name: AreaRoute1,
		Grid: grid,
		Doors: []Door{
			{Zone: Rect{X: 1, Y: 7, W: 1, H: 1}, ToArea: AreaTown, SpawnX: 17, SpawnY: 7},
		},
		NPCs: []*entities.NPC{
			{
				ID:         "npc-sol",
				Name:       "Architect Sol",
				CertCode:   "SAA-C03",
				Categories: []string{"SAA-C03"},
				Level:      4,
				MaxHealth:  40,
				Color:      "#1e88e5",
				TileX:      16,
				TileY:      3,
			},
		},
		Monsters: []*entities.Monster{
			{ID: "bucket-slime", Name: "Bucket Slime", Categories: []string{"CLF-C02"}, Level: 1, MaxHealth: 40, Color: "#4caf50"},
			{ID: "lambda-imp", Name: "Lambda Imp", Categories: []string{"CLF-C02", "DVA-C02"}, Level: 2, MaxHealth: 50, Color: "#ff7043"},
			{ID: "iam-golem", Name: "IAM Golem", Categories: []string{"SAA-C03"}, Level: 3, MaxHealth: 60, Color: "#8d6e63"},
			{ID: "vpc-wraith", Name: "VPC Wraith", Categories: []string{"SAA-C03", "SOA-C02"}, Level: 4, MaxHealth: 70, Color: "#7e57c2"},
			{ID: "kinesis-drake", Name: "Kinesis Drake", Categories: []string{"SOA-C02"}, Level: 5, MaxHealth: 90, Color: "#c62828"},
		},
		SpawnX: 2,
		SpawnY: 7,
	}
}

func centerConfig() *AreaConfig {
	grid := filledGrid(12, 10, TileFloor)
	grid[3][6] = TileHeal
	fillRect(grid, Rect{X: 2, Y: 2, W: 2, H: 1}, TileBuilding)

	return &AreaConfig{
		Name: AreaCenter,
		Grid: grid,
		Doors: []Door{
			{Zone: Rect{X: 6, Y: 8, W: 1, H: 1}, ToArea: AreaTown, SpawnX: 7, SpawnY: 8},
		},
		SpawnX: 6,
		SpawnY: 7,
	}
}
