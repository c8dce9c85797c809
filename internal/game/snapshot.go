package game

import (
	"github.com/KirkDiggler/certquest/internal/battle"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/world"
)

// Snapshot is a read-only copy of everything a renderer draws in one frame
type Snapshot struct {
	SessionID string          `json:"session_id"`
	Tick      uint64          `json:"tick"`
	Phase     battle.Phase    `json:"phase"`
	Area      AreaView        `json:"area"`
	Player    PlayerView      `json:"player"`
	NPCs      []NPCView       `json:"npcs"`
	Monsters  []MonsterView   `json:"monsters"`
	Battle    *BattleView     `json:"battle,omitempty"`
	Notices   []notice.Notice `json:"notices"`
}

// AreaView is the active area
type AreaView struct {
	Name     string       `json:"name"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	TileSize int          `json:"tile_size"`
	Grid     [][]int      `json:"grid"`
	Doors    []world.Door `json:"doors"`
}

// PlayerView is the player as drawn
type PlayerView struct {
	X                int                `json:"x"`
	Y                int                `json:"y"`
	TileX            int                `json:"tile_x"`
	TileY            int                `json:"tile_y"`
	Facing           entities.Direction `json:"facing"`
	Moving           bool               `json:"moving"`
	AnimFrame        int                `json:"anim_frame"`
	Steps            int                `json:"steps"`
	Health           int                `json:"health"`
	MaxHealth        int                `json:"max_health"`
	Lives            int                `json:"lives"`
	Level            int                `json:"level"`
	Experience       int                `json:"experience"`
	ExperienceToNext int                `json:"experience_to_next"`
	Currency         int                `json:"currency"`
	Badges           []string           `json:"badges"`
}

// NPCView is one NPC in the active area
type NPCView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CertCode string `json:"cert_code"`
	Level    int    `json:"level"`
	Color    string `json:"color"`
	TileX    int    `json:"tile_x"`
	TileY    int    `json:"tile_y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Defeated bool   `json:"defeated"`
}

// MonsterView is one wild monster that can appear in the active area
type MonsterView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Level      int      `json:"level"`
	Color      string   `json:"color"`
	Categories []string `json:"categories"`
}

// BattleView is the active battle
type BattleView struct {
	ID         string              `json:"id"`
	Phase      battle.Phase        `json:"phase"`
	Style      string              `json:"style"`
	Round      int                 `json:"round"`
	Category   string              `json:"category"`
	Opponent   OpponentView        `json:"opponent"`
	Prompt     string              `json:"prompt"`
	Options    []string            `json:"options"`
	LastAnswer *battle.AnswerResult `json:"last_answer,omitempty"`
}

// OpponentView is the battle opponent
type OpponentView struct {
	Kind      entities.EncounterKind `json:"kind"`
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Level     int                    `json:"level"`
	CertCode  string                 `json:"cert_code,omitempty"`
	Health    int                    `json:"health"`
	MaxHealth int                    `json:"max_health"`
	Color     string                 `json:"color"`
}

// Snapshot copies the current state. Nothing in the result aliases live
// game state.
func (g *Game) Snapshot() *Snapshot {
	area := g.world.Active()
	p := g.player
	tx, ty := g.mover.PlayerTile(p)

	snap := &Snapshot{
		SessionID: g.id,
		Tick:      g.tick,
		Phase:     g.machine.Phase(),
		Area: AreaView{
			Name:     area.Name,
			Width:    area.Width(),
			Height:   area.Height(),
			TileSize: g.world.TileSize(),
			Grid:     gridView(area),
			Doors:    append([]world.Door(nil), area.Doors...),
		},
		Player: PlayerView{
			X:                p.X,
			Y:                p.Y,
			TileX:            tx,
			TileY:            ty,
			Facing:           p.Facing,
			Moving:           p.Moving,
			AnimFrame:        p.AnimFrame,
			Steps:            p.Steps,
			Health:           p.Health,
			MaxHealth:        p.MaxHealth,
			Lives:            p.Lives,
			Level:            p.Level,
			Experience:       p.Experience,
			ExperienceToNext: p.ExperienceToNext,
			Currency:         p.Currency,
			Badges:           p.BadgeList(),
		},
		NPCs:     make([]NPCView, 0, len(area.NPCs)),
		Monsters: make([]MonsterView, 0, len(area.Monsters)),
		Notices:  g.notices.Recent(),
	}

	for _, n := range area.NPCs {
		w, h := n.Footprint()
		snap.NPCs = append(snap.NPCs, NPCView{
			ID:       n.ID,
			Name:     n.Name,
			CertCode: n.CertCode,
			Level:    n.Level,
			Color:    n.Color,
			TileX:    n.TileX,
			TileY:    n.TileY,
			Width:    w,
			Height:   h,
			Defeated: n.Defeated,
		})
	}
	for _, m := range area.Monsters {
		snap.Monsters = append(snap.Monsters, MonsterView{
			ID:         m.ID,
			Name:       m.Name,
			Level:      m.Level,
			Color:      m.Color,
			Categories: append([]string(nil), m.Categories...),
		})
	}

	if s := g.machine.Session(); s != nil {
		snap.Battle = battleView(s)
	}
	return snap
}

func gridView(area *world.Area) [][]int {
	grid := make([][]int, area.Height())
	for y, row := range area.Grid {
		grid[y] = make([]int, len(row))
		for x, code := range row {
			grid[y][x] = int(code)
		}
	}
	return grid
}

func battleView(s *battle.Session) *BattleView {
	v := &BattleView{
		ID:       s.ID,
		Phase:    s.Phase,
		Style:    string(s.Style),
		Round:    s.Round,
		Category: s.Category,
	}
	if o := s.Opponent; o != nil {
		v.Opponent = OpponentView{
			Kind:      o.Kind,
			ID:        o.ID,
			Name:      o.Name,
			Level:     o.Level,
			CertCode:  o.CertCode,
			Health:    o.Health,
			MaxHealth: o.MaxHealth,
			Color:     o.Color,
		}
	}
	if q := s.Question; q != nil {
		v.Prompt = q.Prompt
		v.Options = append([]string(nil), q.Options...)
	}
	if s.LastAnswer != nil {
		last := *s.LastAnswer
		v.LastAnswer = &last
	}
	return v
}
