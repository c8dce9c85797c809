package game

import (
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/notice"
)

// Entity types attached to notice events
const (
	EntityTypeGame    = "game"
	EntityTypePlayer  = "player"
	EntityTypeNPC     = "npc"
	EntityTypeMonster = "monster"
)

// playerEntity identifies the player of this game on the event bus
func (g *Game) playerEntity() *notice.Entity {
	return &notice.Entity{ID: g.id + ":player", Type: EntityTypePlayer}
}

func npcEntity(n *entities.NPC) *notice.Entity {
	return &notice.Entity{ID: n.ID, Type: EntityTypeNPC}
}

func opponentEntity(o *entities.Opponent) *notice.Entity {
	if o.Kind == entities.EncounterNPC {
		return &notice.Entity{ID: o.ID, Type: EntityTypeNPC}
	}
	return &notice.Entity{ID: o.ID, Type: EntityTypeMonster}
}
