package game_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/certquest/internal/battle"
	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/game"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
	"github.com/KirkDiggler/certquest/internal/pkg/roller"
	"github.com/KirkDiggler/certquest/internal/repositories/quizbank"
	"github.com/KirkDiggler/certquest/internal/world"
)

const tileSize = 32

func testDocument() *quizbank.Document {
	return &quizbank.Document{
		Categories: map[string][]*entities.Question{
			"CLF-C02": {{
				ID:           "clf",
				Prompt:       "Which service stores objects?",
				Options:      []string{"EC2", "VPC", "S3", "IAM"},
				CorrectIndex: 2,
				Explanation:  "S3 is object storage.",
			}},
			"SAA-C03": {{
				ID:           "saa",
				Prompt:       "Which service queues messages?",
				Options:      []string{"SNS", "Kinesis", "SQS", "EventBridge"},
				CorrectIndex: 2,
			}},
		},
	}
}

type GameTestSuite struct {
	suite.Suite
	ctx     context.Context
	balance *config.Balance
	roller  *roller.Scripted
	bus     events.EventBus
	doc     *quizbank.Document
	game    *game.Game
}

func (s *GameTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.balance = config.DefaultBalance()
	s.roller = roller.NewScripted()
	s.bus = events.NewBus()
	s.doc = testDocument()
	s.game = s.newGame()
}

func (s *GameTestSuite) newGame() *game.Game {
	repo, err := quizbank.NewMemoryRepository(s.doc)
	s.Require().NoError(err)

	picker, err := quizbank.NewPicker(&quizbank.PickerConfig{
		Repository:      repo,
		Roller:          s.roller,
		DefaultCategory: s.balance.DefaultCategory,
	})
	s.Require().NoError(err)

	g, err := game.New(&game.Config{
		ID:          "session_1",
		Balance:     s.balance,
		Picker:      picker,
		Roller:      s.roller,
		IDGenerator: idgen.NewSequential("battle"),
		EventBus:    s.bus,
		Catalog:     notice.NewCatalog("en", ""),
	})
	s.Require().NoError(err)
	return g
}

func (s *GameTestSuite) place(area string, tx, ty int) {
	s.Require().NoError(s.game.Mover().Place(s.game.Player(), area, tx, ty))
}

func (s *GameTestSuite) tile() (int, int) {
	p := s.game.Player()
	return p.X / tileSize, p.Y / tileSize
}

func (s *GameTestSuite) update(intents ...game.Intent) []notice.Notice {
	notices, err := s.game.Update(s.ctx, intents...)
	s.Require().NoError(err)
	return notices
}

func keys(notices []notice.Notice) []notice.Key {
	out := make([]notice.Key, len(notices))
	for i, n := range notices {
		out[i] = n.Key
	}
	return out
}

func (s *GameTestSuite) npc(area, id string) *entities.NPC {
	a, err := s.game.World().Area(area)
	s.Require().NoError(err)
	for _, n := range a.NPCs {
		if n.ID == id {
			return n
		}
	}
	s.FailNow("npc not found", id)
	return nil
}

// startGolemBattle walks onto grass in route1 on a stride step with a
// forced encounter roll and the IAM Golem picked
func (s *GameTestSuite) startGolemBattle() {
	s.place(world.AreaRoute1, 3, 3)
	s.game.Player().Steps = 1
	s.roller.Push(10, 3)

	notices := s.update(game.Move(entities.DirectionDown))
	s.Require().Equal([]notice.Key{notice.KeyBattleWild}, keys(notices))
	s.Require().Equal(battle.PhaseQuestionPending, s.game.Phase())
}

func (s *GameTestSuite) TestNewStartsInTown() {
	s.Equal(world.AreaTown, s.game.World().Active().Name)
	x, y := s.tile()
	s.Equal(5, x)
	s.Equal(8, y)
	s.Equal(battle.PhaseIdle, s.game.Phase())
	s.Equal(100, s.game.Player().Health)
	s.Equal(1, s.game.Player().Level)
}

func (s *GameTestSuite) TestNewValidation() {
	_, err := game.New(&game.Config{})
	s.Require().Error(err)
	for _, field := range []string{"ID", "Balance", "Picker", "Roller", "IDGenerator", "EventBus", "Catalog"} {
		s.Contains(err.Error(), field)
	}

	_, err = game.New(nil)
	s.Error(err)
}

func (s *GameTestSuite) TestBlockedByBuilding() {
	s.place(world.AreaTown, 5, 5)

	notices := s.update(game.Move(entities.DirectionRight))

	x, y := s.tile()
	s.Equal(5, x)
	s.Equal(5, y)
	s.Equal(entities.DirectionRight, s.game.Player().Facing)
	s.Equal(0, s.game.Player().Steps)
	s.Nil(s.game.Battle())
	s.Empty(notices)
}

func (s *GameTestSuite) TestGrassStepStartsWildBattle() {
	s.startGolemBattle()

	session := s.game.Battle()
	s.Require().NotNil(session)
	s.Equal("battle_1", session.ID)
	s.Equal("iam-golem", session.Opponent.ID)
	s.LessOrEqual(session.Opponent.Level, s.game.Player().Level+s.balance.LevelSlack)
	s.Equal(config.BattleHealthPool, session.Style)
	s.Equal("SAA-C03", session.Category)
	s.Equal(0, s.roller.Remaining())
}

func (s *GameTestSuite) TestGrassStepOffStrideNeverRolls() {
	s.place(world.AreaRoute1, 3, 3)

	s.update(game.Move(entities.DirectionDown))

	s.Equal(1, s.game.Player().Steps)
	s.Equal(battle.PhaseIdle, s.game.Phase())
}

func (s *GameTestSuite) TestMissedRollKeepsWalking() {
	s.place(world.AreaRoute1, 3, 3)
	s.game.Player().Steps = 1
	s.roller.Push(26)

	notices := s.update(game.Move(entities.DirectionDown))

	s.Empty(notices)
	s.Equal(battle.PhaseIdle, s.game.Phase())
}

func (s *GameTestSuite) TestCorrectAnswerDamagesThenDefeatsMonster() {
	s.startGolemBattle()
	golem := s.game.Battle().Opponent

	notices := s.update(game.Answer(2))
	s.Equal([]notice.Key{notice.KeyAnswerCorrect}, keys(notices))
	s.Equal(35, golem.Health)
	s.Equal(battle.PhaseQuestionPending, s.game.Phase())
	s.Equal(2, s.game.Battle().Round)

	s.update(game.Answer(2))
	s.Equal(10, golem.Health)

	notices = s.update(game.Answer(2))
	s.Equal([]notice.Key{notice.KeyAnswerCorrect, notice.KeyVictory}, keys(notices))
	s.Equal("You defeated IAM Golem! +80 XP, +60 coins.", notices[1].Text)
	s.Nil(s.game.Battle())
	s.Equal(battle.PhaseIdle, s.game.Phase())

	p := s.game.Player()
	s.Equal(80, p.Experience)
	s.Equal(60, p.Currency)
	s.Equal(1, p.Level)
}

func (s *GameTestSuite) TestWrongAnswerCostsHealthAndContinues() {
	s.startGolemBattle()

	notices := s.update(game.Answer(0))

	s.Equal([]notice.Key{notice.KeyAnswerWrong}, keys(notices))
	s.Equal("Wrong! The answer was: SQS. You take 25 damage.", notices[0].Text)
	s.Equal(75, s.game.Player().Health)
	s.Equal(battle.PhaseQuestionPending, s.game.Phase())
}

func (s *GameTestSuite) TestLastHealthWrongAnswerResetsGame() {
	cora := s.npc(world.AreaTown, "npc-cora")
	cora.Defeated = true
	s.game.Player().AddBadge("CLF-C02")
	s.game.Player().Currency = 500

	s.startGolemBattle()
	s.game.Player().Health = 1

	notices := s.update(game.Answer(0))

	s.Equal([]notice.Key{notice.KeyAnswerWrong, notice.KeyGameOver}, keys(notices))
	p := s.game.Player()
	s.Equal(p.MaxHealth, p.Health)
	s.Equal(0, p.Currency)
	s.Empty(p.BadgeList())
	s.False(cora.Defeated)
	s.Nil(s.game.Battle())

	s.Equal(world.AreaCenter, s.game.World().Active().Name)
	x, y := s.tile()
	s.Equal(6, x)
	s.Equal(7, y)
}

func (s *GameTestSuite) TestDefeatWithLivesLeftRespawnsKeepingBadges() {
	s.balance.StartingLives = 3
	s.game = s.newGame()
	s.game.Player().AddBadge("CLF-C02")

	s.startGolemBattle()
	s.game.Player().Health = 1

	notices := s.update(game.Answer(0))

	s.Equal([]notice.Key{notice.KeyAnswerWrong, notice.KeyRespawned}, keys(notices))
	s.Equal("You blacked out and woke up in the center. Lives left: 2.", notices[1].Text)
	p := s.game.Player()
	s.Equal(2, p.Lives)
	s.Equal(p.MaxHealth, p.Health)
	s.True(p.HasBadge("CLF-C02"))
	s.Equal(world.AreaCenter, s.game.World().Active().Name)
}

func (s *GameTestSuite) TestNPCBattleIsSingleShotAndAwardsBadge() {
	cora := s.npc(world.AreaTown, "npc-cora")
	s.place(world.AreaTown, 11, 10)

	notices := s.update(game.Move(entities.DirectionRight))
	s.Equal([]notice.Key{notice.KeyBattleNPC}, keys(notices))
	session := s.game.Battle()
	s.Require().NotNil(session)
	s.Equal(config.BattleSingleShot, session.Style)
	s.Equal("CLF-C02", session.Category)

	notices = s.update(game.Answer(2))
	s.Equal([]notice.Key{notice.KeyAnswerCorrect, notice.KeyVictory, notice.KeyBadgeEarned}, keys(notices))
	s.True(cora.Defeated)
	s.True(s.game.Player().HasBadge("CLF-C02"))
	s.Equal(70, s.game.Player().Experience)

	s.update(game.Move(entities.DirectionLeft))
	notices = s.update(game.Move(entities.DirectionRight))
	s.Equal([]notice.Key{notice.KeyAlreadyDefeated}, keys(notices))
	s.Nil(s.game.Battle())
}

func (s *GameTestSuite) TestNPCWrongAnswerIsRetreat() {
	cora := s.npc(world.AreaTown, "npc-cora")
	s.place(world.AreaTown, 11, 10)
	s.update(game.Move(entities.DirectionRight))

	notices := s.update(game.Answer(1))

	s.Equal([]notice.Key{notice.KeyAnswerWrong, notice.KeyRetreat}, keys(notices))
	s.False(cora.Defeated)
	s.Equal(80, s.game.Player().Health)
	s.Nil(s.game.Battle())
}

func (s *GameTestSuite) TestBadgeHolderNeverBattlesNPC() {
	s.game.Player().AddBadge("CLF-C02")
	s.place(world.AreaTown, 11, 10)

	notices := s.update(game.Move(entities.DirectionRight))

	s.Equal([]notice.Key{notice.KeyAlreadyDefeated}, keys(notices))
	s.Equal("You already hold the CLF-C02 badge. Cloud Guide Cora nods at you.", notices[0].Text)
	s.Nil(s.game.Battle())
	s.Equal(battle.PhaseIdle, s.game.Phase())
}

func (s *GameTestSuite) TestVictoryLevelsUpAndHeals() {
	s.game.Player().Experience = 90
	s.game.Player().Health = 20
	s.place(world.AreaTown, 11, 10)
	s.update(game.Move(entities.DirectionRight))

	notices := s.update(game.Answer(2))

	s.Contains(keys(notices), notice.KeyLevelUp)
	p := s.game.Player()
	s.Equal(2, p.Level)
	s.Equal(60, p.Experience)
	s.Equal(150, p.ExperienceToNext)
	s.Equal(p.MaxHealth, p.Health)
}

func (s *GameTestSuite) TestHealTile() {
	s.place(world.AreaCenter, 6, 3)

	notices := s.update(game.Interact())
	s.Equal([]notice.Key{notice.KeyHealed}, keys(notices))
	s.Equal(s.game.Player().MaxHealth, s.game.Player().Health)

	s.game.Player().Health = 40
	s.update(game.Interact())
	s.Equal(s.game.Player().MaxHealth, s.game.Player().Health)
}

func (s *GameTestSuite) TestInteractAwayFromHealTileDoesNothing() {
	s.game.Player().Health = 40

	notices := s.update(game.Interact())

	s.Empty(notices)
	s.Equal(40, s.game.Player().Health)
}

func (s *GameTestSuite) TestAnswerWithoutBattleIsIgnored() {
	before := *s.game.Player()

	notices := s.update(game.Answer(1), game.Flee())

	s.Empty(notices)
	s.Equal(before.Health, s.game.Player().Health)
	s.Equal(before.X, s.game.Player().X)
	s.Nil(s.game.Battle())
}

func (s *GameTestSuite) TestInvalidAnswerIndexChangesNothing() {
	s.startGolemBattle()
	session := s.game.Battle()

	notices := s.update(game.Answer(7), game.Answer(-1))

	s.Empty(notices)
	s.Equal(100, s.game.Player().Health)
	s.Equal(60, session.Opponent.Health)
	s.Equal(1, session.Round)
	s.Equal(battle.PhaseQuestionPending, s.game.Phase())
}

func (s *GameTestSuite) TestMovementIgnoredDuringBattle() {
	s.startGolemBattle()
	x, y := s.tile()

	s.update(game.Move(entities.DirectionLeft), game.Interact())

	nx, ny := s.tile()
	s.Equal(x, nx)
	s.Equal(y, ny)
	s.Equal(battle.PhaseQuestionPending, s.game.Phase())
}

func (s *GameTestSuite) TestFleeEndsBattleWithoutReward() {
	s.startGolemBattle()

	notices := s.update(game.Flee())

	s.Equal([]notice.Key{notice.KeyFled}, keys(notices))
	s.Nil(s.game.Battle())
	s.Equal(0, s.game.Player().Experience)
	s.Equal(100, s.game.Player().Health)
}

func (s *GameTestSuite) TestMissingQuizDataAbortsEncounter() {
	s.doc = &quizbank.Document{Categories: map[string][]*entities.Question{}}
	s.game = s.newGame()
	s.place(world.AreaTown, 11, 10)

	notices := s.update(game.Move(entities.DirectionRight))

	s.Equal([]notice.Key{notice.KeyQuizUnavailable}, keys(notices))
	s.Equal("No questions available for CLF-C02. The encounter fizzles out.", notices[0].Text)
	s.Nil(s.game.Battle())
	s.Equal(100, s.game.Player().Health)
}

func (s *GameTestSuite) TestUncoveredCategoryFallsBackToDefault() {
	delete(s.doc.Categories, "SAA-C03")
	s.game = s.newGame()

	s.place(world.AreaRoute1, 3, 3)
	s.game.Player().Steps = 1
	s.roller.Push(10, 3)
	s.update(game.Move(entities.DirectionDown))

	session := s.game.Battle()
	s.Require().NotNil(session)
	s.Equal("iam-golem", session.Opponent.ID)
	s.Equal("CLF-C02", session.Category)
}

func (s *GameTestSuite) TestDoorWarpsWithoutEncounter() {
	s.place(world.AreaTown, 17, 7)

	notices := s.update(game.Move(entities.DirectionRight))

	s.Equal([]notice.Key{notice.KeyEnteredArea}, keys(notices))
	s.Equal(world.AreaRoute1, s.game.World().Active().Name)
	x, y := s.tile()
	s.Equal(2, x)
	s.Equal(7, y)
}

func (s *GameTestSuite) TestResetClearsBattle() {
	s.startGolemBattle()
	session := s.game.Battle()

	notices, err := s.game.Reset(s.ctx)
	s.Require().NoError(err)

	s.Equal([]notice.Key{notice.KeyGameOver}, keys(notices))
	s.Nil(s.game.Battle())
	s.Nil(session.Opponent)
	s.Equal(world.AreaCenter, s.game.World().Active().Name)
}

func (s *GameTestSuite) TestNoticesArePublished() {
	var got []notice.Notice
	var sources []string
	ids := notice.SubscribeAll(s.bus, func(_ context.Context, source core.Entity, n notice.Notice) error {
		got = append(got, n)
		sources = append(sources, source.GetID())
		return nil
	})
	defer notice.Unsubscribe(s.bus, ids)

	s.place(world.AreaCenter, 6, 3)
	s.update(game.Interact())

	s.Require().Len(got, 1)
	s.Equal(notice.KeyHealed, got[0].Key)
	s.Equal(uint64(1), got[0].Tick)
	s.Equal([]string{"session_1"}, sources)
}

func (s *GameTestSuite) TestSnapshot() {
	s.startGolemBattle()

	snap := s.game.Snapshot()
	s.Equal("session_1", snap.SessionID)
	s.Equal(uint64(1), snap.Tick)
	s.Equal(battle.PhaseQuestionPending, snap.Phase)
	s.Equal(world.AreaRoute1, snap.Area.Name)
	s.Len(snap.Area.Grid, 15)
	s.Len(snap.Area.Grid[0], 20)
	s.Equal(int(world.TileWall), snap.Area.Grid[0][0])
	s.Equal(3, snap.Player.TileX)
	s.Equal(4, snap.Player.TileY)
	s.Len(snap.NPCs, 1)
	s.Len(snap.Monsters, 5)

	s.Require().NotNil(snap.Battle)
	s.Equal("IAM Golem", snap.Battle.Opponent.Name)
	s.Equal("Which service queues messages?", snap.Battle.Prompt)
	s.Len(snap.Battle.Options, 4)
	s.Require().Len(snap.Notices, 1)

	// copies never alias live state
	snap.Area.Grid[1][1] = int(world.TileWall)
	snap.Battle.Options[0] = "changed"
	tile, err := s.game.World().Active().Tile(1, 1)
	s.Require().NoError(err)
	s.Equal(world.TileGrass, tile)
	s.Equal("SNS", s.game.Battle().Question.Options[0])

	data, err := json.Marshal(snap)
	s.Require().NoError(err)
	s.Contains(string(data), `"phase":"question_pending"`)
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameTestSuite))
}

func (s *GameTestSuite) TestContinuousWalkPastNPCBattlesOnce() {
	s.balance.MovementMode = config.MovementContinuous
	s.game = s.newGame()
	s.place(world.AreaTown, 11, 10)

	battles := 0
	for i := 0; i < 16; i++ {
		notices := s.update(game.Move(entities.DirectionRight))
		if s.game.Battle() != nil {
			battles++
			s.Equal([]notice.Key{notice.KeyBattleNPC}, keys(notices))
			s.update(game.Flee())
			s.Require().Nil(s.game.Battle())
		}
	}

	s.Equal(1, battles, "only entering the footprint starts a battle")
	s.Equal(13*tileSize, s.game.Player().X)
}
