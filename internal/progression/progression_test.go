package progression_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/progression"
	"github.com/KirkDiggler/certquest/internal/world"
)

type ProgressionTestSuite struct {
	suite.Suite
	balance *config.Balance
	world   *world.World
	mover   *world.Mover
	prog    *progression.Progression
	player  *entities.Player
}

func (s *ProgressionTestSuite) SetupTest() {
	s.balance = config.DefaultBalance()

	var err error
	s.world, err = world.DefaultOverworld(s.balance.TileSize)
	s.Require().NoError(err)
	s.mover, err = world.NewMover(&world.MoverConfig{World: s.world, Mode: config.MovementGrid})
	s.Require().NoError(err)

	s.prog, err = progression.New(&progression.Config{Balance: s.balance, World: s.world, Mover: s.mover})
	s.Require().NoError(err)

	s.player = s.prog.NewPlayer()
	s.Require().NoError(s.mover.PlaceAtSpawn(s.player, world.AreaRoute1))
}

func TestProgressionSuite(t *testing.T) {
	suite.Run(t, new(ProgressionTestSuite))
}

func (s *ProgressionTestSuite) monster(level int) *entities.Opponent {
	return entities.NewWildOpponent(&entities.Monster{ID: "m", Name: "M", Level: level, MaxHealth: 10})
}

func (s *ProgressionTestSuite) TestNewPlayerDefaults() {
	p := s.prog.NewPlayer()
	s.Equal(1, p.Level)
	s.Equal(0, p.Experience)
	s.Equal(100, p.ExperienceToNext)
	s.Equal(100, p.Health)
	s.Equal(100, p.MaxHealth)
	s.Equal(1, p.Lives)
	s.Empty(p.BadgeList())
}

func (s *ProgressionTestSuite) TestVictoryRewardFormula() {
	reward := s.prog.GrantVictory(s.player, s.monster(2))

	s.Equal(70, reward.Experience, "50 + 10 per level")
	s.Equal(40, reward.Currency, "20 per level")
	s.Equal(0, reward.LevelsGained)
	s.Equal(70, s.player.Experience)
	s.Equal(40, s.player.Currency)
	s.Empty(reward.Badge)
}

func (s *ProgressionTestSuite) TestLevelUpCarriesRemainderAndHeals() {
	s.player.Experience = 60
	s.player.Health = 10

	reward := s.prog.GrantVictory(s.player, s.monster(3))
	s.Equal(1, reward.LevelsGained)
	s.Equal(2, s.player.Level)
	s.Equal(40, s.player.Experience, "60 + 80 minus the level 1 threshold of 100")
	s.Equal(150, s.player.ExperienceToNext)
	s.Equal(100, s.player.Health)
}

func (s *ProgressionTestSuite) TestLevelUpLoopsAndNeverGoesNegative() {
	s.player.Experience = 240

	reward := s.prog.GrantVictory(s.player, s.monster(1))
	// 300 experience covers 100 then 150, leaving 50 short of 200
	s.Equal(2, reward.LevelsGained)
	s.Equal(3, s.player.Level)
	s.Equal(50, s.player.Experience)
	s.Equal(200, s.player.ExperienceToNext)
	s.GreaterOrEqual(s.player.Experience, 0)
}

func (s *ProgressionTestSuite) TestNPCVictoryAwardsBadgeAndFlag() {
	town, err := s.world.Area(world.AreaTown)
	s.Require().NoError(err)
	npc := town.NPCs[0]

	reward := s.prog.GrantVictory(s.player, entities.NewNPCOpponent(npc))
	s.Equal("CLF-C02", reward.Badge)
	s.True(reward.BadgeNew)
	s.True(s.player.HasBadge("CLF-C02"))
	s.True(npc.Defeated)

	again := s.prog.GrantVictory(s.player, entities.NewNPCOpponent(npc))
	s.False(again.BadgeNew)
}

func (s *ProgressionTestSuite) TestDefeatWithLivesLeftRespawnsKeepingBadges() {
	s.player.Lives = 2
	s.player.Health = 0
	s.player.Level = 3
	s.player.AddBadge("CLF-C02")

	res, err := s.prog.GrantDefeat(s.player)
	s.Require().NoError(err)
	s.False(res.GameOver)
	s.Equal(1, res.LivesLeft)
	s.Equal(world.AreaCenter, res.RespawnArea)
	s.Equal(world.AreaCenter, s.world.Active().Name)
	s.Equal(100, s.player.Health)
	s.Equal(3, s.player.Level)
	s.True(s.player.HasBadge("CLF-C02"))
}

func (s *ProgressionTestSuite) TestLastLifeResetsEverything() {
	town, err := s.world.Area(world.AreaTown)
	s.Require().NoError(err)
	route, err := s.world.Area(world.AreaRoute1)
	s.Require().NoError(err)
	town.NPCs[0].Defeated = true
	route.NPCs[0].Defeated = true

	s.player.Health = 0
	s.player.Level = 4
	s.player.Experience = 30
	s.player.Currency = 500
	s.player.Steps = 41
	s.player.AddBadge("CLF-C02")
	s.player.AddBadge("SAA-C03")

	res, err := s.prog.GrantDefeat(s.player)
	s.Require().NoError(err)
	s.True(res.GameOver)

	s.Equal(1, s.player.Level)
	s.Equal(0, s.player.Experience)
	s.Equal(0, s.player.Currency)
	s.Equal(0, s.player.Steps)
	s.Equal(100, s.player.Health)
	s.Equal(1, s.player.Lives)
	s.Empty(s.player.BadgeList())
	s.False(town.NPCs[0].Defeated)
	s.False(route.NPCs[0].Defeated)

	center, err := s.world.Area(world.AreaCenter)
	s.Require().NoError(err)
	s.Equal(world.AreaCenter, s.world.Active().Name)
	s.Equal(center.SpawnX*s.balance.TileSize, s.player.X)
	s.Equal(center.SpawnY*s.balance.TileSize, s.player.Y)
}

func (s *ProgressionTestSuite) TestHealIsIdempotent() {
	s.player.Health = 35
	s.Equal(65, s.prog.Heal(s.player))
	s.Equal(100, s.player.Health)

	s.Equal(0, s.prog.Heal(s.player))
	s.Equal(100, s.player.Health)
}

func (s *ProgressionTestSuite) TestConfigValidation() {
	b := config.DefaultBalance()
	b.SafeArea = "moon"
	_, err := progression.New(&progression.Config{Balance: b, World: s.world, Mover: s.mover})
	s.Require().Error(err)
	s.Contains(err.Error(), "moon")

	_, err = progression.New(&progression.Config{})
	s.Error(err)
}
