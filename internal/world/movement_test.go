package world_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/zyedidia/generic/mapset"

	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/world"
)

const tileSize = 32

type MovementTestSuite struct {
	suite.Suite
	world  *world.World
	mover  *world.Mover
	player *entities.Player
}

func (s *MovementTestSuite) SetupTest() {
	var err error
	s.world, err = world.DefaultOverworld(tileSize)
	s.Require().NoError(err)

	s.mover, err = world.NewMover(&world.MoverConfig{World: s.world, Mode: config.MovementGrid})
	s.Require().NoError(err)

	s.player = &entities.Player{Facing: entities.DirectionDown, Badges: mapset.New[string]()}
}

func TestMovementSuite(t *testing.T) {
	suite.Run(t, new(MovementTestSuite))
}

func (s *MovementTestSuite) place(area string, tx, ty int) {
	s.Require().NoError(s.mover.Place(s.player, area, tx, ty))
}

func (s *MovementTestSuite) TestBlockedByBuilding() {
	s.place(world.AreaTown, 5, 5)

	res := s.mover.AttemptMove(s.player, entities.DirectionRight)
	s.True(res.Blocked)
	s.False(res.StepCounted)
	s.Equal(5*tileSize, s.player.X)
	s.Equal(5*tileSize, s.player.Y)
	s.Equal(0, s.player.Steps)
	s.Equal(entities.DirectionRight, s.player.Facing, "facing follows the intent")
	s.False(s.player.Moving)
}

func (s *MovementTestSuite) TestBlockedByBorder() {
	s.place(world.AreaTown, 1, 1)

	s.True(s.mover.AttemptMove(s.player, entities.DirectionUp).Blocked)
	s.True(s.mover.AttemptMove(s.player, entities.DirectionLeft).Blocked)
	s.Equal(tileSize, s.player.X)
	s.Equal(tileSize, s.player.Y)
}

func (s *MovementTestSuite) TestGridStepMovesOneTile() {
	s.place(world.AreaRoute1, 3, 3)

	res := s.mover.AttemptMove(s.player, entities.DirectionDown)
	s.False(res.Blocked)
	s.True(res.StepCounted)
	s.Equal(4*tileSize, s.player.Y)
	s.Equal(1, s.player.Steps)
	s.Equal(1, s.player.AnimFrame)
	s.True(s.player.Moving)
	s.Equal(world.TileGrass, res.Tile)
	s.Equal(3, res.TileX)
	s.Equal(4, res.TileY)
}

func (s *MovementTestSuite) TestAnimFrameWraps() {
	s.place(world.AreaRoute1, 3, 8)
	for i := 0; i < 4; i++ {
		s.False(s.mover.AttemptMove(s.player, entities.DirectionRight).Blocked)
	}
	s.Equal(0, s.player.AnimFrame)
	s.Equal(4, s.player.Steps)
}

func (s *MovementTestSuite) TestDoorWarpsToDestination() {
	s.place(world.AreaTown, 17, 7)

	res := s.mover.AttemptMove(s.player, entities.DirectionRight)
	s.True(res.Warped)
	s.Equal(world.AreaTown, res.FromArea)
	s.Equal(world.AreaRoute1, res.ToArea)
	s.Equal(world.AreaRoute1, s.world.Active().Name)
	s.Equal(2*tileSize, s.player.X)
	s.Equal(7*tileSize, s.player.Y)
	s.Equal(2, res.TileX)
	s.Equal(7, res.TileY)
}

func (s *MovementTestSuite) TestDoorRoundTrip() {
	s.place(world.AreaTown, 7, 8)

	res := s.mover.AttemptMove(s.player, entities.DirectionUp)
	s.Require().True(res.Warped)
	s.Equal(world.AreaCenter, s.world.Active().Name)

	res = s.mover.AttemptMove(s.player, entities.DirectionDown)
	s.Require().True(res.Warped)
	s.Equal(world.AreaTown, s.world.Active().Name)
	tx, ty := s.mover.PlayerTile(s.player)
	s.Equal(7, tx)
	s.Equal(8, ty)
}

func (s *MovementTestSuite) TestInvalidDirection() {
	s.place(world.AreaTown, 5, 5)
	res := s.mover.AttemptMove(s.player, entities.Direction("north-east"))
	s.True(res.Blocked)
	s.Equal(0, s.player.Steps)
}

func (s *MovementTestSuite) TestPlaceRejectsBlockedTile() {
	s.Error(s.mover.Place(s.player, world.AreaTown, 6, 5))
	s.Error(s.mover.Place(s.player, "nowhere", 1, 1))
	s.NoError(s.mover.PlaceAtSpawn(s.player, world.AreaCenter))
	s.Equal(world.AreaCenter, s.world.Active().Name)
}

func (s *MovementTestSuite) TestContinuousCountsStepOnTileChange() {
	mover, err := world.NewMover(&world.MoverConfig{World: s.world, Mode: config.MovementContinuous, Speed: 8})
	s.Require().NoError(err)
	s.place(world.AreaRoute1, 3, 3)

	counted := 0
	for i := 0; i < 4; i++ {
		res := mover.AttemptMove(s.player, entities.DirectionRight)
		s.Require().False(res.Blocked)
		if res.StepCounted {
			counted++
		}
	}
	s.Equal(3*tileSize+32, s.player.X)
	s.Equal(1, counted, "four sub-tile moves cross one tile boundary")
	s.Equal(1, s.player.Steps)
}

func (s *MovementTestSuite) TestContinuousBlockedByCorner() {
	mover, err := world.NewMover(&world.MoverConfig{World: s.world, Mode: config.MovementContinuous, Speed: 4})
	s.Require().NoError(err)
	s.place(world.AreaTown, 5, 5)

	res := mover.AttemptMove(s.player, entities.DirectionRight)
	s.True(res.Blocked, "right edge would enter the building")
	s.Equal(5*tileSize, s.player.X)
}

func (s *MovementTestSuite) TestNewMoverValidation() {
	_, err := world.NewMover(nil)
	s.Error(err)
	_, err = world.NewMover(&world.MoverConfig{Mode: config.MovementGrid})
	s.Error(err)
	_, err = world.NewMover(&world.MoverConfig{World: s.world, Mode: config.MovementContinuous})
	s.Error(err, "continuous needs a speed")
}
