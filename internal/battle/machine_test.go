package battle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/certquest/internal/battle"
	battlemock "github.com/KirkDiggler/certquest/internal/battle/mock"
	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
	"github.com/KirkDiggler/certquest/internal/pkg/roller"
)

type MachineTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockPicker *battlemock.MockQuestionPicker
	roller     *roller.Scripted
	balance    *config.Balance
	machine    *battle.Machine
	player     *entities.Player
	ctx        context.Context

	question *entities.Question
}

func (s *MachineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockPicker = battlemock.NewMockQuestionPicker(s.ctrl)
	s.roller = roller.NewScripted()
	s.balance = config.DefaultBalance()
	s.ctx = context.Background()

	var err error
	s.machine, err = battle.NewMachine(&battle.Config{
		Picker:      s.mockPicker,
		Roller:      s.roller,
		Balance:     s.balance,
		IDGenerator: idgen.NewSequential("battle"),
	})
	s.Require().NoError(err)

	s.player = &entities.Player{Health: 100, MaxHealth: 100, Level: 1, Badges: mapset.New[string]()}
	s.question = &entities.Question{
		Prompt:       "Which service provides object storage?",
		Options:      []string{"EC2", "RDS", "S3", "VPC"},
		CorrectIndex: 2,
		Explanation:  "S3 is object storage.",
	}
}

func (s *MachineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineTestSuite))
}

func (s *MachineTestSuite) wild() *entities.Opponent {
	return entities.NewWildOpponent(&entities.Monster{
		ID: "bucket-slime", Name: "Bucket Slime", Categories: []string{"CLF-C02"}, Level: 1, MaxHealth: 40,
	})
}

func (s *MachineTestSuite) npc() *entities.Opponent {
	return entities.NewNPCOpponent(&entities.NPC{
		ID: "npc-cora", Name: "Cora", CertCode: "CLF-C02", Level: 2, MaxHealth: 30,
	})
}

func (s *MachineTestSuite) start(opp *entities.Opponent) *battle.Session {
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "CLF-C02").Return(s.question, "CLF-C02", nil)
	session, err := s.machine.Start(s.ctx, opp)
	s.Require().NoError(err)
	return session
}

func (s *MachineTestSuite) TestStartOpensQuestion() {
	session := s.start(s.wild())

	s.Equal("battle_1", session.ID)
	s.Equal(battle.PhaseQuestionPending, s.machine.Phase())
	s.Equal(config.BattleHealthPool, session.Style)
	s.Equal(1, session.Round)
	s.Same(s.question, session.Question)
}

func (s *MachineTestSuite) TestStartPicksAmongCategories() {
	opp := s.wild()
	opp.Categories = []string{"CLF-C02", "DVA-C02"}
	s.roller.Push(2)
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "DVA-C02").Return(s.question, "DVA-C02", nil)

	session, err := s.machine.Start(s.ctx, opp)
	s.Require().NoError(err)
	s.Equal("DVA-C02", session.Category)
}

func (s *MachineTestSuite) TestStartRecordsFallbackCategory() {
	opp := s.wild()
	opp.Categories = []string{"SOA-C02"}
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "SOA-C02").Return(s.question, "CLF-C02", nil)

	session, err := s.machine.Start(s.ctx, opp)
	s.Require().NoError(err)
	s.Equal("CLF-C02", session.Category)
}

func (s *MachineTestSuite) TestStartMissingQuizDataStaysIdle() {
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "CLF-C02").
		Return(nil, "", errors.MissingQuizData("CLF-C02", "CLF-C02"))

	session, err := s.machine.Start(s.ctx, s.wild())
	s.Nil(session)
	s.True(errors.IsMissingQuizData(err))
	s.Equal(battle.PhaseIdle, s.machine.Phase())
	s.Nil(s.machine.Session())
	s.Equal(100, s.player.Health)
}

func (s *MachineTestSuite) TestStartWhileActive() {
	s.start(s.wild())
	_, err := s.machine.Start(s.ctx, s.wild())
	s.True(errors.IsFailedPrecondition(err))
}

func (s *MachineTestSuite) TestCorrectAnswerDamagesHealthPool() {
	session := s.start(s.wild())
	next := &entities.Question{Prompt: "next", Options: []string{"a", "b"}, CorrectIndex: 0}
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "CLF-C02").Return(next, "CLF-C02", nil)

	res, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.Require().NoError(err)
	s.True(res.Correct)
	s.Equal(25, res.OpponentDamage)
	s.Equal(battle.OutcomeContinue, res.Outcome)
	s.Equal(15, session.Opponent.Health)
	s.Equal(battle.PhaseQuestionPending, s.machine.Phase())
	s.Equal(2, session.Round)
	s.Same(next, session.Question)
	s.Equal(100, s.player.Health)
}

func (s *MachineTestSuite) TestHealthPoolVictory() {
	session := s.start(s.wild())
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "CLF-C02").Return(s.question, "CLF-C02", nil)

	_, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.Require().NoError(err)
	res, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.Require().NoError(err)

	s.Equal(battle.OutcomeVictory, res.Outcome)
	s.Equal(15, res.OpponentDamage, "damage is capped at remaining health")
	s.Equal(0, session.Opponent.Health)
	s.Equal(battle.PhaseResolved, s.machine.Phase())

	ended, err := s.machine.End()
	s.Require().NoError(err)
	s.Same(session, ended)
	s.Equal(battle.PhaseIdle, s.machine.Phase())
}

func (s *MachineTestSuite) TestSingleShotNPCVictory() {
	session := s.start(s.npc())
	s.Equal(config.BattleSingleShot, session.Style)

	res, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.Require().NoError(err)
	s.Equal(battle.OutcomeVictory, res.Outcome)
	s.Equal(30, res.OpponentDamage)
	s.Equal(battle.PhaseResolved, s.machine.Phase())
}

func (s *MachineTestSuite) TestSingleShotWrongAnswerRetreats() {
	session := s.start(s.npc())

	res, err := s.machine.Answer(s.ctx, s.player, session.ID, 0)
	s.Require().NoError(err)
	s.False(res.Correct)
	s.Equal(2, res.CorrectIndex)
	s.Equal(20, res.PlayerDamage, "10 + 5 per level at level 2")
	s.Equal(80, s.player.Health)
	s.Equal(battle.OutcomeRetreat, res.Outcome)
}

func (s *MachineTestSuite) TestWrongAnswerAlwaysLowersHealth() {
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "CLF-C02").Return(s.question, "CLF-C02", nil).AnyTimes()

	for _, health := range []int{100, 50, 16, 2} {
		s.machine.Reset()
		s.player.Health = health
		session, err := s.machine.Start(s.ctx, s.wild())
		s.Require().NoError(err)

		_, err = s.machine.Answer(s.ctx, s.player, session.ID, 1)
		s.Require().NoError(err)
		s.Less(s.player.Health, health)
	}
}

func (s *MachineTestSuite) TestWrongAnswerAtOneHealthIsDefeat() {
	s.player.Health = 1
	session := s.start(s.wild())

	res, err := s.machine.Answer(s.ctx, s.player, session.ID, 3)
	s.Require().NoError(err)
	s.Equal(battle.OutcomeDefeat, res.Outcome)
	s.Equal(0, s.player.Health)
	s.Equal(1, res.PlayerDamage)
}

func (s *MachineTestSuite) TestAnswerWithoutBattleIsStale() {
	res, err := s.machine.Answer(s.ctx, s.player, "battle_1", 0)
	s.Nil(res)
	s.True(errors.IsStaleBattleInput(err))
	s.Equal(100, s.player.Health)
}

func (s *MachineTestSuite) TestAnswerForOtherBattleIsStale() {
	session := s.start(s.wild())

	_, err := s.machine.Answer(s.ctx, s.player, "battle_99", 2)
	s.True(errors.IsStaleBattleInput(err))
	s.Equal(40, session.Opponent.Health)
	s.Equal(battle.PhaseQuestionPending, session.Phase)
}

func (s *MachineTestSuite) TestAnswerAfterOpponentClearedIsNoOp() {
	session := s.start(s.wild())
	session.Opponent = nil

	_, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.True(errors.IsStaleBattleInput(err))
	s.Equal(100, s.player.Health)
	s.Equal(battle.PhaseQuestionPending, session.Phase)
}

func (s *MachineTestSuite) TestInvalidIndexChangesNothing() {
	session := s.start(s.wild())

	for _, idx := range []int{-1, 4, 100} {
		_, err := s.machine.Answer(s.ctx, s.player, session.ID, idx)
		s.True(errors.IsInvalidAnswerIndex(err), "index %d", idx)
	}
	s.Equal(40, session.Opponent.Health)
	s.Equal(100, s.player.Health)
	s.Nil(session.LastAnswer)
	s.Equal(battle.PhaseQuestionPending, session.Phase)
}

func (s *MachineTestSuite) TestAnswerAfterResolvedIsStale() {
	session := s.start(s.npc())
	_, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.Require().NoError(err)

	_, err = s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.True(errors.IsStaleBattleInput(err))
}

func (s *MachineTestSuite) TestRedrawFailureAborts() {
	session := s.start(s.wild())
	s.mockPicker.EXPECT().PickQuestion(s.ctx, "CLF-C02").
		Return(nil, "", errors.MissingQuizData("CLF-C02", "CLF-C02"))

	res, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.Require().NoError(err)
	s.Equal(battle.OutcomeAborted, res.Outcome)
	s.Equal(battle.PhaseResolved, s.machine.Phase())
}

func (s *MachineTestSuite) TestFlee() {
	session := s.start(s.wild())

	_, err := s.machine.Flee("battle_7")
	s.True(errors.IsStaleBattleInput(err))

	fled, err := s.machine.Flee(session.ID)
	s.Require().NoError(err)
	s.Equal(battle.OutcomeFled, fled.Outcome)
	s.Equal(battle.PhaseResolved, s.machine.Phase())
	s.Equal(100, s.player.Health)
}

func (s *MachineTestSuite) TestEndRequiresResolved() {
	ended, err := s.machine.End()
	s.NoError(err)
	s.Nil(ended)

	s.start(s.wild())
	_, err = s.machine.End()
	s.True(errors.IsFailedPrecondition(err))
}

func (s *MachineTestSuite) TestResetClearsOpponent() {
	session := s.start(s.wild())
	s.machine.Reset()

	s.Nil(session.Opponent)
	s.Equal(battle.PhaseIdle, s.machine.Phase())
	_, err := s.machine.Answer(s.ctx, s.player, session.ID, 2)
	s.True(errors.IsStaleBattleInput(err))
}

func (s *MachineTestSuite) TestConfigValidation() {
	_, err := battle.NewMachine(&battle.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Picker")
	s.Contains(err.Error(), "IDGenerator")
}
