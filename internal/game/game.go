// Package game runs one player's session: a single non-blocking Update per
// tick that applies intents to movement, the encounter trigger, the battle
// state machine and progression, and emits notices alongside every
// transition.
package game

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/certquest/internal/battle"
	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/encounter"
	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
	"github.com/KirkDiggler/certquest/internal/progression"
	"github.com/KirkDiggler/certquest/internal/world"
)

// Config holds the dependencies of a game
type Config struct {
	ID      string
	Balance *config.Balance
	Picker  battle.QuestionPicker
	Roller  dice.Roller
	// IDGenerator names battle sessions
	IDGenerator idgen.Generator
	EventBus    events.EventBus
	Catalog     *notice.Catalog

	// World is optional; the built-in overworld is used when nil
	World *world.World
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("ID", c.ID, vb)
	if c.Balance == nil {
		vb.RequiredField("Balance")
	} else if err := c.Balance.Validate(); err != nil {
		vb.Field("Balance", errors.GetMessage(err))
	}
	if c.Picker == nil {
		vb.RequiredField("Picker")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

// Game is the whole mutable state of one session. It is not safe for
// concurrent use; callers serialize Update and Snapshot.
type Game struct {
	id      string
	balance *config.Balance

	world       *world.World
	mover       *world.Mover
	trigger     *encounter.Trigger
	machine     *battle.Machine
	progression *progression.Progression
	notices     *notice.Publisher

	player *entities.Player
	tick   uint64
}

// New builds a game with a fresh player standing on the start area spawn
func New(cfg *Config) (*Game, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("game config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	b := cfg.Balance
	w := cfg.World
	if w == nil {
		var err error
		w, err = world.DefaultOverworld(b.TileSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build overworld")
		}
	}
	if w.TileSize() != b.TileSize {
		return nil, errors.InvalidArgumentf("world tile size %d does not match balance tile size %d", w.TileSize(), b.TileSize)
	}

	mover, err := world.NewMover(&world.MoverConfig{
		World: w,
		Mode:  b.MovementMode,
		Speed: b.MoveSpeed,
	})
	if err != nil {
		return nil, err
	}

	trigger, err := encounter.New(&encounter.Config{
		Roller:        cfg.Roller,
		Stride:        b.EncounterStride,
		ChancePercent: b.EncounterChancePercent,
		LevelSlack:    b.LevelSlack,
	})
	if err != nil {
		return nil, err
	}

	machine, err := battle.NewMachine(&battle.Config{
		Picker:      cfg.Picker,
		Roller:      cfg.Roller,
		Balance:     b,
		IDGenerator: cfg.IDGenerator,
	})
	if err != nil {
		return nil, err
	}

	prog, err := progression.New(&progression.Config{
		Balance: b,
		World:   w,
		Mover:   mover,
	})
	if err != nil {
		return nil, err
	}

	publisher, err := notice.NewPublisher(&notice.PublisherConfig{
		EventBus: cfg.EventBus,
		Catalog:  cfg.Catalog,
		Source:   &notice.Entity{ID: cfg.ID, Type: EntityTypeGame},
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		id:          cfg.ID,
		balance:     b,
		world:       w,
		mover:       mover,
		trigger:     trigger,
		machine:     machine,
		progression: prog,
		notices:     publisher,
		player:      prog.NewPlayer(),
	}
	if err := mover.PlaceAtSpawn(g.player, b.StartArea); err != nil {
		return nil, errors.Wrapf(err, "failed to place player in %s", b.StartArea)
	}

	return g, nil
}

// ID returns the session id the game was created with
func (g *Game) ID() string {
	return g.id
}

// Tick returns how many updates have run
func (g *Game) Tick() uint64 {
	return g.tick
}

// Player returns the live player state
func (g *Game) Player() *entities.Player {
	return g.player
}

// World returns the live world
func (g *Game) World() *world.World {
	return g.world
}

// Mover returns the mover bound to this game's world
func (g *Game) Mover() *world.Mover {
	return g.mover
}

// Phase returns the battle phase
func (g *Game) Phase() battle.Phase {
	return g.machine.Phase()
}

// Battle returns the active battle session or nil
func (g *Game) Battle() *battle.Session {
	return g.machine.Session()
}

// Update advances one tick, applying intents in order. Game conditions such
// as blocked moves, stale answers or missing quiz data never fail the tick;
// only infrastructure failures are returned. The notices emitted during the
// tick are returned even when an error is.
func (g *Game) Update(ctx context.Context, intents ...Intent) ([]notice.Notice, error) {
	g.tick++
	t := &tickState{ctx: ctx, game: g}

	for _, intent := range intents {
		if err := g.apply(t, intent); err != nil {
			return t.notices, err
		}
	}
	return t.notices, nil
}

// Reset tears down any battle and restores the starting state
func (g *Game) Reset(ctx context.Context) ([]notice.Notice, error) {
	g.tick++
	t := &tickState{ctx: ctx, game: g}

	g.machine.Reset()
	if err := g.progression.Reset(g.player); err != nil {
		return nil, err
	}
	t.emit(g.playerEntity(), notice.KeyGameOver)
	return t.notices, nil
}

// tickState collects what one Update emits
type tickState struct {
	ctx     context.Context
	game    *Game
	notices []notice.Notice
}

func (t *tickState) emit(target *notice.Entity, key notice.Key, args ...any) {
	n, err := t.game.notices.Emit(t.ctx, t.game.tick, target, key, args...)
	if err != nil {
		slog.Warn("Notice subscriber failed",
			"session_id", t.game.id,
			"key", key,
			"error", err)
	}
	t.notices = append(t.notices, n)
}

func (g *Game) apply(t *tickState, intent Intent) error {
	switch intent.Kind {
	case IntentMove:
		return g.move(t, intent.Direction)
	case IntentInteract:
		g.interact(t)
		return nil
	case IntentAnswer:
		return g.answer(t, intent.Index)
	case IntentFlee:
		return g.flee(t)
	default:
		slog.Debug("Ignoring unknown intent", "session_id", g.id, "kind", intent.Kind)
		return nil
	}
}

func (g *Game) move(t *tickState, dir entities.Direction) error {
	if g.machine.Phase() != battle.PhaseIdle {
		slog.Debug("Ignoring move during battle", "session_id", g.id, "direction", dir)
		return nil
	}

	prevBox := g.mover.PlayerBox(g.player)
	res := g.mover.AttemptMove(g.player, dir)
	if res.Blocked {
		return nil
	}
	if res.Warped {
		t.emit(g.playerEntity(), notice.KeyEnteredArea, res.ToArea)
		return nil
	}

	check, err := g.trigger.Check(&encounter.CheckInput{
		Area:      g.world.Active(),
		Player:    g.player,
		Move:      res,
		PlayerBox: g.mover.PlayerBox(g.player),
		PrevBox:   prevBox,
		TileSize:  g.world.TileSize(),
	})
	if err != nil {
		return errors.Wrap(err, "encounter check failed")
	}

	switch check.Outcome {
	case encounter.OutcomeAlreadyDefeated:
		t.emit(npcEntity(check.NPC), notice.KeyAlreadyDefeated, check.NPC.CertCode, check.NPC.Name)
	case encounter.OutcomeNPC:
		return g.startBattle(t, entities.NewNPCOpponent(check.NPC))
	case encounter.OutcomeWild:
		return g.startBattle(t, entities.NewWildOpponent(check.Monster))
	}
	return nil
}

func (g *Game) startBattle(t *tickState, opponent *entities.Opponent) error {
	session, err := g.machine.Start(t.ctx, opponent)
	if err != nil {
		if errors.IsMissingQuizData(err) {
			category, _ := errors.GetMeta(err)[errors.MetaCategory].(string)
			t.emit(opponentEntity(opponent), notice.KeyQuizUnavailable, category)
			return nil
		}
		return errors.Wrapf(err, "failed to start battle with %s", opponent.Name)
	}

	slog.Info("Battle started",
		"session_id", g.id,
		"battle_id", session.ID,
		"opponent", opponent.Name,
		"kind", opponent.Kind,
		"category", session.Category)

	if opponent.Kind == entities.EncounterNPC {
		t.emit(opponentEntity(opponent), notice.KeyBattleNPC, opponent.Name, session.Category)
	} else {
		t.emit(opponentEntity(opponent), notice.KeyBattleWild, opponent.Name, opponent.Level, session.Category)
	}
	return nil
}

func (g *Game) interact(t *tickState) {
	if g.machine.Phase() != battle.PhaseIdle {
		return
	}
	tx, ty := g.mover.PlayerTile(g.player)
	code, err := g.world.Active().Tile(tx, ty)
	if err != nil || code != world.TileHeal {
		return
	}
	g.progression.Heal(g.player)
	t.emit(g.playerEntity(), notice.KeyHealed)
}

func (g *Game) answer(t *tickState, index int) error {
	session := g.machine.Session()
	if session == nil {
		slog.Debug("Ignoring answer with no battle", "session_id", g.id, "index", index)
		return nil
	}
	opponent := session.Opponent
	// Answer swaps in the next question when the battle continues
	question := session.Question

	res, err := g.machine.Answer(t.ctx, g.player, session.ID, index)
	if err != nil {
		if errors.IsInvalidAnswerIndex(err) || errors.IsStaleBattleInput(err) {
			slog.Debug("Ignoring answer",
				"session_id", g.id,
				"battle_id", session.ID,
				"index", index,
				"error", err)
			return nil
		}
		return errors.Wrap(err, "failed to answer")
	}

	if res.Correct {
		t.emit(opponentEntity(opponent), notice.KeyAnswerCorrect, opponent.Name, res.OpponentDamage)
	} else {
		t.emit(g.playerEntity(), notice.KeyAnswerWrong, question.Options[res.CorrectIndex], res.PlayerDamage)
	}

	if !res.Outcome.Terminal() {
		return nil
	}
	return g.resolve(t)
}

func (g *Game) flee(t *tickState) error {
	session := g.machine.Session()
	if session == nil {
		return nil
	}
	if _, err := g.machine.Flee(session.ID); err != nil {
		if errors.IsStaleBattleInput(err) {
			return nil
		}
		return errors.Wrap(err, "failed to flee")
	}
	return g.resolve(t)
}

// resolve applies the outcome of a resolved battle and returns to Idle
func (g *Game) resolve(t *tickState) error {
	session, err := g.machine.End()
	if err != nil {
		return err
	}
	if session == nil || session.Opponent == nil {
		return nil
	}
	opponent := session.Opponent
	target := opponentEntity(opponent)

	slog.Info("Battle resolved",
		"session_id", g.id,
		"battle_id", session.ID,
		"opponent", opponent.Name,
		"outcome", session.Outcome,
		"rounds", session.Round)

	switch session.Outcome {
	case battle.OutcomeVictory:
		reward := g.progression.GrantVictory(g.player, opponent)
		t.emit(target, notice.KeyVictory, opponent.Name, reward.Experience, reward.Currency)
		if reward.LevelsGained > 0 {
			t.emit(g.playerEntity(), notice.KeyLevelUp, reward.Level)
		}
		if reward.BadgeNew {
			t.emit(g.playerEntity(), notice.KeyBadgeEarned, reward.Badge)
		}
	case battle.OutcomeDefeat:
		result, err := g.progression.GrantDefeat(g.player)
		if err != nil {
			return err
		}
		if result.GameOver {
			t.emit(g.playerEntity(), notice.KeyGameOver)
		} else {
			t.emit(g.playerEntity(), notice.KeyRespawned, result.RespawnArea, result.LivesLeft)
		}
	case battle.OutcomeRetreat:
		t.emit(target, notice.KeyRetreat, opponent.Name)
	case battle.OutcomeFled:
		t.emit(target, notice.KeyFled, opponent.Name)
	case battle.OutcomeAborted:
		t.emit(target, notice.KeyAborted, opponent.Name)
	}
	return nil
}
