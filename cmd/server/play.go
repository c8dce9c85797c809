package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/certquest/internal/config"
	"github.com/KirkDiggler/certquest/internal/game"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/orchestrators/session"
	"github.com/KirkDiggler/certquest/internal/pkg/clock"
	"github.com/KirkDiggler/certquest/internal/pkg/idgen"
	"github.com/KirkDiggler/certquest/internal/world"
)

type playFlags struct {
	seed        uint64
	balanceFile string
	localeDir   string
	mapDir      string
	lang        string
	bank        bankFlags
}

func newPlayCmd() *cobra.Command {
	f := &playFlags{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play a local game in the terminal. Each line is one tick:

  w a s d     move (several letters move several tiles, e.g. "ddd")
  e           interact (heal on a heal tile)
  1-9         answer the question with that option
  f           flee from a battle
  r           start over
  q           quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), f, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.Flags().Changed("seed"))
		},
	}

	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed (default: time based)")
	cmd.Flags().StringVar(&f.balanceFile, "balance", config.EnvString(config.EnvBalanceFile, ""), "YAML balance file (default: built-in balance)")
	cmd.Flags().StringVar(&f.localeDir, "locale-dir", config.EnvString(config.EnvLocaleDir, ""), "Directory of <lang>.po notice translations")
	cmd.Flags().StringVar(&f.lang, "lang", config.EnvString(config.EnvLang, "en"), "Notice language")
	cmd.Flags().StringVar(&f.mapDir, "map-dir", config.EnvString(config.EnvMapDir, ""), "Directory of *.tmx area maps (default: built-in overworld)")
	f.bank.register(cmd)

	return cmd
}

func runPlay(ctx context.Context, f *playFlags, in io.Reader, out io.Writer, seeded bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	balance, err := config.LoadBalance(f.balanceFile)
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}
	worlds, err := mapWorlds(f.mapDir, balance.TileSize)
	if err != nil {
		return err
	}
	quizRepo, closeBank, err := f.bank.open(ctx)
	if err != nil {
		return err
	}
	defer closeBank()

	svc, err := session.NewOrchestrator(&session.Config{
		QuizRepo:     quizRepo,
		Balance:      balance,
		IDGenerator:  idgen.NewSequential("local"),
		EventBus:     events.NewBus(),
		Clock:        clock.New(),
		WorldFactory: worlds,
		LocaleDir:    f.localeDir,
		DefaultLang:  f.lang,
		MaxSessions:  1,
	})
	if err != nil {
		return fmt.Errorf("failed to create session service: %w", err)
	}

	start := &session.StartSessionInput{}
	if seeded {
		start.Seed = &f.seed
	}
	started, err := svc.StartSession(ctx, start)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	fmt.Fprintf(out, "Seed %d. Type ? for help.\n", started.Seed)
	renderSnapshot(out, started.Snapshot)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "q", "quit":
			return nil
		case "?", "help":
			fmt.Fprintln(out, "w/a/s/d move, e interact, 1-9 answer, f flee, r restart, q quit")
			continue
		case "r", "restart":
			reset, err := svc.ResetSession(ctx, &session.ResetSessionInput{SessionID: started.SessionID})
			if err != nil {
				return fmt.Errorf("failed to restart: %w", err)
			}
			renderNotices(out, reset.Notices)
			renderSnapshot(out, reset.Snapshot)
			continue
		}

		intents, err := lineToIntents(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		result, err := svc.SendInput(ctx, &session.SendInputInput{
			SessionID: started.SessionID,
			Intents:   intents,
		})
		if err != nil {
			return fmt.Errorf("failed to apply input: %w", err)
		}
		renderNotices(out, result.Notices)
		renderSnapshot(out, result.Snapshot)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// lineToIntents turns one line of keys into wire intents. A bare number is
// a one-based answer choice.
func lineToIntents(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 {
			return nil, fmt.Errorf("answers start at 1")
		}
		return []string{game.Answer(n - 1).String()}, nil
	}

	intents := make([]string, 0, len(line))
	for _, r := range strings.ToLower(line) {
		switch r {
		case 'w':
			intents = append(intents, "up")
		case 'a':
			intents = append(intents, "left")
		case 's':
			intents = append(intents, "down")
		case 'd':
			intents = append(intents, "right")
		case 'e':
			intents = append(intents, game.Interact().String())
		case 'f':
			intents = append(intents, game.Flee().String())
		case ' ':
		default:
			return nil, fmt.Errorf("unknown key %q, type ? for help", r)
		}
	}
	return intents, nil
}

var tileGlyphs = map[int]byte{
	int(world.TileGrass):    ',',
	int(world.TilePath):     '.',
	int(world.TileWall):     '#',
	int(world.TileFloor):    '_',
	int(world.TileBuilding): 'H',
	int(world.TileHeal):     '+',
}

func renderNotices(out io.Writer, notices []notice.Notice) {
	for _, n := range notices {
		fmt.Fprintf(out, "* %s\n", n.Text)
	}
}

func renderSnapshot(out io.Writer, snap *game.Snapshot) {
	if snap == nil {
		return
	}

	if b := snap.Battle; b != nil {
		o := b.Opponent
		fmt.Fprintf(out, "\n== %s (Lv %d) HP %d/%d | You HP %d/%d ==\n",
			o.Name, o.Level, o.Health, o.MaxHealth, snap.Player.Health, snap.Player.MaxHealth)
		fmt.Fprintf(out, "[%s] %s\n", b.Category, b.Prompt)
		for i, opt := range b.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
		return
	}

	rows := make([][]byte, len(snap.Area.Grid))
	for y, row := range snap.Area.Grid {
		rows[y] = make([]byte, len(row))
		for x, code := range row {
			g, ok := tileGlyphs[code]
			if !ok {
				g = '?'
			}
			rows[y][x] = g
		}
	}
	for _, d := range snap.Area.Doors {
		for y := d.Zone.Y; y < d.Zone.Y+d.Zone.H; y++ {
			for x := d.Zone.X; x < d.Zone.X+d.Zone.W; x++ {
				setGlyph(rows, x, y, 'D')
			}
		}
	}
	for _, n := range snap.NPCs {
		glyph := byte('N')
		if n.Defeated {
			glyph = 'n'
		}
		for y := n.TileY; y < n.TileY+n.Height; y++ {
			for x := n.TileX; x < n.TileX+n.Width; x++ {
				setGlyph(rows, x, y, glyph)
			}
		}
	}
	setGlyph(rows, snap.Player.TileX, snap.Player.TileY, '@')

	p := snap.Player
	fmt.Fprintf(out, "\n%s  Lv %d  XP %d/%d  HP %d/%d  Lives %d  Coins %d  Badges %s\n",
		snap.Area.Name, p.Level, p.Experience, p.ExperienceToNext, p.Health, p.MaxHealth,
		p.Lives, p.Currency, strings.Join(p.Badges, ","))
	for _, row := range rows {
		fmt.Fprintln(out, string(row))
	}
}

func setGlyph(rows [][]byte, x, y int, g byte) {
	if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
		return
	}
	rows[y][x] = g
}
