package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/peterkuimelis/deckx/internal/bot"
	"github.com/peterkuimelis/deckx/internal/console"
	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
	"github.com/peterkuimelis/deckx/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	var err error
	switch cmd {
	case "play":
		err = runPlay(ctx, os.Args[2:], os.Stdin, os.Stdout)
	case "sim":
		err = runSim(ctx, os.Args[2:], os.Stdout)
	case "cards":
		printCards(os.Stdout)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  deckx play [--setup FILE] [--policies A,B] [--kingdom X,Y] [--seed N] [--human SEAT] [--quiet]")
	fmt.Println("  deckx sim  [--setup FILE] [--policies A,B] [--kingdom X,Y] [--games N] [--workers N] [--seed N] [--verbose]")
	fmt.Println("  deckx cards")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play one game (bots, or you in one seat) and print the event log")
	fmt.Println("  sim     Play many bot games in parallel and print win rates")
	fmt.Println("  cards   List every known card")
	fmt.Println()
	fmt.Println("Policies: " + strings.Join(bot.Names(), ", "))
}

// loadSetup reads the setup file (or the default) and applies the common overrides.
func loadSetup(path, policies, kingdom string, seed int64) (*game.SetupFile, error) {
	setup := game.DefaultSetup()
	if path != "" {
		sf, err := game.ParseSetupFile(path)
		if err != nil {
			return nil, err
		}
		setup = sf
	}
	setup = setup.WithKingdom(splitList(kingdom)...)
	if names := splitList(policies); len(names) > 0 {
		if len(names) != len(setup.Players) {
			return nil, fmt.Errorf("got %d policies for %d players", len(names), len(setup.Players))
		}
		setup.Policies = names
	}
	if len(setup.Policies) == 0 {
		setup.Policies = make([]string, len(setup.Players))
		for i := range setup.Policies {
			setup.Policies[i] = "big-money"
		}
	}
	if seed != 0 {
		setup.Seed = seed
	}
	return setup, nil
}

func runPlay(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	setupPath := fs.String("setup", "", "path to setup YAML file")
	policies := fs.String("policies", "", "comma-separated bot policy per seat")
	kingdom := fs.String("kingdom", "", "comma-separated kingdom cards to add to the supply")
	seed := fs.Int64("seed", 0, "RNG seed (0 = random)")
	quiet := fs.Bool("quiet", false, "print only the result")
	human := fs.Int("human", -1, "seat played from the terminal (-1 = all bots)")
	fs.Parse(args)

	setup, err := loadSetup(*setupPath, *policies, *kingdom, *seed)
	if err != nil {
		return err
	}
	cfg, err := setup.GameConfig()
	if err != nil {
		return err
	}
	if *human >= len(setup.Players) {
		return fmt.Errorf("seat %d out of range (0-%d)", *human, len(setup.Players)-1)
	}
	// The console policy narrates events itself.
	if *quiet || *human >= 0 {
		cfg.Logger = log.NewMemoryLogger()
	} else {
		cfg.Logger = log.NewTextLogger(out)
	}

	ps := make([]game.Policy, len(setup.Policies))
	for i, name := range setup.Policies {
		if i == *human {
			setup.Policies[i] = "human"
			ps[i] = console.NewPolicy(i, in, out)
			continue
		}
		p, err := bot.ByName(name, setup.Seed+int64(i)+1)
		if err != nil {
			return err
		}
		ps[i] = p
	}

	g, err := game.NewGame(cfg, ps...)
	if err != nil {
		return err
	}
	res, err := g.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Game over after %d turns: %s\n", res.Turns, res.Reason)
	for i, p := range g.State.Players {
		fmt.Fprintf(out, "  %-10s %-10s %3d VP  (%d cards)\n", p.Name, setup.Policies[i], res.Scores[i], p.CardCount())
	}
	if res.Tie {
		fmt.Fprintf(out, "Tie between %s\n", seatNames(g.State, res.Winners))
	} else {
		fmt.Fprintf(out, "Winner: %s\n", seatNames(g.State, res.Winners))
	}
	return nil
}

func runSim(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	setupPath := fs.String("setup", "", "path to setup YAML file")
	policies := fs.String("policies", "", "comma-separated bot policy per seat")
	kingdom := fs.String("kingdom", "", "comma-separated kingdom cards to add to the supply")
	games := fs.Int("games", 1000, "number of games to play")
	workers := fs.Int("workers", 0, "concurrent games (0 = GOMAXPROCS)")
	seed := fs.Int64("seed", 0, "base RNG seed (0 = random)")
	verbose := fs.Bool("verbose", false, "log each finished game")
	fs.Parse(args)

	setup, err := loadSetup(*setupPath, *policies, *kingdom, 0)
	if err != nil {
		return err
	}

	var logger *zap.Logger
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	defer logger.Sync()

	r := &sim.Runner{
		Setup:    setup,
		Games:    *games,
		Workers:  *workers,
		BaseSeed: *seed,
		Logger:   logger,
	}
	sum, err := r.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d games, %.1f turns on average", sum.Games, sum.AvgTurns)
	if sum.TurnLimits > 0 {
		fmt.Fprintf(out, ", %d stopped at the turn limit", sum.TurnLimits)
	}
	fmt.Fprintln(out)
	for i := range sum.Players {
		fmt.Fprintf(out, "  %-10s %-10s wins %5d (%5.1f%%)  ties %5d  avg %5.1f VP\n",
			sum.Players[i], sum.Policies[i], sum.Wins[i], 100*sum.WinRate(i), sum.Ties[i], sum.AvgScores[i])
	}
	return nil
}

func printCards(out io.Writer) {
	for _, name := range []string{"Copper", "Silver", "Gold", "Estate", "Duchy", "Province", "Curse"} {
		fmt.Fprintf(out, "  %s\n", game.LookupCard(name).DisplayString())
	}
	for _, c := range game.KingdomCards() {
		fmt.Fprintf(out, "  %s: %s\n", c.DisplayString(), c.Description)
	}
}

func seatNames(gs *game.GameState, seats []int) string {
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = gs.Players[s].Name
	}
	return strings.Join(names, ", ")
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
