package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/peterkuimelis/deckx/internal/log"
)

const (
	DefaultEmptyPileLimit = 3
	DefaultMaxTurns       = 1000
)

// DefaultEndPiles are the piles whose depletion ends the game.
var DefaultEndPiles = []string{"Province"}

// Policy decides which cards a player plays and buys. Implementations may be
// scripted, interactive, or AI-driven. A nil card means "none".
type Policy interface {
	// ChooseActionCard picks an action card from hand to play, or nil to end the Action Phase.
	ChooseActionCard(ctx context.Context, state *GameState, hand []*Card, actions int) (*Card, error)

	// ChooseBuy picks a card to buy, or nil to end the Buy Phase.
	ChooseBuy(ctx context.Context, state *GameState, money, buys int, supply *Supply) (*Card, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	Players      []string // turn order
	Supply       []Pile
	StartingDeck []*Card   // used for every player without an entry in Decks
	Decks        [][]*Card // optional per-player starting decks

	EndPiles       []string // piles whose depletion ends the game (default Province)
	EmptyPileLimit int      // game ends when this many piles are empty (default 3)

	Logger    log.EventLogger
	Seed      int64 // RNG seed (0 for random)
	NoShuffle bool  // skip the setup shuffle (for deterministic tests)
	MaxTurns  int   // stop after this many turns (0 = DefaultMaxTurns)
}

// Game orchestrates an entire game between any number of players.
type Game struct {
	State    *GameState
	Policies []Policy
	Logger   log.EventLogger

	ctx            context.Context
	rng            *rand.Rand
	endPiles       []string
	emptyPileLimit int
	maxTurns       int
	noShuffle      bool
	setupDone      bool
	announced      map[string]bool // piles already reported empty
}

// NewGame creates a new game from the given config, one policy per player.
func NewGame(cfg GameConfig, policies ...Policy) (*Game, error) {
	if len(cfg.Players) == 0 {
		return nil, errors.New("game needs at least one player")
	}
	if len(policies) != len(cfg.Players) {
		return nil, fmt.Errorf("got %d policies for %d players", len(policies), len(cfg.Players))
	}
	if len(cfg.Decks) > len(cfg.Players) {
		return nil, fmt.Errorf("got %d starting decks for %d players", len(cfg.Decks), len(cfg.Players))
	}

	supply := NewSupply(cfg.Supply...)

	endPiles := cfg.EndPiles
	if len(endPiles) == 0 {
		endPiles = DefaultEndPiles
	}
	for _, name := range endPiles {
		if !supply.Has(name) {
			return nil, fmt.Errorf("game-ending pile %q is not in the supply", name)
		}
	}
	limit := cfg.EmptyPileLimit
	if limit == 0 {
		limit = DefaultEmptyPileLimit
	}
	if limit < 1 {
		return nil, fmt.Errorf("empty pile limit must be positive, got %d", limit)
	}

	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns // safety limit
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	gs := &GameState{Supply: supply}
	for i, name := range cfg.Players {
		deck := cfg.StartingDeck
		if i < len(cfg.Decks) && cfg.Decks[i] != nil {
			deck = cfg.Decks[i]
		}
		gs.Players = append(gs.Players, NewPlayer(name, deck, rng))
	}

	return &Game{
		State:          gs,
		Policies:       policies,
		Logger:         logger,
		ctx:            context.Background(),
		rng:            rng,
		endPiles:       append([]string(nil), endPiles...),
		emptyPileLimit: limit,
		maxTurns:       maxTurns,
		noShuffle:      cfg.NoShuffle,
		announced:      make(map[string]bool),
	}, nil
}

// Setup shuffles starting decks (unless disabled) and draws opening hands.
// Calling it more than once has no effect.
func (g *Game) Setup() {
	if g.setupDone {
		return
	}
	g.setupDone = true
	for _, p := range g.State.Players {
		if !g.noShuffle {
			p.ShuffleDeck()
		}
		g.drawCards(p, HandSize)
	}
}

// Run executes the entire game loop and returns the final result.
func (g *Game) Run(ctx context.Context) (Result, error) {
	g.ctx = ctx
	gs := g.State

	g.Setup()

	for !g.IsGameOver() {
		if gs.Turn >= g.maxTurns {
			gs.Result.TurnLimit = true
			return g.finish(fmt.Sprintf("turn limit reached (%d turns)", g.maxTurns)), nil
		}
		if err := g.PlayTurn(); err != nil {
			return gs.Result, err
		}
		if err := g.ctx.Err(); err != nil {
			return gs.Result, err
		}
		if g.IsGameOver() {
			break
		}
		g.NextPlayer()
	}

	return g.finish(g.endReason()), nil
}

// PlayTurn runs one full turn for the current player.
func (g *Game) PlayTurn() error {
	gs := g.State
	gs.Turn++
	p := gs.Current()

	g.log(log.NewTurnEvent(gs.Turn, gs.CurrentPlayer, p.Name))

	if err := g.ActionPhase(); err != nil {
		return err
	}
	if err := g.BuyPhase(); err != nil {
		return err
	}
	g.CleanupPhase()
	gs.Phase = PhaseNone
	return nil
}

// ActionPhase lets the current player play action cards while actions remain.
// The phase ends as soon as the policy declines or names a card that cannot
// be played; leftover actions are forfeited.
func (g *Game) ActionPhase() error {
	gs := g.State
	g.enterPhase(PhaseAction)

	p := gs.Current()
	policy := g.Policies[gs.CurrentPlayer]

	for p.Actions > 0 {
		choice, err := policy.ChooseActionCard(g.ctx, gs, append([]*Card(nil), p.Hand...), p.Actions)
		if err != nil {
			return fmt.Errorf("choose action for %s: %w", p.Name, err)
		}
		card := p.HandCard(choice)
		if card == nil || !card.IsAction() {
			break
		}
		p.Actions--
		g.log(log.NewPlayActionEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer, card.Name))
		p.PlayCard(card, g)
	}

	return nil
}

// BuyPhase plays every treasure in hand, then lets the current player buy
// while buys remain. The phase ends on the first declined or illegal buy.
func (g *Game) BuyPhase() error {
	gs := g.State
	g.enterPhase(PhaseBuy)

	p := gs.Current()
	policy := g.Policies[gs.CurrentPlayer]

	for _, c := range p.PlayAllTreasures(g) {
		g.log(log.NewPlayTreasureEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer, c.Name, p.Money))
	}

	for p.Buys > 0 {
		choice, err := policy.ChooseBuy(g.ctx, gs, p.Money, p.Buys, gs.Supply)
		if err != nil {
			return fmt.Errorf("choose buy for %s: %w", p.Name, err)
		}
		if choice == nil {
			break
		}
		if !p.BuyCard(choice, gs.Supply) {
			g.log(log.NewBuyRefusedEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer, choice.Name, buyRefusal(p, choice, gs.Supply)))
			break
		}
		left := gs.Supply.Count(choice.Name)
		g.log(log.NewBuyEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer, choice.Name, gs.Supply.Card(choice.Name).Cost, left))
		if left == 0 && !g.announced[choice.Name] {
			g.announced[choice.Name] = true
			g.log(log.NewPileEmptyEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer, choice.Name))
		}
	}

	return nil
}

// CleanupPhase discards everything and draws the next hand.
func (g *Game) CleanupPhase() {
	gs := g.State
	g.enterPhase(PhaseCleanup)

	p := gs.Current()
	before := p.Reshuffles
	drawn := p.EndTurn()
	g.logDraws(p, drawn, before)
	g.log(log.NewCleanupEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer, len(drawn)))
}

// NextPlayer advances the turn to the next player in seat order.
func (g *Game) NextPlayer() *Player {
	gs := g.State
	gs.CurrentPlayer = (gs.CurrentPlayer + 1) % len(gs.Players)
	return gs.Current()
}

// IsGameOver reports whether a game-ending pile is empty or enough piles
// have run out.
func (g *Game) IsGameOver() bool {
	return g.endReason() != ""
}

func (g *Game) endReason() string {
	supply := g.State.Supply
	for _, name := range g.endPiles {
		if supply.Count(name) == 0 {
			return fmt.Sprintf("%s pile empty", name)
		}
	}
	if n := supply.EmptyPiles(); n >= g.emptyPileLimit {
		return fmt.Sprintf("%d piles empty", n)
	}
	return ""
}

// finish marks the game over, scores it and announces the winner.
func (g *Game) finish(reason string) Result {
	gs := g.State
	res := g.DeclareWinner()
	res.Reason = reason
	res.TurnLimit = gs.Result.TurnLimit
	gs.Over = true
	gs.Result = res

	g.log(log.NewGameOverEvent(gs.Turn, reason, res.Scores))
	best := res.Scores[res.Winners[0]]
	if res.Tie {
		g.log(log.NewTieEvent(gs.Turn, res.Winners, best))
	} else {
		g.log(log.NewWinEvent(gs.Turn, res.Winners[0], best))
	}
	return res
}

// EndPiles returns the names of the game-ending piles.
func (g *Game) EndPiles() []string {
	return append([]string(nil), g.endPiles...)
}

// drawCards draws for p and logs the draws and any reshuffle.
func (g *Game) drawCards(p *Player, n int) []*Card {
	before := p.Reshuffles
	drawn := p.DrawCards(n)
	g.logDraws(p, drawn, before)
	return drawn
}

func (g *Game) logDraws(p *Player, drawn []*Card, reshufflesBefore int) {
	gs := g.State
	seat := gs.PlayerIndex(p)
	phase := gs.Phase.String()
	if p.Reshuffles > reshufflesBefore {
		g.log(log.NewShuffleEvent(gs.Turn, phase, seat))
	}
	for _, c := range drawn {
		g.log(log.NewDrawEvent(gs.Turn, phase, seat, c.Name))
	}
}

func (g *Game) enterPhase(phase Phase) {
	gs := g.State
	gs.Phase = phase
	g.log(log.NewPhaseChangeEvent(gs.Turn, gs.CurrentPlayer, phase.String()))
}

// log emits a game event through the logger and notifies every policy.
func (g *Game) log(event log.GameEvent) {
	g.Logger.Log(event)
	// Notify policies (ignore errors for notifications)
	for _, p := range g.Policies {
		_ = p.Notify(g.ctx, event)
	}
}

// buyRefusal explains why a buy is not legal.
func buyRefusal(p *Player, card *Card, supply *Supply) string {
	var reasons []string
	if p.Buys <= 0 {
		reasons = append(reasons, "no buys left")
	}
	cost := card.Cost
	if c := supply.Card(card.Name); c != nil {
		cost = c.Cost
	}
	if p.Money < cost {
		reasons = append(reasons, fmt.Sprintf("costs $%d, has $%d", cost, p.Money))
	}
	if !supply.Has(card.Name) {
		reasons = append(reasons, "not in supply")
	} else if !supply.IsAvailable(card) {
		reasons = append(reasons, "pile empty")
	}
	return strings.Join(reasons, "; ")
}
