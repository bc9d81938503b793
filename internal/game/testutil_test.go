package game

import (
	"context"
	"testing"

	"github.com/peterkuimelis/deckx/internal/log"
)

// ScriptedPolicy is a Policy that follows a predefined script of plays and buys.
// Used in tests to deterministically drive the game.
type ScriptedPolicy struct {
	t    *testing.T
	name string

	// Card names to play, in order. "" ends one Action Phase.
	plays   []string
	playPos int

	// Card names to buy, in order. "" ends one Buy Phase.
	buys   []string
	buyPos int

	actionCalls int
	buyCalls    int
}

func NewScriptedPolicy(t *testing.T, name string) *ScriptedPolicy {
	return &ScriptedPolicy{t: t, name: name}
}

// AddPlay scripts playing the named card. An empty name declines.
func (sp *ScriptedPolicy) AddPlay(names ...string) *ScriptedPolicy {
	sp.plays = append(sp.plays, names...)
	return sp
}

// AddBuy scripts buying the named card. An empty name declines.
func (sp *ScriptedPolicy) AddBuy(names ...string) *ScriptedPolicy {
	sp.buys = append(sp.buys, names...)
	return sp
}

func (sp *ScriptedPolicy) ChooseActionCard(ctx context.Context, state *GameState, hand []*Card, actions int) (*Card, error) {
	sp.actionCalls++
	if sp.playPos >= len(sp.plays) {
		return nil, nil
	}
	name := sp.plays[sp.playPos]
	sp.playPos++
	if name == "" {
		return nil, nil
	}
	return LookupCard(name), nil
}

func (sp *ScriptedPolicy) ChooseBuy(ctx context.Context, state *GameState, money, buys int, supply *Supply) (*Card, error) {
	sp.buyCalls++
	if sp.buyPos >= len(sp.buys) {
		return nil, nil
	}
	name := sp.buys[sp.buyPos]
	sp.buyPos++
	if name == "" {
		return nil, nil
	}
	if c := supply.Card(name); c != nil {
		return c, nil
	}
	// Not in the supply; the engine must refuse it.
	return LookupCard(name), nil
}

func (sp *ScriptedPolicy) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// moneyPolicy is a minimal Big Money player: Province at $8, Gold at $6,
// Silver at $3. It never plays actions.
type moneyPolicy struct {
	// onBuy, if set, is called before every buy decision.
	onBuy func(state *GameState)
}

func (mp *moneyPolicy) ChooseActionCard(ctx context.Context, state *GameState, hand []*Card, actions int) (*Card, error) {
	return nil, nil
}

func (mp *moneyPolicy) ChooseBuy(ctx context.Context, state *GameState, money, buys int, supply *Supply) (*Card, error) {
	if mp.onBuy != nil {
		mp.onBuy(state)
	}
	for _, want := range []struct {
		name string
		min  int
	}{{"Province", 8}, {"Gold", 6}, {"Silver", 3}} {
		c := supply.Card(want.name)
		if money >= want.min && c != nil && supply.IsAvailable(c) {
			return c, nil
		}
	}
	return nil, nil
}

func (mp *moneyPolicy) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Test card helpers ---

func cards(names ...string) []*Card {
	out := make([]*Card, len(names))
	for i, name := range names {
		out[i] = LookupCard(name)
	}
	return out
}

func repeat(name string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = name
	}
	return out
}

// makeDeck builds a deck from card names; index 0 is drawn first.
func makeDeck(names ...string) []*Card {
	deck := make([]*Card, 0, len(names))
	// Top cards go at the end of the slice
	for i := len(names) - 1; i >= 0; i-- {
		deck = append(deck, LookupCard(names[i]))
	}
	return deck
}

func baseSupply() []Pile {
	return []Pile{
		{Card: Copper(), Count: 60},
		{Card: Silver(), Count: 40},
		{Card: Gold(), Count: 30},
		{Card: Estate(), Count: 24},
		{Card: Duchy(), Count: 12},
		{Card: Province(), Count: 12},
	}
}

// newTestGame builds an unshuffled two-player game with the given decks.
func newTestGame(t *testing.T, supply []Pile, deck0, deck1 []*Card, p0, p1 Policy) (*Game, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	g, err := NewGame(GameConfig{
		Players:   []string{"P1", "P2"},
		Supply:    supply,
		Decks:     [][]*Card{deck0, deck1},
		Logger:    logger,
		Seed:      1,
		NoShuffle: true,
	}, p0, p1)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g, logger
}

// runGameToCompletion runs a game and returns the logger for inspection.
func runGameToCompletion(t *testing.T, cfg GameConfig, policies ...Policy) (*Game, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 200 // reasonable default for tests
	}

	g, err := NewGame(cfg, policies...)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	res, err := g.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Game error: %v", err)
	}

	t.Logf("Game result: winners=%v scores=%v (%s, %d turns)", res.Winners, res.Scores, res.Reason, res.Turns)
	return g, logger
}

// totalCards counts every card owned by a player or left in the supply.
func totalCards(gs *GameState) int {
	n := 0
	for _, p := range gs.Players {
		n += p.CardCount()
	}
	for _, c := range gs.Supply.RemainingPiles() {
		n += c
	}
	return n
}
