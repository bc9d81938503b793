// Package bot provides built-in decision policies for simulated players.
package bot

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
)

// factories maps policy names to constructors. The seed is only used by
// randomized policies.
var factories = map[string]func(seed int64) game.Policy{
	"big-money": func(int64) game.Policy { return NewBigMoney() },
	"smithy": func(int64) game.Policy {
		return NewPriority("Province", "Gold", "Smithy", "Silver")
	},
	"engine": func(int64) game.Policy {
		return NewPriority("Province", "Laboratory", "Festival", "Market", "Gold", "Village", "Smithy", "Silver")
	},
	"random":  func(seed int64) game.Policy { return NewRandom(seed) },
	"passive": func(int64) game.Policy { return Passive{} },
}

// ByName returns a fresh policy for the given name.
func ByName(name string, seed int64) (game.Policy, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (have %v)", name, Names())
	}
	return f(seed), nil
}

// Names returns all registered policy names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- Passive ---

// Passive never plays or buys anything.
type Passive struct{}

func (Passive) ChooseActionCard(ctx context.Context, state *game.GameState, hand []*game.Card, actions int) (*game.Card, error) {
	return nil, nil
}

func (Passive) ChooseBuy(ctx context.Context, state *game.GameState, money, buys int, supply *game.Supply) (*game.Card, error) {
	return nil, nil
}

func (Passive) Notify(ctx context.Context, event log.GameEvent) error { return nil }

// --- BigMoney ---

// BigMoney buys Province at $8, Gold at $6, Silver at $3, and greens late.
// It never plays actions.
type BigMoney struct {
	// DuchyAt is the Province count at or below which $5-7 buys Duchy.
	DuchyAt int
	// EstateAt is the Province count at or below which $2-4 buys Estate.
	EstateAt int
}

func NewBigMoney() *BigMoney {
	return &BigMoney{DuchyAt: 4, EstateAt: 2}
}

func (b *BigMoney) ChooseActionCard(ctx context.Context, state *game.GameState, hand []*game.Card, actions int) (*game.Card, error) {
	return nil, nil
}

func (b *BigMoney) ChooseBuy(ctx context.Context, state *game.GameState, money, buys int, supply *game.Supply) (*game.Card, error) {
	provinces := supply.Count("Province")
	var want []string
	switch {
	case money >= 8:
		want = []string{"Province", "Gold"}
	case money >= 6:
		if provinces <= b.DuchyAt {
			want = []string{"Duchy", "Gold"}
		} else {
			want = []string{"Gold"}
		}
	case money >= 5:
		if provinces <= b.DuchyAt {
			want = []string{"Duchy", "Silver"}
		} else {
			want = []string{"Silver"}
		}
	case money >= 3:
		want = []string{"Silver"}
		if provinces <= b.EstateAt {
			want = []string{"Estate", "Silver"}
		}
	case money >= 2:
		if provinces <= b.EstateAt {
			want = []string{"Estate"}
		}
	}
	return firstAffordable(want, money, supply), nil
}

func (b *BigMoney) Notify(ctx context.Context, event log.GameEvent) error { return nil }

// --- Priority ---

// Priority buys the first affordable card in an ordered list and plays
// actions that grant more actions before terminal ones.
type Priority struct {
	BuyOrder []string
	// MaxCopies caps how many of a kingdom card it will own (0 = no cap).
	MaxCopies int
}

func NewPriority(buyOrder ...string) *Priority {
	return &Priority{BuyOrder: buyOrder, MaxCopies: 2}
}

func (p *Priority) ChooseActionCard(ctx context.Context, state *game.GameState, hand []*game.Card, actions int) (*game.Card, error) {
	var best *game.Card
	for _, c := range hand {
		if !c.IsAction() {
			continue
		}
		if best == nil || actionRank(c) > actionRank(best) {
			best = c
		}
	}
	return best, nil
}

// actionRank prefers non-terminal actions, then more cards drawn, then coins.
func actionRank(c *game.Card) int {
	b := c.Effect.Bonus
	rank := b.Cards*10 + b.Coins*5 + b.Buys
	if b.Actions > 0 {
		rank += 1000
	}
	return rank
}

func (p *Priority) ChooseBuy(ctx context.Context, state *game.GameState, money, buys int, supply *game.Supply) (*game.Card, error) {
	me := state.Current()
	for _, name := range p.BuyOrder {
		card := supply.Card(name)
		if card == nil || card.Cost > money || !supply.IsAvailable(card) {
			continue
		}
		if card.IsAction() && p.MaxCopies > 0 && me.CountCard(name) >= p.MaxCopies {
			continue
		}
		return card, nil
	}
	return nil, nil
}

func (p *Priority) Notify(ctx context.Context, event log.GameEvent) error { return nil }

// --- Random ---

// Random picks uniformly among legal plays and buys, including declining.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) ChooseActionCard(ctx context.Context, state *game.GameState, hand []*game.Card, actions int) (*game.Card, error) {
	var options []*game.Card
	for _, c := range hand {
		if c.IsAction() {
			options = append(options, c)
		}
	}
	return r.pick(options), nil
}

func (r *Random) ChooseBuy(ctx context.Context, state *game.GameState, money, buys int, supply *game.Supply) (*game.Card, error) {
	var options []*game.Card
	for _, c := range supply.Cards() {
		if c.Cost <= money && c.Category != game.CategoryCurse {
			options = append(options, c)
		}
	}
	return r.pick(options), nil
}

// pick returns one of options or nil, each with equal probability.
func (r *Random) pick(options []*game.Card) *game.Card {
	i := r.rng.Intn(len(options) + 1)
	if i == len(options) {
		return nil
	}
	return options[i]
}

func (r *Random) Notify(ctx context.Context, event log.GameEvent) error { return nil }

// firstAffordable returns the first named card that is affordable and in stock.
func firstAffordable(names []string, money int, supply *game.Supply) *game.Card {
	for _, name := range names {
		card := supply.Card(name)
		if card != nil && card.Cost <= money && supply.IsAvailable(card) {
			return card
		}
	}
	return nil
}
