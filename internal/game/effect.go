package game

import (
	"fmt"
	"strings"
)

// Bonus is the base resource grant of an action card.
type Bonus struct {
	Actions int
	Buys    int
	Cards   int
	Coins   int
}

// CardEffect describes what an action card does when played.
type CardEffect struct {
	Bonus Bonus

	// Text overrides the generated description when set.
	Text string

	// Resolve runs after the bonus is applied. Used for effects that reach
	// other players through the game. Skipped when the game is nil.
	Resolve func(g *Game, p *Player)
}

func (e CardEffect) apply(p *Player, g *Game) {
	p.Actions += e.Bonus.Actions
	p.Buys += e.Bonus.Buys
	p.Money += e.Bonus.Coins
	if e.Bonus.Cards > 0 {
		if g != nil {
			g.drawCards(p, e.Bonus.Cards)
		} else {
			p.DrawCards(e.Bonus.Cards)
		}
	}
	if e.Resolve != nil && g != nil {
		e.Resolve(g, p)
	}
}

func (e CardEffect) String() string {
	if e.Text != "" {
		return e.Text
	}
	var parts []string
	if e.Bonus.Cards > 0 {
		parts = append(parts, fmt.Sprintf("+%d Card%s", e.Bonus.Cards, plural(e.Bonus.Cards)))
	}
	if e.Bonus.Actions > 0 {
		parts = append(parts, fmt.Sprintf("+%d Action%s", e.Bonus.Actions, plural(e.Bonus.Actions)))
	}
	if e.Bonus.Buys > 0 {
		parts = append(parts, fmt.Sprintf("+%d Buy%s", e.Bonus.Buys, plural(e.Bonus.Buys)))
	}
	if e.Bonus.Coins > 0 {
		parts = append(parts, fmt.Sprintf("+$%d", e.Bonus.Coins))
	}
	return strings.Join(parts, ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
