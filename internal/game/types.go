package game

import "fmt"

// --- Enums ---

type Phase int

const (
	PhaseNone Phase = iota
	PhaseAction
	PhaseBuy
	PhaseCleanup
)

func (p Phase) String() string {
	switch p {
	case PhaseAction:
		return "Action Phase"
	case PhaseBuy:
		return "Buy Phase"
	case PhaseCleanup:
		return "Cleanup Phase"
	default:
		return "None"
	}
}

type Category int

const (
	CategoryTreasure Category = iota
	CategoryVictory
	CategoryAction
	CategoryCurse
)

func (c Category) String() string {
	switch c {
	case CategoryTreasure:
		return "Treasure"
	case CategoryVictory:
		return "Victory"
	case CategoryAction:
		return "Action"
	case CategoryCurse:
		return "Curse"
	default:
		return "Unknown"
	}
}

// --- Card definition (static, shared read-only) ---

type Card struct {
	Name        string
	Description string
	Category    Category
	Cost        int
	Coins       int // money produced when a treasure is played
	VP          int // victory points at game end (negative for curses)
	Effect      CardEffect
}

func (c *Card) String() string {
	return c.Name
}

// DisplayString returns a one-line description for card listings.
func (c *Card) DisplayString() string {
	return fmt.Sprintf("%s ($%d, %s)", c.Name, c.Cost, c.Category)
}

func (c *Card) IsTreasure() bool { return c.Category == CategoryTreasure }
func (c *Card) IsAction() bool   { return c.Category == CategoryAction }
func (c *Card) IsVictory() bool  { return c.Category == CategoryVictory }

// Same reports whether two cards are the same card by name.
func (c *Card) Same(other *Card) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Name == other.Name
}

// Play applies the card's effect to the acting player. The engine calls it
// exactly once per play.
func (c *Card) Play(p *Player, g *Game) {
	switch c.Category {
	case CategoryTreasure:
		p.Money += c.Coins
	case CategoryAction:
		c.Effect.apply(p, g)
	}
}

// --- Constructors ---

// TreasureCard builds a treasure worth the given number of coins.
func TreasureCard(name string, cost, coins int) *Card {
	return &Card{
		Name:        name,
		Description: fmt.Sprintf("+$%d", coins),
		Category:    CategoryTreasure,
		Cost:        cost,
		Coins:       coins,
	}
}

// VictoryCard builds a victory card worth vp points.
func VictoryCard(name string, cost, vp int) *Card {
	return &Card{
		Name:        name,
		Description: fmt.Sprintf("%d VP", vp),
		Category:    CategoryVictory,
		Cost:        cost,
		VP:          vp,
	}
}

// CurseCard builds a curse worth vp points (normally negative).
func CurseCard(name string, cost, vp int) *Card {
	return &Card{
		Name:        name,
		Description: fmt.Sprintf("%d VP", vp),
		Category:    CategoryCurse,
		Cost:        cost,
		VP:          vp,
	}
}

// ActionCard builds an action card with the given effect.
func ActionCard(name string, cost int, eff CardEffect) *Card {
	return &Card{
		Name:        name,
		Description: eff.String(),
		Category:    CategoryAction,
		Cost:        cost,
		Effect:      eff,
	}
}
