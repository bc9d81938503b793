package game

import (
	"fmt"
	"sort"
)

// CardRegistry maps card names to their constructor functions.
var CardRegistry = map[string]func() *Card{
	"Copper":       Copper,
	"Silver":       Silver,
	"Gold":         Gold,
	"Estate":       Estate,
	"Duchy":        Duchy,
	"Province":     Province,
	"Curse":        Curse,
	"Village":      Village,
	"Woodcutter":   Woodcutter,
	"Moat":         Moat,
	"Smithy":       Smithy,
	"Festival":     Festival,
	"Laboratory":   Laboratory,
	"Market":       Market,
	"Council Room": CouncilRoom,
}

// LookupCard looks up a card by name and returns a new instance.
// Panics if the card is not found.
func LookupCard(name string) *Card {
	ctor, ok := CardRegistry[name]
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", name))
	}
	return ctor()
}

// FindCard is LookupCard without the panic.
func FindCard(name string) (*Card, bool) {
	ctor, ok := CardRegistry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// KingdomCards returns every registered action card, sorted by cost then name.
func KingdomCards() []*Card {
	var cards []*Card
	for _, ctor := range CardRegistry {
		if c := ctor(); c.IsAction() {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Cost != cards[j].Cost {
			return cards[i].Cost < cards[j].Cost
		}
		return cards[i].Name < cards[j].Name
	})
	return cards
}
