package game

import (
	"errors"
	"fmt"
)

// ErrOutOfStock is returned when a card is removed from an empty pile.
var ErrOutOfStock = errors.New("supply pile is out of stock")

// Pile is one supply pile at setup time.
type Pile struct {
	Card  *Card
	Count int
}

type supplyPile struct {
	card  *Card
	count int
}

// Supply holds the finite stock of every purchasable card. Piles are never
// replenished.
type Supply struct {
	piles map[string]*supplyPile
	order []string // setup order, for stable listings
}

// NewSupply creates a supply from the given piles. Piles sharing a name are
// merged; negative counts are treated as zero.
func NewSupply(piles ...Pile) *Supply {
	s := &Supply{piles: make(map[string]*supplyPile)}
	for _, p := range piles {
		count := p.Count
		if count < 0 {
			count = 0
		}
		if existing, ok := s.piles[p.Card.Name]; ok {
			existing.count += count
			continue
		}
		s.piles[p.Card.Name] = &supplyPile{card: p.Card, count: count}
		s.order = append(s.order, p.Card.Name)
	}
	return s
}

// IsAvailable reports whether at least one copy of the card remains.
func (s *Supply) IsAvailable(card *Card) bool {
	if card == nil {
		return false
	}
	return s.Count(card.Name) > 0
}

// Remove takes one copy of the card out of its pile and returns the pile's
// card for the new owner.
func (s *Supply) Remove(card *Card) (*Card, error) {
	p, ok := s.piles[card.Name]
	if !ok || p.count == 0 {
		return nil, fmt.Errorf("remove %s: %w", card.Name, ErrOutOfStock)
	}
	p.count--
	return p.card, nil
}

// RemainingPiles returns a snapshot of pile counts by card name.
func (s *Supply) RemainingPiles() map[string]int {
	out := make(map[string]int, len(s.piles))
	for name, p := range s.piles {
		out[name] = p.count
	}
	return out
}

// Count returns the remaining count for a pile (0 for unknown piles).
func (s *Supply) Count(name string) int {
	if p, ok := s.piles[name]; ok {
		return p.count
	}
	return 0
}

// Has reports whether the supply contains a pile with this name, empty or not.
func (s *Supply) Has(name string) bool {
	_, ok := s.piles[name]
	return ok
}

// Card returns the card for a pile, or nil if there is no such pile.
func (s *Supply) Card(name string) *Card {
	if p, ok := s.piles[name]; ok {
		return p.card
	}
	return nil
}

// Names returns pile names in setup order.
func (s *Supply) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Cards returns the cards of all non-empty piles in setup order.
func (s *Supply) Cards() []*Card {
	var out []*Card
	for _, name := range s.order {
		if p := s.piles[name]; p.count > 0 {
			out = append(out, p.card)
		}
	}
	return out
}

// EmptyPiles returns the number of piles that have run out.
func (s *Supply) EmptyPiles() int {
	n := 0
	for _, p := range s.piles {
		if p.count == 0 {
			n++
		}
	}
	return n
}
