package game

import (
	"fmt"
	"math/rand"
)

const (
	HandSize        = 5
	StartingActions = 1
	StartingBuys    = 1
)

// Player represents one player's entire state.
type Player struct {
	Name    string
	Deck    []*Card // top of deck is last element (pop from end)
	Hand    []*Card
	Discard []*Card
	InPlay  []*Card // played this turn, moved to Discard at cleanup

	Actions int
	Buys    int
	Money   int

	Reshuffles int

	rng *rand.Rand
}

// NewPlayer creates a player owning the given starting deck. rng drives
// reshuffles; a nil rng gets a fixed seed.
func NewPlayer(name string, deck []*Card, rng *rand.Rand) *Player {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	p := &Player{
		Name:    name,
		Deck:    append([]*Card(nil), deck...),
		Actions: StartingActions,
		Buys:    StartingBuys,
		rng:     rng,
	}
	return p
}

func (p *Player) String() string {
	return "Player: " + p.Name
}

// DeckCount returns the number of cards remaining in the deck.
func (p *Player) DeckCount() int {
	return len(p.Deck)
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// DrawCards moves up to n cards from the top of the deck into the hand,
// reshuffling the discard pile into the deck whenever the deck runs out.
// Returns the cards actually drawn, which is fewer than n only when both
// deck and discard are empty.
func (p *Player) DrawCards(n int) []*Card {
	var drawn []*Card
	for i := 0; i < n; i++ {
		if len(p.Deck) == 0 {
			p.reshuffle()
		}
		if len(p.Deck) == 0 {
			break
		}
		card := p.Deck[len(p.Deck)-1]
		p.Deck = p.Deck[:len(p.Deck)-1]
		p.Hand = append(p.Hand, card)
		drawn = append(drawn, card)
	}
	return drawn
}

// reshuffle moves the whole discard pile into the deck in random order.
func (p *Player) reshuffle() {
	if len(p.Discard) == 0 {
		return
	}
	p.Deck = append(p.Deck, p.Discard...)
	p.Discard = nil
	p.rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
	p.Reshuffles++
}

// ShuffleDeck randomizes the deck order.
func (p *Player) ShuffleDeck() {
	p.rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

// handIndex returns the position of the first card in hand with this name, or -1.
func (p *Player) handIndex(card *Card) int {
	if card == nil {
		return -1
	}
	for i, c := range p.Hand {
		if c.Name == card.Name {
			return i
		}
	}
	return -1
}

// InHand reports whether a card with this name is in hand.
func (p *Player) InHand(card *Card) bool {
	return p.handIndex(card) >= 0
}

// HandCard returns the card in hand with the same name as card, or nil.
func (p *Player) HandCard(card *Card) *Card {
	if i := p.handIndex(card); i >= 0 {
		return p.Hand[i]
	}
	return nil
}

// PlayCard moves a card from hand to the play area and applies its effect.
// Returns false, changing nothing, if no such card is in hand.
func (p *Player) PlayCard(card *Card, g *Game) bool {
	i := p.handIndex(card)
	if i < 0 {
		return false
	}
	played := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	p.InPlay = append(p.InPlay, played)
	played.Play(p, g)
	return true
}

// PlayAllTreasures plays every treasure in hand, in hand order.
func (p *Player) PlayAllTreasures(g *Game) []*Card {
	var treasures []*Card
	for _, c := range p.Hand {
		if c.IsTreasure() {
			treasures = append(treasures, c)
		}
	}
	for _, c := range treasures {
		p.PlayCard(c, g)
	}
	return treasures
}

// ActionCardsInHand returns the action cards currently in hand.
func (p *Player) ActionCardsInHand() []*Card {
	var result []*Card
	for _, c := range p.Hand {
		if c.IsAction() {
			result = append(result, c)
		}
	}
	return result
}

// CanBuy reports whether buying card is legal right now. Cards are matched
// by name; the price is the supply pile's.
func (p *Player) CanBuy(card *Card, supply *Supply) bool {
	if card == nil || p.Buys <= 0 || !supply.IsAvailable(card) {
		return false
	}
	return p.Money >= supply.Card(card.Name).Cost
}

// BuyCard buys a card from the supply into the discard pile. Returns false,
// changing nothing, if the buy is not legal.
func (p *Player) BuyCard(card *Card, supply *Supply) bool {
	if !p.CanBuy(card, supply) {
		return false
	}
	bought, err := supply.Remove(card)
	if err != nil {
		panic(fmt.Sprintf("supply underflow after availability check: %v", err))
	}
	p.Money -= bought.Cost
	p.Buys--
	p.Discard = append(p.Discard, bought)
	return true
}

// EndTurn discards hand and play area, draws a new hand and resets the
// per-turn counters. Returns the new hand.
func (p *Player) EndTurn() []*Card {
	p.Discard = append(p.Discard, p.Hand...)
	p.Discard = append(p.Discard, p.InPlay...)
	p.Hand = nil
	p.InPlay = nil
	drawn := p.DrawCards(HandSize)
	p.Actions = StartingActions
	p.Buys = StartingBuys
	p.Money = 0
	return drawn
}

// AllCards returns every card the player owns across all zones.
func (p *Player) AllCards() []*Card {
	all := make([]*Card, 0, p.CardCount())
	all = append(all, p.Deck...)
	all = append(all, p.Hand...)
	all = append(all, p.Discard...)
	all = append(all, p.InPlay...)
	return all
}

// CardCount returns the number of cards the player owns.
func (p *Player) CardCount() int {
	return len(p.Deck) + len(p.Hand) + len(p.Discard) + len(p.InPlay)
}

// CountCard returns how many cards with this name the player owns.
func (p *Player) CountCard(name string) int {
	n := 0
	for _, c := range p.AllCards() {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Score sums the victory points of every owned card.
func (p *Player) Score() int {
	total := 0
	for _, c := range p.AllCards() {
		total += c.VP
	}
	return total
}

// --- GameState ---

// Result is the outcome of a finished game.
type Result struct {
	Scores  []int
	Winners []int // player indices sharing the top score
	Tie     bool
	Reason  string
	Turns   int

	TurnLimit bool // stopped by the turn cap rather than the supply
}

// GameState holds the complete state of a game.
type GameState struct {
	Players       []*Player
	Supply        *Supply
	Turn          int // 1-based turn counter across all players
	CurrentPlayer int
	Phase         Phase

	Over   bool
	Result Result
}

// Current returns the player whose turn it is.
func (gs *GameState) Current() *Player {
	return gs.Players[gs.CurrentPlayer]
}

// PlayerIndex returns the seat of p, or -1.
func (gs *GameState) PlayerIndex(p *Player) int {
	for i, other := range gs.Players {
		if other == p {
			return i
		}
	}
	return -1
}
