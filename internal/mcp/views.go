package mcp

import (
	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
)

// EventView is a simplified game event for the agent.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// CardView describes a card option.
type CardView struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Category string `json:"category"`
	Text     string `json:"text,omitempty"`
}

// PileView describes one supply pile.
type PileView struct {
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// PlayerView shows one player's side of the table.
type PlayerView struct {
	Name         string   `json:"name"`
	Seat         int      `json:"seat"`
	HandCount    int      `json:"hand_count"`
	Hand         []string `json:"hand,omitempty"` // card names (only for "you")
	InPlay       []string `json:"in_play,omitempty"`
	DeckCount    int      `json:"deck_count"`
	DiscardCount int      `json:"discard_count"`
	Actions      int      `json:"actions"`
	Buys         int      `json:"buys"`
	Money        int      `json:"money"`
	Score        int      `json:"score"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView   `json:"you"`
	Opponents  []PlayerView `json:"opponents"`
	Supply     []PileView   `json:"supply"`
	Turn       int          `json:"turn"`
	Phase      string       `json:"phase"`
	IsYourTurn bool         `json:"is_your_turn"`
}

// BuildStateView creates a StateView from the perspective of the given seat.
func BuildStateView(state *game.GameState, seat int) *StateView {
	sv := &StateView{
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.CurrentPlayer == seat,
	}
	for i, p := range state.Players {
		pv := buildPlayerView(p, i, i == seat)
		if i == seat {
			sv.You = pv
		} else {
			sv.Opponents = append(sv.Opponents, pv)
		}
	}
	for _, name := range state.Supply.Names() {
		c := state.Supply.Card(name)
		sv.Supply = append(sv.Supply, PileView{
			Name:     c.Name,
			Cost:     c.Cost,
			Category: c.Category.String(),
			Count:    state.Supply.Count(name),
		})
	}
	return sv
}

func buildPlayerView(p *game.Player, seat int, isOwner bool) PlayerView {
	pv := PlayerView{
		Name:         p.Name,
		Seat:         seat,
		HandCount:    p.HandCount(),
		DeckCount:    p.DeckCount(),
		DiscardCount: len(p.Discard),
		Actions:      p.Actions,
		Buys:         p.Buys,
		Money:        p.Money,
		Score:        p.Score(),
	}
	// Hand names visible to the owner only
	if isOwner {
		pv.Hand = cardNames(p.Hand)
	}
	pv.InPlay = cardNames(p.InPlay)
	return pv
}

func buildCardViews(cards []*game.Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = CardView{
			Index:    i,
			Name:     c.Name,
			Cost:     c.Cost,
			Category: c.Category.String(),
			Text:     c.Description,
		}
	}
	return views
}

func buildEventView(e log.GameEvent) EventView {
	return EventView{
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

func cardNames(cards []*game.Card) []string {
	var names []string
	for _, c := range cards {
		names = append(names, c.Name)
	}
	return names
}
