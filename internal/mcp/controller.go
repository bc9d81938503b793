package mcp

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
)

// MCPPolicy implements game.Policy by sending decisions to the MCP
// session's pending channel and blocking on a response channel.
type MCPPolicy struct {
	seat       int
	session    *GameSession
	responseCh chan any
}

// NewMCPPolicy creates a policy for the given seat.
func NewMCPPolicy(seat int, session *GameSession) *MCPPolicy {
	return &MCPPolicy{
		seat:       seat,
		session:    session,
		responseCh: make(chan any),
	}
}

// ChooseActionCard implements game.Policy. Hands without action cards are
// answered without asking the agent.
func (c *MCPPolicy) ChooseActionCard(ctx context.Context, state *game.GameState, hand []*game.Card, actions int) (*game.Card, error) {
	options := uniqueByName(hand, func(card *game.Card) bool { return card.IsAction() })
	if len(options) == 0 {
		return nil, nil
	}

	p := state.Current()
	resp, err := c.ask(ctx, &PendingDecision{
		Type:    DecisionChooseAction,
		Player:  c.seat,
		State:   BuildStateView(state, c.seat),
		Options: buildCardViews(options),
		Actions: actions,
		Buys:    p.Buys,
		Money:   p.Money,
	})
	if err != nil {
		return nil, err
	}

	ar := resp.(ActionResponse)
	if ar.Index < 0 || ar.Index >= len(options) {
		return nil, nil
	}
	return options[ar.Index], nil
}

// ChooseBuy implements game.Policy. Only affordable, in-stock cards are
// offered; with none available the phase ends without asking.
func (c *MCPPolicy) ChooseBuy(ctx context.Context, state *game.GameState, money, buys int, supply *game.Supply) (*game.Card, error) {
	options := uniqueByName(supply.Cards(), func(card *game.Card) bool { return card.Cost <= money })
	if len(options) == 0 {
		return nil, nil
	}

	resp, err := c.ask(ctx, &PendingDecision{
		Type:    DecisionChooseBuy,
		Player:  c.seat,
		State:   BuildStateView(state, c.seat),
		Options: buildCardViews(options),
		Actions: state.Current().Actions,
		Buys:    buys,
		Money:   money,
	})
	if err != nil {
		return nil, err
	}

	br := resp.(BuyResponse)
	if br.Name == "" {
		return nil, nil
	}
	for _, card := range options {
		if card.Name == br.Name {
			return card, nil
		}
	}
	return nil, nil
}

// Notify implements game.Policy. Other seats' draws are reported without
// the card.
func (c *MCPPolicy) Notify(ctx context.Context, event log.GameEvent) error {
	if event.Type == log.EventDraw && event.Player != c.seat {
		event.Card = ""
		event.Details = fmt.Sprintf("P%d draws a card", event.Player+1)
	}
	c.session.appendEvent(buildEventView(event))
	return nil
}

// ask publishes a decision and waits for the agent's answer.
func (c *MCPPolicy) ask(ctx context.Context, pending *PendingDecision) (any, error) {
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// uniqueByName filters cards and keeps the first card of each name.
func uniqueByName(cards []*game.Card, keep func(*game.Card) bool) []*game.Card {
	seen := make(map[string]bool)
	var out []*game.Card
	for _, card := range cards {
		if !keep(card) || seen[card.Name] {
			continue
		}
		seen[card.Name] = true
		out = append(out, card)
	}
	return out
}
