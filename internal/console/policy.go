// Package console provides an interactive game.Policy that prompts a human
// on a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
)

// Policy asks a human for every decision of one seat and narrates all game
// events.
type Policy struct {
	seat int
	in   *bufio.Reader
	out  io.Writer
}

// NewPolicy creates a console policy for the given seat.
func NewPolicy(seat int, in io.Reader, out io.Writer) *Policy {
	return &Policy{seat: seat, in: bufio.NewReader(in), out: out}
}

// ChooseActionCard implements game.Policy. Hands without action cards are
// skipped without a prompt.
func (c *Policy) ChooseActionCard(ctx context.Context, state *game.GameState, hand []*game.Card, actions int) (*game.Card, error) {
	options := distinct(hand, func(card *game.Card) bool { return card.IsAction() })
	if len(options) == 0 {
		return nil, nil
	}

	c.renderState(state)
	fmt.Fprintf(c.out, "\nPlay an action (%d left):\n", actions)
	c.renderOptions("End Action Phase", options)
	return c.choose(ctx, options)
}

// ChooseBuy implements game.Policy.
func (c *Policy) ChooseBuy(ctx context.Context, state *game.GameState, money, buys int, supply *game.Supply) (*game.Card, error) {
	options := distinct(supply.Cards(), func(card *game.Card) bool { return card.Cost <= money })
	if len(options) == 0 {
		return nil, nil
	}

	c.renderState(state)
	fmt.Fprintf(c.out, "\nBuy a card ($%d, %d buy%s left):\n", money, buys, plural(buys))
	c.renderOptions("End Buy Phase", options)
	return c.choose(ctx, options)
}

// Notify implements game.Policy.
func (c *Policy) Notify(ctx context.Context, event log.GameEvent) error {
	_, err := fmt.Fprintln(c.out, log.FormatEvent(event))
	return err
}

func (c *Policy) renderState(gs *game.GameState) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")

	for i, p := range gs.Players {
		if i == c.seat {
			continue
		}
		fmt.Fprintf(c.out, "║  %s  Hand: %d  Deck: %d  Discard: %d  VP: %d\n",
			p.Name, p.HandCount(), p.DeckCount(), len(p.Discard), p.Score())
	}

	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")

	var piles []string
	for _, name := range gs.Supply.Names() {
		piles = append(piles, fmt.Sprintf("%s:%d", name, gs.Supply.Count(name)))
	}
	fmt.Fprintf(c.out, "║  Supply: %s\n", strings.Join(piles, " "))

	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")

	you := gs.Players[c.seat]
	if len(you.InPlay) > 0 {
		fmt.Fprintf(c.out, "║  In play: %s\n", joinNames(you.InPlay))
	}
	fmt.Fprintf(c.out, "║  YOU  $%d  Actions: %d  Buys: %d  Deck: %d  Discard: %d  VP: %d\n",
		you.Money, you.Actions, you.Buys, you.DeckCount(), len(you.Discard), you.Score())
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	fmt.Fprintf(c.out, "Turn %d | %s\n", gs.Turn, gs.Phase)
	if len(you.Hand) > 0 {
		fmt.Fprintf(c.out, "Hand: %s\n", joinNames(you.Hand))
	}
}

func (c *Policy) renderOptions(done string, options []*game.Card) {
	fmt.Fprintf(c.out, "  0) %s\n", done)
	for i, card := range options {
		fmt.Fprintf(c.out, "  %d) %s: %s\n", i+1, card.DisplayString(), card.Description)
	}
}

// choose reads a menu choice; 0 declines.
func (c *Policy) choose(ctx context.Context, options []*game.Card) (*game.Card, error) {
	n, err := c.readChoice(ctx, len(options))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return options[n-1], nil
}

func (c *Policy) readChoice(ctx context.Context, count int) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return 0, fmt.Errorf("read choice: %w", err)
		}
		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 0 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 0 and %d\n", count)
			if err != nil {
				return 0, fmt.Errorf("read choice: %w", err)
			}
			continue
		}
		return n, nil
	}
}

// distinct keeps the first card of each name that passes keep.
func distinct(cards []*game.Card, keep func(*game.Card) bool) []*game.Card {
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

func joinNames(cards []*game.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
