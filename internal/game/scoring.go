package game

// Scores returns every player's current victory point total, in seat order.
func (g *Game) Scores() []int {
	scores := make([]int, len(g.State.Players))
	for i, p := range g.State.Players {
		scores[i] = p.Score()
	}
	return scores
}

// DeclareWinner scores every player and returns the seats sharing the
// highest score. More than one winner is a tie.
func (g *Game) DeclareWinner() Result {
	scores := g.Scores()
	best := scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
	}
	var winners []int
	for i, s := range scores {
		if s == best {
			winners = append(winners, i)
		}
	}
	return Result{
		Scores:  scores,
		Winners: winners,
		Tie:     len(winners) > 1,
		Turns:   g.State.Turn,
	}
}
