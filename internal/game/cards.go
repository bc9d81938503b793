package game

// --- Base treasures ---

// Copper: $0 Treasure. +$1.
func Copper() *Card { return TreasureCard("Copper", 0, 1) }

// Silver: $3 Treasure. +$2.
func Silver() *Card { return TreasureCard("Silver", 3, 2) }

// Gold: $6 Treasure. +$3.
func Gold() *Card { return TreasureCard("Gold", 6, 3) }

// --- Base victory cards ---

// Estate: $2 Victory. 1 VP.
func Estate() *Card { return VictoryCard("Estate", 2, 1) }

// Duchy: $5 Victory. 3 VP.
func Duchy() *Card { return VictoryCard("Duchy", 5, 3) }

// Province: $8 Victory. 6 VP.
func Province() *Card { return VictoryCard("Province", 8, 6) }

// Curse: $0 Curse. -1 VP.
func Curse() *Card { return CurseCard("Curse", 0, -1) }

// --- Kingdom actions ---

// Village: $3 Action. +1 Card, +2 Actions.
func Village() *Card {
	return ActionCard("Village", 3, CardEffect{Bonus: Bonus{Cards: 1, Actions: 2}})
}

// Woodcutter: $3 Action. +1 Buy, +$2.
func Woodcutter() *Card {
	return ActionCard("Woodcutter", 3, CardEffect{Bonus: Bonus{Buys: 1, Coins: 2}})
}

// Moat: $2 Action. +2 Cards.
func Moat() *Card {
	return ActionCard("Moat", 2, CardEffect{Bonus: Bonus{Cards: 2}})
}

// Smithy: $4 Action. +3 Cards.
func Smithy() *Card {
	return ActionCard("Smithy", 4, CardEffect{Bonus: Bonus{Cards: 3}})
}

// Festival: $5 Action. +2 Actions, +1 Buy, +$2.
func Festival() *Card {
	return ActionCard("Festival", 5, CardEffect{Bonus: Bonus{Actions: 2, Buys: 1, Coins: 2}})
}

// Laboratory: $5 Action. +2 Cards, +1 Action.
func Laboratory() *Card {
	return ActionCard("Laboratory", 5, CardEffect{Bonus: Bonus{Cards: 2, Actions: 1}})
}

// Market: $5 Action. +1 Card, +1 Action, +1 Buy, +$1.
func Market() *Card {
	return ActionCard("Market", 5, CardEffect{Bonus: Bonus{Cards: 1, Actions: 1, Buys: 1, Coins: 1}})
}

// CouncilRoom: $5 Action. +4 Cards, +1 Buy. Each other player draws a card.
func CouncilRoom() *Card {
	return ActionCard("Council Room", 5, CardEffect{
		Bonus: Bonus{Cards: 4, Buys: 1},
		Text:  "+4 Cards, +1 Buy. Each other player draws a card.",
		Resolve: func(g *Game, p *Player) {
			for _, other := range g.State.Players {
				if other == p {
					continue
				}
				g.drawCards(other, 1)
			}
		},
	})
}
