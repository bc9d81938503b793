package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSetupYAML = `
players: [Alice, Bob, Carol]
policies: [big-money, smithy, random]
seed: 7
end_piles: [Province, Laboratory]
empty_pile_limit: 4
max_turns: 300
supply:
  - {name: Copper, count: 40}
  - {name: Province, count: 8}
  - {name: Laboratory, count: 10}
starting_deck:
  - {name: Copper, count: 7}
  - {name: Estate, count: 3}
`

func TestParseSetup(t *testing.T) {
	sf, err := ParseSetup([]byte(testSetupYAML))
	if err != nil {
		t.Fatal(err)
	}

	if len(sf.Players) != 3 || sf.Players[2] != "Carol" {
		t.Errorf("players = %v", sf.Players)
	}
	if sf.Seed != 7 || sf.EmptyPileLimit != 4 || sf.MaxTurns != 300 {
		t.Errorf("seed=%d limit=%d maxTurns=%d", sf.Seed, sf.EmptyPileLimit, sf.MaxTurns)
	}

	cfg, err := sf.GameConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Supply) != 3 || cfg.Supply[2].Card.Name != "Laboratory" || cfg.Supply[2].Count != 10 {
		t.Errorf("supply = %+v", cfg.Supply)
	}
	if len(cfg.StartingDeck) != 10 {
		t.Errorf("starting deck = %d cards, want 10", len(cfg.StartingDeck))
	}
	if len(cfg.EndPiles) != 2 {
		t.Errorf("end piles = %v", cfg.EndPiles)
	}

	policies := make([]Policy, len(cfg.Players))
	for i := range policies {
		policies[i] = NewScriptedPolicy(t, cfg.Players[i])
	}
	if _, err := NewGame(cfg, policies...); err != nil {
		t.Errorf("NewGame from parsed setup: %v", err)
	}
}

func TestParseSetupErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "players: [", "parse setup YAML"},
		{"no players", "supply: []", "no players"},
		{"policy count", "players: [A, B]\npolicies: [big-money]", "1 policies for 2 players"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSetup([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGameConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		sf      SetupFile
		wantErr string
	}{
		{
			name:    "unknown supply card",
			sf:      SetupFile{Players: []string{"A"}, Supply: []CardEntry{{Name: "Mountebank", Count: 10}}},
			wantErr: `unknown card "Mountebank"`,
		},
		{
			name:    "negative count",
			sf:      SetupFile{Players: []string{"A"}, Supply: []CardEntry{{Name: "Gold", Count: -1}}},
			wantErr: "negative count",
		},
		{
			name:    "unknown deck card",
			sf:      SetupFile{Players: []string{"A"}, StartingDeck: []CardEntry{{Name: "Platinum", Count: 1}}},
			wantErr: "starting deck",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sf.GameConfig()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.yaml")
	data, err := DefaultSetup().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	sf, err := ParseSetupFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sf.Supply) != 6 || sf.Supply[5].Name != "Province" || sf.Supply[5].Count != 12 {
		t.Errorf("supply = %+v", sf.Supply)
	}

	if _, err := ParseSetupFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWithKingdomCopies(t *testing.T) {
	base := DefaultSetup()
	withLab := base.WithKingdom("Laboratory", "Village")

	if len(base.Supply) != 6 {
		t.Errorf("base supply changed: %d piles", len(base.Supply))
	}
	if len(withLab.Supply) != 8 || withLab.Supply[6].Name != "Laboratory" || withLab.Supply[7].Count != 10 {
		t.Errorf("kingdom supply = %+v", withLab.Supply)
	}
}

func TestDefaultSetupBuildsGame(t *testing.T) {
	cfg, err := DefaultSetup().GameConfig()
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGame(cfg, NewScriptedPolicy(t, "Alice"), NewScriptedPolicy(t, "Bob"))
	if err != nil {
		t.Fatal(err)
	}
	g.Setup()

	for _, p := range g.State.Players {
		if p.CardCount() != 10 || p.CountCard("Estate") != 3 || p.HandCount() != HandSize {
			t.Errorf("%s: cards=%d estates=%d hand=%d", p.Name, p.CardCount(), p.CountCard("Estate"), p.HandCount())
		}
	}
}

func TestRegistry(t *testing.T) {
	if c, ok := FindCard("Council Room"); !ok || c.Cost != 5 {
		t.Errorf("FindCard(Council Room) = %v, %v", c, ok)
	}
	if _, ok := FindCard("Nope"); ok {
		t.Error("FindCard found an unknown card")
	}

	defer func() {
		if recover() == nil {
			t.Error("LookupCard should panic on unknown names")
		}
	}()

	kingdom := KingdomCards()
	if len(kingdom) != 8 || kingdom[0].Name != "Moat" {
		t.Errorf("KingdomCards() = %v", kingdom)
	}
	for i := 1; i < len(kingdom); i++ {
		if kingdom[i].Cost < kingdom[i-1].Cost {
			t.Errorf("KingdomCards not sorted by cost: %v", kingdom)
		}
	}

	LookupCard("Nope")
}
