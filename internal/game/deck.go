package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SetupFile represents the top-level YAML structure of a game setup.
type SetupFile struct {
	Players        []string    `yaml:"players"`
	Policies       []string    `yaml:"policies,omitempty"`
	Seed           int64       `yaml:"seed,omitempty"`
	EndPiles       []string    `yaml:"end_piles,omitempty"`
	EmptyPileLimit int         `yaml:"empty_pile_limit,omitempty"`
	MaxTurns       int         `yaml:"max_turns,omitempty"`
	Supply         []CardEntry `yaml:"supply"`
	StartingDeck   []CardEntry `yaml:"starting_deck"`
}

// CardEntry represents a card and its count in a pile or deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// ParseSetupFile reads and parses a YAML setup file.
func ParseSetupFile(path string) (*SetupFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSetup(data)
}

// ParseSetup parses a YAML setup document.
func ParseSetup(data []byte) (*SetupFile, error) {
	var sf SetupFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse setup YAML: %w", err)
	}
	if len(sf.Players) == 0 {
		return nil, errors.New("setup has no players")
	}
	if len(sf.Policies) > 0 && len(sf.Policies) != len(sf.Players) {
		return nil, fmt.Errorf("setup has %d policies for %d players", len(sf.Policies), len(sf.Players))
	}
	return &sf, nil
}

// Marshal encodes the setup back to YAML.
func (sf *SetupFile) Marshal() ([]byte, error) {
	return yaml.Marshal(sf)
}

// GameConfig resolves card names and returns a config ready for NewGame.
// Logger and NoShuffle are left for the caller.
func (sf *SetupFile) GameConfig() (GameConfig, error) {
	cfg := GameConfig{
		Players:        append([]string(nil), sf.Players...),
		EndPiles:       append([]string(nil), sf.EndPiles...),
		EmptyPileLimit: sf.EmptyPileLimit,
		Seed:           sf.Seed,
		MaxTurns:       sf.MaxTurns,
	}

	for _, entry := range sf.Supply {
		card, ok := FindCard(entry.Name)
		if !ok {
			return GameConfig{}, fmt.Errorf("supply: unknown card %q", entry.Name)
		}
		if entry.Count < 0 {
			return GameConfig{}, fmt.Errorf("supply: negative count %d for %s", entry.Count, entry.Name)
		}
		cfg.Supply = append(cfg.Supply, Pile{Card: card, Count: entry.Count})
	}

	deck, err := expandEntries(sf.StartingDeck)
	if err != nil {
		return GameConfig{}, fmt.Errorf("starting deck: %w", err)
	}
	cfg.StartingDeck = deck

	return cfg, nil
}

// expandEntries turns name/count entries into a card slice.
func expandEntries(entries []CardEntry) ([]*Card, error) {
	var cards []*Card
	for _, entry := range entries {
		card, ok := FindCard(entry.Name)
		if !ok {
			return nil, fmt.Errorf("unknown card %q", entry.Name)
		}
		for i := 0; i < entry.Count; i++ {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// DefaultSetup returns the standard two-player setup: base treasure and
// victory piles, and 7 Copper + 3 Estate starting decks.
func DefaultSetup() *SetupFile {
	return &SetupFile{
		Players:        []string{"Alice", "Bob"},
		Policies:       []string{"big-money", "big-money"},
		EndPiles:       []string{"Province"},
		EmptyPileLimit: DefaultEmptyPileLimit,
		Supply: []CardEntry{
			{Name: "Copper", Count: 60},
			{Name: "Silver", Count: 40},
			{Name: "Gold", Count: 30},
			{Name: "Estate", Count: 24},
			{Name: "Duchy", Count: 12},
			{Name: "Province", Count: 12},
		},
		StartingDeck: []CardEntry{
			{Name: "Copper", Count: 7},
			{Name: "Estate", Count: 3},
		},
	}
}

// WithKingdom returns a copy of the setup with 10-card piles of the named
// kingdom cards appended to the supply.
func (sf *SetupFile) WithKingdom(names ...string) *SetupFile {
	out := *sf
	out.Supply = append([]CardEntry(nil), sf.Supply...)
	for _, name := range names {
		out.Supply = append(out.Supply, CardEntry{Name: name, Count: 10})
	}
	return &out
}
