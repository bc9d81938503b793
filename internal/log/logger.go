package log

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- ZapLogger: forwards events to a structured zap logger ---

// ZapLogger keeps events in memory and mirrors each one to zap at debug level.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	l.z.Debug(event.Details,
		zap.Int("seq", l.seq),
		zap.Int("turn", event.Turn),
		zap.String("phase", event.Phase),
		zap.Int("player", event.Player),
		zap.Stringer("type", event.Type),
		zap.String("card", event.Card),
	)
}

// --- Formatting ---

// playerName returns "P1", "P2", ... for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}

	return fmt.Sprintf("T%-3d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, player int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(turn int, player int, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s: %s) ===", turn, playerName(player), name),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", playerName(player), cardName),
	}
}

func NewShuffleEvent(turn int, phase string, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffles discard pile into deck", playerName(player)),
	}
}

func NewPlayActionEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayAction,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s", playerName(player), cardName),
	}
}

func NewPlayTreasureEvent(turn int, phase string, player int, cardName string, money int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayTreasure,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s ($%d)", playerName(player), cardName, money),
	}
}

func NewBuyEvent(turn int, phase string, player int, cardName string, cost int, left int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventBuy,
		Card:    cardName,
		Details: fmt.Sprintf("%s buys %s for $%d (%d left in supply)", playerName(player), cardName, cost, left),
	}
}

func NewBuyRefusedEvent(turn int, phase string, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventBuyRefused,
		Card:    cardName,
		Details: fmt.Sprintf("%s cannot buy %s (%s)", playerName(player), cardName, reason),
	}
}

func NewCleanupEvent(turn int, phase string, player int, handSize int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCleanup,
		Details: fmt.Sprintf("%s cleans up and draws %d cards", playerName(player), handSize),
	}
}

func NewPileEmptyEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPileEmpty,
		Card:    cardName,
		Details: fmt.Sprintf("The %s pile is empty", cardName),
	}
}

func NewGameOverEvent(turn int, reason string, scores []int) GameEvent {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%s=%d", playerName(i), s)
	}
	return GameEvent{
		Turn:    turn,
		Player:  -1,
		Type:    EventGameOver,
		Details: fmt.Sprintf("Game over (%s). Scores: %s", reason, strings.Join(parts, ", ")),
	}
}

func NewWinEvent(turn int, winner int, score int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins with %d VP!", playerName(winner), score),
	}
}

func NewTieEvent(turn int, winners []int, score int) GameEvent {
	names := make([]string, len(winners))
	for i, w := range winners {
		names[i] = playerName(w)
	}
	return GameEvent{
		Turn:    turn,
		Player:  -1,
		Type:    EventTie,
		Details: fmt.Sprintf("It's a tie between %s at %d VP", strings.Join(names, " and "), score),
	}
}
