package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventDraw
	EventShuffle
	EventPlayAction
	EventPlayTreasure
	EventBuy
	EventBuyRefused
	EventCleanup
	EventPileEmpty
	EventGameOver
	EventWin
	EventTie
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventShuffle:
		return "Shuffle"
	case EventPlayAction:
		return "PlayAction"
	case EventPlayTreasure:
		return "PlayTreasure"
	case EventBuy:
		return "Buy"
	case EventBuyRefused:
		return "BuyRefused"
	case EventCleanup:
		return "Cleanup"
	case EventPileEmpty:
		return "PileEmpty"
	case EventGameOver:
		return "GameOver"
	case EventWin:
		return "Win"
	case EventTie:
		return "Tie"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // current phase name (e.g. "Buy Phase")
	Player  int       // acting player index
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
