package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/deckx/internal/bot"
	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseBuy    DecisionType = "choose_buy"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type    DecisionType `json:"type"`
	Player  int          `json:"player"`
	State   *StateView   `json:"state"`
	Options []CardView   `json:"options,omitempty"`
	Actions int          `json:"actions"`
	Buys    int          `json:"buys"`
	Money   int          `json:"money"`
}

// Response types sent back from MCP tools to the policy.

type ActionResponse struct {
	Index int // -1 ends the Action Phase
}

type BuyResponse struct {
	Name string // empty ends the Buy Phase
}

// ToolResponse is the JSON envelope returned by the game tools.
type ToolResponse struct {
	Events   []EventView      `json:"events"`
	State    *StateView       `json:"state,omitempty"`
	Pending  *PendingDecision `json:"pending,omitempty"`
	GameOver bool             `json:"game_over"`
	Scores   []int            `json:"scores,omitempty"`
	Winners  []int            `json:"winners,omitempty"`
	Result   string           `json:"result,omitempty"`
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	game      *game.Game
	agent     *MCPPolicy
	agentSeat int
	cancel    context.CancelFunc
	logger    *zap.Logger

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision
	done           chan struct{} // closed when the game goroutine exits

	mu       sync.Mutex
	events   []EventView
	gameOver bool
	result   game.Result
	errText  string
}

// NewGameSession creates a session where the agent plays agentSeat and every
// other seat is played by the bot named in the setup's policy list. The game
// starts immediately in its own goroutine.
func NewGameSession(setup *game.SetupFile, agentSeat int, logger *zap.Logger) (*GameSession, error) {
	if agentSeat < 0 || agentSeat >= len(setup.Players) {
		return nil, fmt.Errorf("seat %d out of range (0-%d)", agentSeat, len(setup.Players)-1)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := setup.GameConfig()
	if err != nil {
		return nil, fmt.Errorf("load setup: %w", err)
	}
	cfg.Logger = log.NewZapLogger(logger)

	sess := &GameSession{
		agentSeat: agentSeat,
		logger:    logger,
		pendingCh: make(chan *PendingDecision, 1),
		done:      make(chan struct{}),
	}
	sess.agent = NewMCPPolicy(agentSeat, sess)

	policies := make([]game.Policy, len(setup.Players))
	for i := range setup.Players {
		if i == agentSeat {
			policies[i] = sess.agent
			continue
		}
		name := "big-money"
		if i < len(setup.Policies) {
			name = setup.Policies[i]
		}
		p, err := bot.ByName(name, setup.Seed+int64(i)+1)
		if err != nil {
			return nil, err
		}
		policies[i] = p
	}

	g, err := game.NewGame(cfg, policies...)
	if err != nil {
		return nil, err
	}
	sess.game = g

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	// Start the game in a goroutine
	go func() {
		defer close(sess.done)
		res, err := g.Run(ctx)

		sess.mu.Lock()
		sess.gameOver = true
		sess.result = res
		if errors.Is(err, context.Canceled) {
			sess.errText = "game abandoned"
		} else if err != nil {
			sess.errText = fmt.Sprintf("error: %v", err)
		}
		sess.mu.Unlock()

		if err != nil {
			logger.Warn("game aborted", zap.Error(err))
		} else {
			logger.Info("game finished", zap.Ints("scores", res.Scores), zap.Ints("winners", res.Winners), zap.String("reason", res.Reason))
		}

		// Replace any decision nobody collected, then notify the agent.
		select {
		case <-sess.pendingCh:
		default:
		}
		sess.pendingCh <- &PendingDecision{
			Type:   DecisionGameOver,
			Player: agentSeat,
			State:  BuildStateView(g.State, agentSeat),
		}
	}()

	return sess, nil
}

// Close stops the game goroutine if it is still waiting on the agent and
// waits for it to exit.
func (s *GameSession) Close() {
	s.cancel()
	<-s.done
}

// respond hands the agent's answer to the waiting policy.
func (s *GameSession) respond(ctx context.Context, resp any) error {
	select {
	case s.agent.responseCh <- resp:
		return nil
	case <-s.done:
		return errors.New("game has ended")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending

	resp := &ToolResponse{
		Events: s.drainEvents(),
		State:  pending.State,
	}

	if pending.Type == DecisionGameOver {
		s.fillResult(resp)
		return resp, nil
	}

	resp.Pending = pending
	return resp, nil
}

// snapshot returns the last known state without waiting.
func (s *GameSession) snapshot() *ToolResponse {
	resp := &ToolResponse{Events: s.drainEvents()}
	if s.currentPending != nil {
		resp.State = s.currentPending.State
		if s.currentPending.Type != DecisionGameOver {
			resp.Pending = s.currentPending
		}
	}
	s.fillResult(resp)
	if resp.GameOver {
		resp.Pending = nil
	}
	return resp
}

func (s *GameSession) fillResult(resp *ToolResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gameOver {
		return
	}
	resp.GameOver = true
	resp.Scores = s.result.Scores
	resp.Winners = s.result.Winners
	resp.Result = s.result.Reason
	if s.errText != "" {
		resp.Result = s.errText
	}
}

// respondJSON marshals a response to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
