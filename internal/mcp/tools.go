package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/deckx/internal/bot"
	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/sim"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *GameSession

// baseSetup is the setup every game starts from, set by main.
var baseSetup = game.DefaultSetup()

// logger receives operational logs, set by main.
var logger = zap.NewNop()

// SetSetup sets the base game setup.
func SetSetup(sf *game.SetupFile) {
	baseSetup = sf
}

// SetLogger sets the operational logger.
func SetLogger(z *zap.Logger) {
	logger = z
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(playActionTool(), handlePlayAction)
	s.AddTool(buyCardTool(), handleBuyCard)
	s.AddTool(getGameStateTool(), handleGetGameState)
	s.AddTool(endGameTool(), handleEndGame)
	s.AddTool(simulateTool(), handleSimulate)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new deck-building game against bot opponents. Returns the initial state and the first pending decision. "+
			"Bots available: "+strings.Join(bot.Names(), ", ")+"."),
		mcp.WithNumber("seat", mcp.Description("Which seat you play (0 = goes first). Default 0.")),
		mcp.WithString("opponent", mcp.Description("Bot policy for every other seat. Default: the setup's policies.")),
		mcp.WithString("kingdom", mcp.Description("Comma-separated kingdom cards to add to the supply (10 each), e.g. 'Village,Smithy'.")),
		mcp.WithNumber("seed", mcp.Description("RNG seed for a reproducible game. 0 = random.")),
	)
}

func playActionTool() mcp.Tool {
	return mcp.NewTool("play_action",
		mcp.WithDescription("Play an action card. Use this when the pending decision type is 'choose_action'. Pass -1 to end the Action Phase."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the pending options, or -1 to stop playing actions")),
	)
}

func buyCardTool() mcp.Tool {
	return mcp.NewTool("buy_card",
		mcp.WithDescription("Buy a card. Use this when the pending decision type is 'choose_buy'. Pass an empty name to end the Buy Phase."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Card name from the pending options, or empty to stop buying")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func endGameTool() mcp.Tool {
	return mcp.NewTool("end_game",
		mcp.WithDescription("Abandon the running game so a new one can be started. Returns the final state and any unread events."),
	)
}

func simulateTool() mcp.Tool {
	return mcp.NewTool("simulate",
		mcp.WithDescription("Run many bot-vs-bot games and report win rates, average scores and average game length."),
		mcp.WithString("policies", mcp.Required(), mcp.Description("Comma-separated bot policy per seat, e.g. 'big-money,smithy'")),
		mcp.WithNumber("games", mcp.Description("Number of games to run (1-10000). Default 100.")),
		mcp.WithString("kingdom", mcp.Description("Comma-separated kingdom cards to add to the supply")),
		mcp.WithNumber("seed", mcp.Description("Base RNG seed. 0 = random.")),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	seat := request.GetInt("seat", 0)
	opponent := strings.TrimSpace(request.GetString("opponent", ""))
	kingdom := splitList(request.GetString("kingdom", ""))
	seed := int64(request.GetInt("seed", 0))

	if seat < 0 || seat >= len(baseSetup.Players) {
		return mcp.NewToolResultErrorf("seat must be 0-%d", len(baseSetup.Players)-1), nil
	}

	setup := baseSetup.WithKingdom(kingdom...)
	setup.Seed = seed
	if opponent != "" {
		if _, err := bot.ByName(opponent, 0); err != nil {
			return mcp.NewToolResultErrorf("%v", err), nil
		}
		setup.Policies = make([]string, len(setup.Players))
		for i := range setup.Policies {
			setup.Policies[i] = opponent
		}
	}

	sess, err := NewGameSession(setup, seat, logger)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	activeSession = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		endSession(sess)
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	if resp.GameOver {
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handlePlayAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := pendingSession(DecisionChooseAction)
	if errResult != nil {
		return errResult, nil
	}

	index := request.GetInt("index", -1)
	if index < -1 || index >= len(sess.currentPending.Options) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be -1 to %d.", index, len(sess.currentPending.Options)-1), nil
	}

	if err := sess.respond(ctx, ActionResponse{Index: index}); err != nil {
		endSession(sess)
		return mcp.NewToolResultErrorf("Error sending action: %v", err), nil
	}
	return advance(ctx, sess)
}

func handleBuyCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := pendingSession(DecisionChooseBuy)
	if errResult != nil {
		return errResult, nil
	}

	name := strings.TrimSpace(request.GetString("name", ""))
	if name != "" {
		found := false
		for _, opt := range sess.currentPending.Options {
			if strings.EqualFold(opt.Name, name) {
				name = opt.Name
				found = true
				break
			}
		}
		if !found {
			return mcp.NewToolResultErrorf("%q is not one of the pending options.", name), nil
		}
	}

	if err := sess.respond(ctx, BuyResponse{Name: name}); err != nil {
		endSession(sess)
		return mcp.NewToolResultErrorf("Error sending buy: %v", err), nil
	}
	return advance(ctx, sess)
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.snapshot())), nil
}

func handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No game is running."), nil
	}
	endSession(sess)
	return mcp.NewToolResultText(respondJSON(sess.snapshot())), nil
}

func handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	policies := splitList(request.GetString("policies", ""))
	if len(policies) < 1 {
		return mcp.NewToolResultError("policies must name at least one bot"), nil
	}
	games := request.GetInt("games", 100)
	if games < 1 || games > 10000 {
		return mcp.NewToolResultErrorf("games must be 1-10000, got %d", games), nil
	}

	setup := baseSetup.WithKingdom(splitList(request.GetString("kingdom", ""))...)
	setup.Policies = policies
	setup.Players = append([]string(nil), policies...)

	runner := &sim.Runner{
		Setup:    setup,
		Games:    games,
		BaseSeed: int64(request.GetInt("seed", 0)),
		Logger:   logger,
	}
	sum, err := runner.Run(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Simulation failed: %v", err), nil
	}

	return mcp.NewToolResultText(respondJSON(buildSimulationView(sum))), nil
}

// --- Helpers ---

// pendingSession returns the active session if it is waiting on the given decision.
func pendingSession(want DecisionType) (*GameSession, *mcp.CallToolResult) {
	if activeSession == nil {
		return nil, mcp.NewToolResultError("No game is running. Use start_game first.")
	}
	sess := activeSession
	pending := sess.currentPending
	if pending == nil || pending.Type == DecisionGameOver {
		return nil, mcp.NewToolResultError("No pending decision.")
	}
	if pending.Type != want {
		return nil, mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pending.Type, want)
	}
	return sess, nil
}

// advance waits for the engine's next decision after a response was sent.
func advance(ctx context.Context, sess *GameSession) (*mcp.CallToolResult, error) {
	resp, err := sess.waitForPending(ctx)
	if err != nil {
		endSession(sess)
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// endSession stops a session's game and releases it.
func endSession(sess *GameSession) {
	sess.Close()
	if activeSession == sess {
		activeSession = nil
	}
}

// SimulationView is the JSON shape of a simulation summary.
type SimulationView struct {
	Games      int            `json:"games"`
	AvgTurns   float64        `json:"avg_turns"`
	TurnLimits int            `json:"turn_limits"`
	Seats      []SeatStatView `json:"seats"`
}

// SeatStatView is one seat's simulation statistics.
type SeatStatView struct {
	Seat     int     `json:"seat"`
	Policy   string  `json:"policy"`
	Wins     int     `json:"wins"`
	Ties     int     `json:"ties"`
	WinRate  float64 `json:"win_rate"`
	AvgScore float64 `json:"avg_score"`
}

func buildSimulationView(sum *sim.Summary) *SimulationView {
	v := &SimulationView{
		Games:      sum.Games,
		AvgTurns:   sum.AvgTurns,
		TurnLimits: sum.TurnLimits,
	}
	for i, policy := range sum.Policies {
		v.Seats = append(v.Seats, SeatStatView{
			Seat:     i,
			Policy:   policy,
			Wins:     sum.Wins[i],
			Ties:     sum.Ties[i],
			WinRate:  sum.WinRate(i),
			AvgScore: sum.AvgScores[i],
		})
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
