package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/deckx/internal/game"
	"github.com/peterkuimelis/deckx/internal/log"
)

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func callTool(t *testing.T, h toolHandler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	return callToolCtx(t, context.Background(), h, args)
}

func callToolCtx(t *testing.T, ctx context.Context, h toolHandler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func decodeResponse(t *testing.T, res *mcp.CallToolResult) *ToolResponse {
	t.Helper()
	require.False(t, res.IsError, resultText(t, res))
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))
	return &resp
}

// resetSession makes sure no game leaks between tests.
func resetSession(t *testing.T) {
	t.Helper()
	SetLogger(zaptest.NewLogger(t))
	SetSetup(game.DefaultSetup())
	t.Cleanup(func() {
		if activeSession != nil {
			endSession(activeSession)
		}
	})
}

// pickBuy buys the most expensive of Province, Gold, Silver on offer.
func pickBuy(options []CardView) string {
	for _, want := range []string{"Province", "Gold", "Silver"} {
		for _, o := range options {
			if o.Name == want {
				return want
			}
		}
	}
	return ""
}

func TestRegisterTools(t *testing.T) {
	s := server.NewMCPServer("deckx-test", "0.0.0")
	RegisterTools(s)
}

func TestPlayFullGameThroughTools(t *testing.T) {
	resetSession(t)

	resp := decodeResponse(t, callTool(t, handleStartGame, map[string]any{
		"seat":     0,
		"opponent": "passive",
		"seed":     42,
	}))
	require.NotNil(t, resp.Pending)
	require.NotNil(t, activeSession)

	// The starting deck has no actions, so the first decision is a buy.
	first := resp.Pending
	assert.Equal(t, DecisionChooseBuy, first.Type)
	assert.Equal(t, 1, first.State.Turn)
	assert.True(t, first.State.IsYourTurn)
	assert.NotEmpty(t, first.State.You.InPlay)
	require.Len(t, first.State.Opponents, 1)
	assert.Nil(t, first.State.Opponents[0].Hand, "opponent hand must stay hidden")
	assert.Equal(t, game.HandSize, first.State.Opponents[0].HandCount)
	assert.NotEmpty(t, resp.Events)

	for i := 0; i < 2000 && !resp.GameOver; i++ {
		switch resp.Pending.Type {
		case DecisionChooseAction:
			resp = decodeResponse(t, callTool(t, handlePlayAction, map[string]any{"index": -1}))
		case DecisionChooseBuy:
			resp = decodeResponse(t, callTool(t, handleBuyCard, map[string]any{"name": pickBuy(resp.Pending.Options)}))
		default:
			t.Fatalf("unexpected decision %q", resp.Pending.Type)
		}
	}

	require.True(t, resp.GameOver)
	assert.Nil(t, resp.Pending)
	assert.Equal(t, []int{0}, resp.Winners)
	assert.Equal(t, "Province pile empty", resp.Result)
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, 3, resp.Scores[1])
	assert.Nil(t, activeSession, "session should be released after game over")
}

func TestStartGameWithKingdomOffersActions(t *testing.T) {
	resetSession(t)

	resp := decodeResponse(t, callTool(t, handleStartGame, map[string]any{
		"opponent": "big-money",
		"kingdom":  "Village, Smithy",
		"seed":     9,
	}))

	var supply []string
	for _, pile := range resp.State.Supply {
		supply = append(supply, pile.Name)
	}
	assert.Contains(t, supply, "Village")
	assert.Contains(t, supply, "Smithy")

	// A second game cannot start while this one runs.
	res := callTool(t, handleStartGame, map[string]any{})
	assert.True(t, res.IsError)
}

func TestWrongToolAndBadArguments(t *testing.T) {
	resetSession(t)

	res := callTool(t, handleGetGameState, nil)
	assert.True(t, res.IsError, "no game yet")
	res = callTool(t, handleBuyCard, map[string]any{"name": "Gold"})
	assert.True(t, res.IsError, "no game yet")

	resp := decodeResponse(t, callTool(t, handleStartGame, map[string]any{"opponent": "passive", "seed": 3}))
	require.Equal(t, DecisionChooseBuy, resp.Pending.Type)

	res = callTool(t, handlePlayAction, map[string]any{"index": 0})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Wrong tool")

	res = callTool(t, handleBuyCard, map[string]any{"name": "Province"})
	assert.True(t, res.IsError, "Province is never affordable on turn 1")
	assert.Contains(t, resultText(t, res), "not one of the pending options")

	// The rejected calls left the decision pending.
	state := decodeResponse(t, callTool(t, handleGetGameState, nil))
	require.NotNil(t, state.Pending)
	assert.Equal(t, DecisionChooseBuy, state.Pending.Type)
	assert.False(t, state.GameOver)

	// Names are matched case-insensitively.
	next := decodeResponse(t, callTool(t, handleBuyCard, map[string]any{"name": "copper"}))
	assert.False(t, next.GameOver)
	assert.Equal(t, 8, activeSession.game.State.Players[0].CountCard("Copper"))
}

func TestCancelledStartReleasesSession(t *testing.T) {
	resetSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := callToolCtx(t, ctx, handleStartGame, map[string]any{"opponent": "passive", "seed": 4})
	assert.True(t, res.IsError)
	assert.Nil(t, activeSession)

	resp := decodeResponse(t, callTool(t, handleStartGame, map[string]any{"opponent": "passive", "seed": 4}))
	require.NotNil(t, resp.Pending)
	assert.Equal(t, DecisionChooseBuy, resp.Pending.Type)
}

func TestCancelledMoveReleasesSession(t *testing.T) {
	resetSession(t)

	resp := decodeResponse(t, callTool(t, handleStartGame, map[string]any{"opponent": "passive", "seed": 6}))
	require.Equal(t, DecisionChooseBuy, resp.Pending.Type)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := callToolCtx(t, ctx, handleBuyCard, map[string]any{"name": ""})
	assert.True(t, res.IsError)
	assert.Nil(t, activeSession)

	res = callTool(t, handleBuyCard, map[string]any{"name": ""})
	assert.Contains(t, resultText(t, res), "No game is running")
	resp = decodeResponse(t, callTool(t, handleStartGame, map[string]any{"opponent": "passive"}))
	assert.NotNil(t, resp.Pending)
}

func TestEndGameTool(t *testing.T) {
	resetSession(t)

	res := callTool(t, handleEndGame, nil)
	assert.True(t, res.IsError, "no game yet")

	decodeResponse(t, callTool(t, handleStartGame, map[string]any{"opponent": "passive", "seed": 8}))
	resp := decodeResponse(t, callTool(t, handleEndGame, nil))
	assert.True(t, resp.GameOver)
	assert.Equal(t, "game abandoned", resp.Result)
	assert.Nil(t, resp.Pending)
	assert.Nil(t, activeSession)

	resp = decodeResponse(t, callTool(t, handleStartGame, map[string]any{"opponent": "passive", "seed": 8}))
	assert.NotNil(t, resp.Pending)
}

func TestStartGameRejectsBadInput(t *testing.T) {
	resetSession(t)

	res := callTool(t, handleStartGame, map[string]any{"seat": 5})
	assert.True(t, res.IsError)
	res = callTool(t, handleStartGame, map[string]any{"opponent": "grandmaster"})
	assert.True(t, res.IsError)
	res = callTool(t, handleStartGame, map[string]any{"kingdom": "Mountebank"})
	assert.True(t, res.IsError)
	assert.Nil(t, activeSession)
}

func TestSimulateTool(t *testing.T) {
	resetSession(t)

	res := callTool(t, handleSimulate, map[string]any{
		"policies": "big-money, passive",
		"games":    8,
		"seed":     5,
	})
	require.False(t, res.IsError, resultText(t, res))

	var view SimulationView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &view))
	assert.Equal(t, 8, view.Games)
	require.Len(t, view.Seats, 2)
	assert.Equal(t, "big-money", view.Seats[0].Policy)
	assert.Equal(t, 8, view.Seats[0].Wins)
	assert.Equal(t, 1.0, view.Seats[0].WinRate)
	assert.Equal(t, 3.0, view.Seats[1].AvgScore)

	res = callTool(t, handleSimulate, map[string]any{"policies": "big-money", "games": 0})
	assert.True(t, res.IsError)
	res = callTool(t, handleSimulate, map[string]any{"policies": ""})
	assert.True(t, res.IsError)
}

func TestNotifyHidesOpponentDraws(t *testing.T) {
	sess := &GameSession{}
	agent := NewMCPPolicy(0, sess)
	ctx := context.Background()

	require.NoError(t, agent.Notify(ctx, log.NewDrawEvent(1, "", 0, "Gold")))
	require.NoError(t, agent.Notify(ctx, log.NewDrawEvent(1, "", 1, "Province")))
	require.NoError(t, agent.Notify(ctx, log.NewBuyEvent(1, "Buy Phase", 1, "Silver", 3, 39)))

	events := sess.drainEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "Gold", events[0].Card)
	assert.Empty(t, events[1].Card)
	assert.Equal(t, "P2 draws a card", events[1].Details)
	assert.NotContains(t, events[1].Details, "Province")
	assert.Equal(t, "Silver", events[2].Card, "public events pass through")
}

func TestNewGameSessionSeatRange(t *testing.T) {
	_, err := NewGameSession(game.DefaultSetup(), 2, nil)
	require.Error(t, err)
}
