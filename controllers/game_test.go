package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cothread/models/postgres"
	"cothread/routes"
	"cothread/services/ai"
	"cothread/services/game"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&postgres.Game{}, &postgres.GamePlayer{}, &postgres.Turn{},
		&postgres.ChatMessage{}, &postgres.LeaderboardEntry{}, &postgres.Friendship{},
	))

	service := game.NewService(db, nil, ai.NewStoryGuide(nil, "test-model"))
	router := gin.New()
	routes.SetupRoutes(router, service)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w.Code, decoded
}

func createGame(t *testing.T, router *gin.Engine, body map[string]any) map[string]any {
	t.Helper()
	code, resp := doJSON(t, router, http.MethodPost, "/api/game/create", body)
	require.Equal(t, http.StatusCreated, code)
	g, ok := resp["game"].(map[string]any)
	require.True(t, ok)
	return g
}

func TestPingRoute(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doJSON(t, router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", resp["message"])
}

func TestCreateGameRoute(t *testing.T) {
	router := newTestRouter(t)

	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "multi", "maxPlayers": 3,
	})

	id, _ := g["id"].(string)
	assert.Len(t, id, 6)
	assert.Equal(t, "waiting", g["status"])
	assert.Equal(t, float64(3), g["maxPlayers"])
	assert.NotEmpty(t, g["guidePrompt"])

	players, ok := g["players"].([]any)
	require.True(t, ok)
	assert.Len(t, players, 1)
}

func TestCreateGameUnknownModeRoute(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doJSON(t, router, http.MethodPost, "/api/game/create", map[string]any{
		"hostName": "Alice", "mode": "battle-royale",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, resp["error"])
}

func TestJoinRouteAndGameFull(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "multi", "maxPlayers": 3,
	})
	gameID := g["id"].(string)

	code, resp := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/join",
		map[string]any{"playerName": "Bob", "playerId": "u2"})
	require.Equal(t, http.StatusOK, code)
	players := resp["game"].(map[string]any)["players"].([]any)
	assert.Len(t, players, 2)

	code, _ = doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/join",
		map[string]any{"playerName": "Cleo", "playerId": "u3"})
	require.Equal(t, http.StatusOK, code)

	code, resp = doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/join",
		map[string]any{"playerName": "Dana", "playerId": "u4"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Game is full", resp["error"])
}

func TestGameNotFoundRoute(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doJSON(t, router, http.MethodGet, "/api/game/zzzzzz", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Game not found", resp["error"])
}

func TestStartGameRoute(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "multi",
	})
	gameID := g["id"].(string)

	code, resp := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/start",
		map[string]any{"playerId": "u1"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Game started", resp["info"])
	assert.Equal(t, "active", resp["game"].(map[string]any)["status"])

	code, _ = doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/start",
		map[string]any{"playerId": "u1"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSubmitTurnRoute(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "single", "maxTurns": 4,
	})
	gameID := g["id"].(string)

	code, resp := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/turn",
		map[string]any{"playerName": "Alice", "playerId": "u1", "text": "The door creaked open."})
	require.Equal(t, http.StatusOK, code)

	turn := resp["turn"].(map[string]any)
	assert.Equal(t, float64(1), turn["order"])
	assert.Equal(t, "The door creaked open.", turn["text"])

	// StoryBot answered in the same request
	state := resp["game"].(map[string]any)
	assert.Equal(t, float64(2), state["turnsCount"])
	_, hasScores := resp["scores"]
	assert.False(t, hasScores)
}

func TestSubmitTurnEmptyTextRoute(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "single",
	})
	gameID := g["id"].(string)

	code, resp := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/turn",
		map[string]any{"playerName": "Alice", "playerId": "u1", "text": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Text is required", resp["error"])
}

func TestFinishedGameCarriesScores(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "single", "maxTurns": 2,
	})
	gameID := g["id"].(string)

	code, resp := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/turn",
		map[string]any{"playerName": "Alice", "playerId": "u1", "text": "The final line of the story."})
	require.Equal(t, http.StatusOK, code)

	state := resp["game"].(map[string]any)
	assert.Equal(t, "finished", state["status"])
	assert.Nil(t, state["currentPlayerId"])

	scores, ok := resp["scores"].(map[string]any)
	require.True(t, ok)
	players := scores["players"].(map[string]any)
	assert.Contains(t, players, "Alice")
	assert.Contains(t, players, "StoryBot")
}

func TestChatRoutes(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "multi",
	})
	gameID := g["id"].(string)

	code, resp := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/chat",
		map[string]any{"playerName": "Alice", "playerId": "u1", "text": "good luck everyone"})
	require.Equal(t, http.StatusOK, code)
	message := resp["message"].(map[string]any)
	assert.Equal(t, "good luck everyone", message["text"])

	code, resp = doJSON(t, router, http.MethodGet, "/api/game/"+gameID+"/chat", nil)
	require.Equal(t, http.StatusOK, code)
	messages := resp["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "good luck everyone", messages[0].(map[string]any)["text"])
}

func TestLeaderboardRoutes(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doJSON(t, router, http.MethodGet, "/api/game/leaderboard/global", nil)
	require.Equal(t, http.StatusOK, code)
	_, ok := resp["entries"]
	assert.True(t, ok)

	// Alias prefix serves the same handler
	code, _ = doJSON(t, router, http.MethodGet, "/api/leaderboard/global", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, router, http.MethodGet, "/api/game/leaderboard/monthly", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = doJSON(t, router, http.MethodGet, "/api/game/leaderboard/friends", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHistoryRoute(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "single", "maxTurns": 2,
	})
	gameID := g["id"].(string)
	code, _ := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/turn",
		map[string]any{"playerName": "Alice", "playerId": "u1", "text": "A whole story in one turn."})
	require.Equal(t, http.StatusOK, code)

	code, resp := doJSON(t, router, http.MethodGet, "/api/game/history/u1", nil)
	require.Equal(t, http.StatusOK, code)
	history := resp["history"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, gameID, history[0].(map[string]any)["id"])
}

func TestTurnsRoute(t *testing.T) {
	router := newTestRouter(t)
	g := createGame(t, router, map[string]any{
		"hostName": "Alice", "hostId": "u1", "mode": "single", "maxTurns": 4,
	})
	gameID := g["id"].(string)
	code, _ := doJSON(t, router, http.MethodPost, "/api/game/"+gameID+"/turn",
		map[string]any{"playerName": "Alice", "playerId": "u1", "text": "First line."})
	require.Equal(t, http.StatusOK, code)

	code, resp := doJSON(t, router, http.MethodGet, "/api/game/"+gameID+"/turns", nil)
	require.Equal(t, http.StatusOK, code)
	turns := resp["turns"].([]any)
	require.Len(t, turns, 2)
	assert.Equal(t, float64(1), turns[0].(map[string]any)["order"])
	assert.Equal(t, float64(2), turns[1].(map[string]any)["order"])
}
