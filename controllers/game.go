package controllers

import (
	models "cothread/models/postgres"
	"cothread/services/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	HostName            string `json:"hostName"`
	HostID              string `json:"hostId"`
	InitialPrompt       string `json:"initialPrompt"`
	TurnDurationSeconds int    `json:"turnDurationSeconds"`
	MaxTurns            int    `json:"maxTurns"`
	MaxPlayers          int    `json:"maxPlayers"`
	Mode                string `json:"mode"`
}

type playerActionRequest struct {
	PlayerName string `json:"playerName"`
	PlayerID   string `json:"playerId"`
	Text       string `json:"text"`
}

// @Summary Creates a new game
// @Description Creates a story game and seats the host. Missing settings get defaults; a missing initial prompt is generated.
// @Tags game
// @Accept json
// @Produce json
// @Param request body controllers.createGameRequest true "Game settings"
// @Success 201 {object} object{game=object}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/game/create [post]
func CreateGame(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		g, err := s.CreateGame(c.Request.Context(), game.CreateGameInput{
			HostName:            req.HostName,
			HostID:              req.HostID,
			InitialPrompt:       req.InitialPrompt,
			TurnDurationSeconds: req.TurnDurationSeconds,
			MaxTurns:            req.MaxTurns,
			MaxPlayers:          req.MaxPlayers,
			Mode:                models.GameMode(req.Mode),
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"game": game.BuildSnapshot(g)})
	}
}

// @Summary Joins a game
// @Description Seats the player in the game. Joining twice with the same playerId is a no-op.
// @Tags game
// @Accept json
// @Produce json
// @Param gameId path string true "Game id"
// @Param request body controllers.playerActionRequest true "Player identity"
// @Success 200 {object} object{game=object}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/game/{gameId}/join [post]
func JoinGame(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req playerActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		g, err := s.JoinGame(c.Request.Context(), c.Param("gameId"), req.PlayerName, req.PlayerID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"game": game.BuildSnapshot(g)})
	}
}

// @Summary Starts a game
// @Description Moves a waiting game to active. Host only.
// @Tags game
// @Accept json
// @Produce json
// @Param gameId path string true "Game id"
// @Param request body controllers.playerActionRequest true "Player identity"
// @Success 200 {object} object{game=object,info=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/game/{gameId}/start [post]
func StartGame(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req playerActionRequest
		// The body is optional here; an empty one means "no host check"
		_ = c.ShouldBindJSON(&req)

		g, err := s.StartGame(c.Request.Context(), c.Param("gameId"), req.PlayerID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"game": game.BuildSnapshot(g), "info": "Game started"})
	}
}

// @Summary Submits a story turn
// @Description Appends the player's turn, generates the next guiding prompt, and closes the game with scores when the turn limit is reached. In single mode StoryBot answers in the same request.
// @Tags game
// @Accept json
// @Produce json
// @Param gameId path string true "Game id"
// @Param request body controllers.playerActionRequest true "Turn content"
// @Success 200 {object} object{game=object,turn=object,scores=object}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/game/{gameId}/turn [post]
func SubmitTurn(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req playerActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		result, err := s.SubmitTurn(c.Request.Context(), c.Param("gameId"), req.PlayerName, req.PlayerID, req.Text)
		if err != nil {
			abortWithError(c, err)
			return
		}

		response := gin.H{"game": result.Game, "turn": result.Turn}
		if result.Scores != nil {
			response["scores"] = result.Scores
		}
		c.JSON(http.StatusOK, response)
	}
}

// @Summary Reads game state
// @Description Returns the full game state for polling clients
// @Tags game
// @Produce json
// @Param gameId path string true "Game id"
// @Success 200 {object} object{game=object}
// @Failure 404 {object} object{error=string}
// @Router /api/game/{gameId} [get]
func GetGameState(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := s.GetGameState(c.Request.Context(), c.Param("gameId"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": snapshot})
	}
}

// @Summary Reads game turns
// @Description Returns the game's turns in play order
// @Tags game
// @Produce json
// @Param gameId path string true "Game id"
// @Success 200 {object} object{turns=array}
// @Failure 404 {object} object{error=string}
// @Router /api/game/{gameId}/turns [get]
func GetGameTurns(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		turns, err := s.GetGameTurns(c.Request.Context(), c.Param("gameId"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"turns": turns})
	}
}
