package controllers

import (
	"cothread/services/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Reads the game chat
// @Description Returns the game's chat messages, oldest first
// @Tags chat
// @Produce json
// @Param gameId path string true "Game id"
// @Success 200 {object} object{messages=array}
// @Failure 404 {object} object{error=string}
// @Router /api/game/{gameId}/chat [get]
func GetChatMessages(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := s.GetChatMessages(c.Request.Context(), c.Param("gameId"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages})
	}
}

// @Summary Sends a chat message
// @Description Appends a chat message. Chat does not affect turn order or game status.
// @Tags chat
// @Accept json
// @Produce json
// @Param gameId path string true "Game id"
// @Param request body controllers.playerActionRequest true "Message content"
// @Success 200 {object} object{message=object}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/game/{gameId}/chat [post]
func SendChatMessage(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req playerActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		message, err := s.SendChatMessage(c.Request.Context(), c.Param("gameId"), req.PlayerName, req.PlayerID, req.Text)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}
