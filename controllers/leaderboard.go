package controllers

import (
	"cothread/services/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Reads a leaderboard
// @Description Returns a ranked leaderboard page. Types: global, weekly, friends, rapidfire. The friends type requires the userId query parameter.
// @Tags leaderboard
// @Produce json
// @Param type path string true "Leaderboard type"
// @Param userId query string false "User id for the friends filter"
// @Success 200 {object} object{entries=array}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/game/leaderboard/{type} [get]
func GetLeaderboard(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := s.GetLeaderboard(c.Request.Context(), c.Param("type"), c.Query("userId"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// @Summary Reads a user's game history
// @Description Returns the finished games the user played in, newest first
// @Tags history
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} object{history=array}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /api/game/history/{userId} [get]
func GetUserHistory(s *game.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := s.GetUserHistory(c.Request.Context(), c.Param("userId"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"history": history})
	}
}
