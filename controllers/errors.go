package controllers

import (
	"errors"
	"log"
	"net/http"

	"cothread/services/game"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrGameFinished),
		errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrNotHost),
		errors.Is(err, game.ErrEmptyText),
		errors.Is(err, game.ErrMissingPlayer),
		errors.Is(err, game.ErrMissingUserID),
		errors.Is(err, game.ErrUnknownMode),
		errors.Is(err, game.ErrUnknownLeaderboard):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}
