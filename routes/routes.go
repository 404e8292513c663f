package routes

import (
	"cothread/controllers"
	"cothread/services/game"
	utils "cothread/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, gameService *game.Service) {
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)

	api := router.Group("/api/game")
	{
		// Static routes first, before the :gameId ones
		api.POST("/create", controllers.CreateGame(gameService))
		api.GET("/history/:userId", controllers.GetUserHistory(gameService))
		api.GET("/leaderboard/:type", controllers.GetLeaderboard(gameService))

		api.POST("/:gameId/join", controllers.JoinGame(gameService))
		api.POST("/:gameId/turn", controllers.SubmitTurn(gameService))
		api.POST("/:gameId/start", controllers.StartGame(gameService))
		api.GET("/:gameId/chat", controllers.GetChatMessages(gameService))
		api.POST("/:gameId/chat", controllers.SendChatMessage(gameService))
		api.GET("/:gameId/turns", controllers.GetGameTurns(gameService))
		api.GET("/:gameId", controllers.GetGameState(gameService))
	}

	// Alias kept for clients that mount the leaderboard on its own prefix
	router.GET("/api/leaderboard/:type", controllers.GetLeaderboard(gameService))
}
