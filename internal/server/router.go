package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/campussim-backend/internal/handlers"
)

type RouterConfig struct {
	TermHandler   *handlers.TermHandler
	WindowHandler *handlers.WindowHandler
	TickHandler   *handlers.TickHandler
	RunLogHandler *handlers.RunLogHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/profiles", cfg.TermHandler.ListProfiles)
		api.POST("/terms", cfg.TermHandler.CreateTerm)
		api.GET("/terms", cfg.TermHandler.ListTerms)
		api.GET("/terms/:id", cfg.TermHandler.GetTerm)
		api.POST("/windows/:id/rerun", cfg.WindowHandler.RequestRerun)
		api.GET("/windows/:id/actions", cfg.RunLogHandler.ListWindowActions)
		api.POST("/tick", cfg.TickHandler.Tick)
	}

	return router
}
