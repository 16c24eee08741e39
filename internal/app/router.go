package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"oascore.io/oascore/internal/api/handlers"
	"oascore.io/oascore/internal/api/middleware"
	"oascore.io/oascore/internal/config"
)

func newRouter(cfg *config.Config, server *handlers.Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.New(buildCORSConfig(cfg.Server.AllowedOrigins)))

	server.RegisterRoutes(router.Group("/api/v1"))
	return router
}

// buildCORSConfig maps the configured origin list onto the cors middleware.
// A "*" entry switches to allow-all without credentials; anything else is an
// explicit allowlist.
func buildCORSConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowOrigins = nil
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
