// Package handlers implements the OAScore HTTP API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"oascore.io/oascore/internal/judge"
	"oascore.io/oascore/internal/oas"
)

// Server bundles the scoring dependencies behind the HTTP handlers.
type Server struct {
	judge  *judge.Judge
	loader *oas.Loader
}

// NewServer constructs the handler set.
func NewServer(j *judge.Judge, loader *oas.Loader) *Server {
	return &Server{judge: j, loader: loader}
}

// RegisterRoutes mounts the API endpoints onto the router group.
func (s *Server) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", s.Health)
	rg.POST("/score", s.Score)
}
