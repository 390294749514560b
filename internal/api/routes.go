// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/simkoong/filesearch-milky/internal/answer"
	"github.com/simkoong/filesearch-milky/internal/logging"
	"github.com/simkoong/filesearch-milky/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store    storage.Store
	Index    DocumentIndex
	Answerer answer.Answerer
	Log      logging.Logger
	Version  string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Admin  AdminHandler
	Ask    AskHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version),
		Admin:  NewAdminHandler(deps.Store, deps.Index, deps.Log),
		Ask:    NewAskHandler(deps.Answerer, deps.Log),
	}
}

// RouteOptions controls which routes are exposed and how they are guarded.
type RouteOptions struct {
	AllowFileDeletion bool
	RequireAuth       bool
	AuthToken         string
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handlers, opts RouteOptions) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.Health.HandleHealth)

	// Question answering
	apiGroup.POST("/ask", h.Ask.HandleAsk)

	// Admin file management
	adminGroup := apiGroup.Group("/admin")
	if opts.RequireAuth {
		adminGroup.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == opts.AuthToken, nil
			},
		}))
	}

	adminGroup.GET("/files", h.Admin.HandleListFiles)
	adminGroup.POST("/upload", h.Admin.HandleUploadFile)

	// Conditional delete based on config
	if opts.AllowFileDeletion {
		adminGroup.DELETE("/files/:id", h.Admin.HandleDeleteFile)
	}
}
