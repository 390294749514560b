// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
)

// AdminHandler handles the admin file-management operations
type AdminHandler interface {
	HandleListFiles(c echo.Context) error
	HandleUploadFile(c echo.Context) error
	HandleDeleteFile(c echo.Context) error
}

// AskHandler handles question answering
type AskHandler interface {
	HandleAsk(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// DocumentIndex defines the interface the admin handlers need from the
// search index. This allows mocking in tests.
type DocumentIndex interface {
	IndexStored(ctx context.Context, docID, filename, displayName, path string) error
	DeleteDocument(ctx context.Context, docID string) error
}
