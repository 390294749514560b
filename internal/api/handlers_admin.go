// handlers_admin.go - Admin file-management handlers
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/simkoong/filesearch-milky/internal/logging"
	"github.com/simkoong/filesearch-milky/internal/models"
	"github.com/simkoong/filesearch-milky/internal/storage"
)

// AdminHandlerImpl implements the AdminHandler interface
type AdminHandlerImpl struct {
	store storage.Store
	index DocumentIndex
	log   logging.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(store storage.Store, index DocumentIndex, log logging.Logger) AdminHandler {
	return &AdminHandlerImpl{
		store: store,
		index: index,
		log:   log,
	}
}

// fileView is the wire form of a FileRecord. The timestamp is serialized as
// a string; clients treat it as display-only.
type fileView struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	Size        int64  `json:"size"`
	UploadedAt  string `json:"uploaded_at"`
}

type listFilesResponse struct {
	Files []fileView `json:"files"`
}

type uploadResponse struct {
	OK   bool     `json:"ok"`
	File fileView `json:"file"`
}

type deleteResponse struct {
	OK bool `json:"ok"`
}

func toFileView(rec *models.FileRecord) fileView {
	return fileView{
		ID:          rec.ID,
		Filename:    rec.Filename,
		DisplayName: rec.DisplayName,
		Size:        rec.Size,
		UploadedAt:  rec.UploadedAt.UTC().Format(time.RFC3339),
	}
}

// HandleListFiles returns all uploaded files, most recent first.
func (h *AdminHandlerImpl) HandleListFiles(c echo.Context) error {
	records, err := h.store.List()
	if err != nil {
		return NewInternalError("failed to list files", err)
	}

	views := make([]fileView, 0, len(records))
	for _, rec := range records {
		views = append(views, toFileView(rec))
	}

	return c.JSON(http.StatusOK, listFilesResponse{Files: views})
}

// HandleUploadFile accepts one multipart file plus an optional display name,
// stores it, and indexes its content. The upload only succeeds once indexing
// has completed.
func (h *AdminHandlerImpl) HandleUploadFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	displayName := strings.TrimSpace(c.FormValue("display_name"))

	src, err := fileHeader.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	rec, err := h.store.Save(fileHeader.Filename, displayName, src)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	ctx := c.Request().Context()
	if err := h.index.IndexStored(ctx, rec.ID, rec.Filename, rec.DisplayName, rec.StoredPath); err != nil {
		// Roll back the stored blob so the upload can be retried cleanly.
		if derr := h.store.Delete(rec.ID); derr != nil {
			h.log.Warn(ctx, "rollback after index failure failed", "id", rec.ID, "error", derr)
		}
		return NewInternalError("failed to index file", err)
	}

	h.log.Info(ctx, "file uploaded", "id", rec.ID, "filename", rec.Filename, "size", rec.Size)

	return c.JSON(http.StatusOK, uploadResponse{OK: true, File: toFileView(rec)})
}

// HandleDeleteFile removes a file from storage and from the search index.
func (h *AdminHandlerImpl) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	ctx := c.Request().Context()

	if _, err := h.store.Get(id); err != nil {
		return NewNotFoundError("file", id)
	}

	// Index cleanup failure is not fatal; the record removal is what users
	// observe, and orphaned chunks are overwritten on re-index.
	if err := h.index.DeleteDocument(ctx, id); err != nil {
		h.log.Warn(ctx, "failed to remove file from search index", "id", id, "error", err)
	}

	if err := h.store.Delete(id); err != nil {
		return NewInternalError("failed to delete file", err)
	}

	h.log.Info(ctx, "file deleted", "id", id)

	return c.JSON(http.StatusOK, deleteResponse{OK: true})
}
