// handlers_admin_test.go - Tests for admin file-management handlers
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/simkoong/filesearch-milky/internal/logging"
	"github.com/simkoong/filesearch-milky/internal/testutil"
)

func newAdminHandler(store *testutil.MockStorage, index *testutil.MockIndex) AdminHandler {
	return NewAdminHandler(store, index, logging.NewDiscard())
}

func multipartBody(t *testing.T, filename string, content []byte, displayName string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		part.Write(content)
	}
	if displayName != "" {
		writer.WriteField("display_name", displayName)
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestAdminHandler_HandleListFiles(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(store *testutil.MockStorage)
		wantCount int
	}{
		{
			name:      "empty registry",
			setup:     func(store *testutil.MockStorage) {},
			wantCount: 0,
		},
		{
			name: "two files",
			setup: func(store *testutil.MockStorage) {
				store.AddRecord("id-1", "a.pdf", "", []byte("a"))
				store.AddRecord("id-2", "b.txt", "Handbook", []byte("b"))
			},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			tt.setup(store)
			handler := newAdminHandler(store, testutil.NewMockIndex())

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/admin/files", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler.HandleListFiles(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", rec.Code)
			}

			var response listFilesResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Files == nil {
				t.Error("expected files array, got null")
			}
			if len(response.Files) != tt.wantCount {
				t.Errorf("expected %d files, got %d", tt.wantCount, len(response.Files))
			}
		})
	}
}

func TestAdminHandler_HandleListFiles_EmptyDisplayName(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddRecord("1", "a.pdf", "", []byte("x"))
	handler := newAdminHandler(store, testutil.NewMockIndex())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/files", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleListFiles(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var response listFilesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(response.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(response.Files))
	}
	// display_name is never synthesized from the filename
	if response.Files[0].DisplayName != "" {
		t.Errorf("expected empty display_name, got %q", response.Files[0].DisplayName)
	}
	if response.Files[0].Filename != "a.pdf" {
		t.Errorf("expected filename a.pdf, got %q", response.Files[0].Filename)
	}
}

func TestAdminHandler_HandleUploadFile(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		content     []byte
		displayName string
		indexErr    error
		wantStatus  int
		wantErr     bool
		errCode     string
	}{
		{
			name:       "valid upload",
			filename:   "doc.txt",
			content:    []byte("document content"),
			wantStatus: http.StatusOK,
		},
		{
			name:        "upload with display name",
			filename:    "doc.txt",
			content:     []byte("content"),
			displayName: "  Quarterly Report  ",
			wantStatus:  http.StatusOK,
		},
		{
			name:       "missing file part",
			filename:   "",
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "BAD_REQUEST",
		},
		{
			name:       "index failure fails the upload",
			filename:   "doc.txt",
			content:    []byte("content"),
			indexErr:   errors.New("index unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantErr:    true,
			errCode:    "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			index := testutil.NewMockIndex()
			index.IndexErr = tt.indexErr
			handler := newAdminHandler(store, index)

			body, contentType := multipartBody(t, tt.filename, tt.content, tt.displayName)

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.HandleUploadFile(c)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.Status != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
				}
				if apiErr.Code != tt.errCode {
					t.Errorf("expected error code %s, got %s", tt.errCode, apiErr.Code)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response uploadResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if !response.OK {
				t.Error("expected ok=true")
			}
			if response.File.ID == "" {
				t.Error("expected non-empty file id")
			}
			if response.File.Filename != tt.filename {
				t.Errorf("expected filename %s, got %s", tt.filename, response.File.Filename)
			}
			if tt.displayName != "" && response.File.DisplayName != "Quarterly Report" {
				t.Errorf("expected trimmed display name, got %q", response.File.DisplayName)
			}
			if index.IndexedCount() != 1 {
				t.Errorf("expected 1 indexed document, got %d", index.IndexedCount())
			}
		})
	}
}

func TestAdminHandler_HandleUploadFile_RollbackOnIndexFailure(t *testing.T) {
	store := testutil.NewMockStorage()
	index := testutil.NewMockIndex()
	index.IndexErr = errors.New("boom")
	handler := newAdminHandler(store, index)

	body, contentType := multipartBody(t, "doc.txt", []byte("content"), "")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.HandleUploadFile(c); err == nil {
		t.Fatal("expected error")
	}
	if store.GetFileCount() != 0 {
		t.Errorf("expected stored blob rolled back, %d records remain", store.GetFileCount())
	}
}

func TestAdminHandler_HandleDeleteFile(t *testing.T) {
	tests := []struct {
		name       string
		fileID     string
		setup      func(store *testutil.MockStorage)
		wantStatus int
		wantErr    bool
		errCode    string
	}{
		{
			name:   "delete existing file",
			fileID: "id-1",
			setup: func(store *testutil.MockStorage) {
				store.AddRecord("id-1", "doc.txt", "", []byte("x"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "delete unknown file",
			fileID:     "does-not-exist",
			setup:      func(store *testutil.MockStorage) {},
			wantStatus: http.StatusNotFound,
			wantErr:    true,
			errCode:    "NOT_FOUND",
		},
		{
			name:       "missing id",
			fileID:     "",
			setup:      func(store *testutil.MockStorage) {},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			tt.setup(store)
			index := testutil.NewMockIndex()
			handler := newAdminHandler(store, index)

			e := echo.New()
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/files/:id", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(tt.fileID)

			err := handler.HandleDeleteFile(c)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.Status != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
				}
				if apiErr.Code != tt.errCode {
					t.Errorf("expected error code %s, got %s", tt.errCode, apiErr.Code)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response deleteResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if !response.OK {
				t.Error("expected ok=true")
			}
			if store.GetFileCount() != 0 {
				t.Error("expected record removed from store")
			}
			if got := index.DeletedIDs(); len(got) != 1 || got[0] != tt.fileID {
				t.Errorf("expected index delete for %s, got %v", tt.fileID, got)
			}
		})
	}
}

func TestAdminHandler_HandleDeleteFile_IndexFailureNotFatal(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddRecord("id-1", "doc.txt", "", []byte("x"))
	index := testutil.NewMockIndex()
	index.DeleteErr = errors.New("index offline")
	handler := newAdminHandler(store, index)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/files/:id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("id-1")

	if err := handler.HandleDeleteFile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if store.GetFileCount() != 0 {
		t.Error("expected record removed despite index failure")
	}
}
