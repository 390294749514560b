package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/admin/files", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"files":[{"id":"a1","filename":"doc.pdf","display_name":"Handbook","size":42,"uploaded_at":"2026-08-30T10:00:00Z"}]}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	files, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a1", files[0].ID)
	assert.Equal(t, "Handbook", files[0].Label())
	assert.Equal(t, "2026-08-30T10:00:00Z", files[0].UploadedAt)
}

func TestClient_ListFiles_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"ok":false,"error":"index unavailable"}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.ListFiles(context.Background())
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "index unavailable", appErr.Message)
}

func TestClient_ListFiles_TransportError(t *testing.T) {
	client := New("http://127.0.0.1:1", "")
	_, err := client.ListFiles(context.Background())
	require.Error(t, err)

	var appErr *AppError
	assert.False(t, errors.As(err, &appErr), "transport failures must not look like server errors")
}

func TestClient_Upload(t *testing.T) {
	var gotFilename, gotDisplayName, gotContent string
	var displayNamePresent bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFilename = header.Filename
		gotContent = string(data)
		values, ok := r.MultipartForm.Value["display_name"]
		displayNamePresent = ok
		if ok {
			gotDisplayName = values[0]
		}
		w.Write([]byte(`{"ok":true,"file":{"id":"n1","filename":"doc.txt"}}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	err := client.Upload(context.Background(), "doc.txt", strings.NewReader("hello"), "My Doc")
	require.NoError(t, err)
	assert.Equal(t, "doc.txt", gotFilename)
	assert.Equal(t, "hello", gotContent)
	assert.True(t, displayNamePresent)
	assert.Equal(t, "My Doc", gotDisplayName)
}

func TestClient_Upload_OmitsEmptyDisplayName(t *testing.T) {
	var displayNamePresent bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, displayNamePresent = r.MultipartForm.Value["display_name"]
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	err := client.Upload(context.Background(), "doc.txt", strings.NewReader("hello"), "")
	require.NoError(t, err)
	assert.False(t, displayNamePresent)
}

func TestClient_Upload_OKFalseOn200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error":"a file with that name already exists"}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	err := client.Upload(context.Background(), "doc.txt", strings.NewReader("x"), "")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "a file with that name already exists", appErr.Message)
}

func TestClient_Delete(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	err := client.Delete(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/admin/files/abc-123", gotPath)
}

func TestClient_Delete_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"ok":false,"error":"file not found"}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	err := client.Delete(context.Background(), "missing")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "file not found", appErr.Message)
}

func TestClient_Ask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ask", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"question":"where is the handbook?"}`, string(body))
		w.Write([]byte(`{"answer":"In the shared drive."}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	answer, err := client.Ask(context.Background(), "where is the handbook?")
	require.NoError(t, err)
	assert.Equal(t, "In the shared drive.", answer)
}

func TestClient_Ask_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to answer the question"}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.Ask(context.Background(), "anything")
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "failed to answer the question", appErr.Message)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"files":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "secret-token")
	_, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestClient_NoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"files":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.ListFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
