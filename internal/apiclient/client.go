// Package apiclient implements the HTTP client used by the admin console
// to talk to the server API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// FileRecord is the client-side view of a stored file. UploadedAt is kept
// as the string the server sent and rendered verbatim.
type FileRecord struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	Size        int64  `json:"size"`
	UploadedAt  string `json:"uploaded_at"`
}

// Label returns the name shown to the operator.
func (r FileRecord) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Filename
}

// AppError is a failure reported by the server itself, as opposed to a
// transport failure. Message carries the server's own wording when it
// provided one.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client calls the server API. A zero token means requests are sent
// without authentication.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// ListFiles fetches the current file registry.
func (c *Client) ListFiles(ctx context.Context) ([]FileRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/admin/files", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting file list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, appErrorFrom(resp)
	}

	var payload struct {
		Files []FileRecord `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding file list: %w", err)
	}
	return payload.Files, nil
}

// Upload sends a file as multipart form data. displayName is only
// included in the form when the operator supplied one.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader, displayName string) error {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("reading upload input: %w", err)
	}
	if displayName != "" {
		if err := writer.WriteField("display_name", displayName); err != nil {
			return fmt.Errorf("building upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/admin/upload", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("uploading file: %w", err)
	}
	defer resp.Body.Close()

	return checkOK(resp)
}

// Delete removes a stored file by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/admin/files/"+id, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	defer resp.Body.Close()

	return checkOK(resp)
}

// Ask submits a question and returns the server's answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/ask", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("asking question: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Answer string `json:"answer"`
		Error  string `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AppError{Status: resp.StatusCode, Message: result.Error}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decoding answer: %w", decodeErr)
	}
	return result.Answer, nil
}

// checkOK treats a response as successful only when the status is 2xx
// and the body reports ok=true. Anything else becomes an AppError
// carrying the server's message when one was sent.
func checkOK(resp *http.Response) error {
	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.OK {
		return &AppError{Status: resp.StatusCode, Message: result.Error}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding response: %w", decodeErr)
	}
	return nil
}

func appErrorFrom(resp *http.Response) error {
	var result struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	return &AppError{Status: resp.StatusCode, Message: result.Error}
}
