// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/simkoong/filesearch-milky/internal/models"
	"github.com/simkoong/filesearch-milky/internal/storage"
)

// MockStorage implements storage.Store for testing
type MockStorage struct {
	mu       sync.RWMutex
	records  map[string]*models.FileRecord
	fileData map[string][]byte

	// Failure injection
	SaveErr   error
	ListErr   error
	DeleteErr error
}

// NewMockStorage creates a new mock storage with default implementations
func NewMockStorage() *MockStorage {
	return &MockStorage{
		records:  make(map[string]*models.FileRecord),
		fileData: make(map[string][]byte),
	}
}

func (m *MockStorage) Save(filename, displayName string, r io.Reader) (*models.FileRecord, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := generateTestID()
	rec := &models.FileRecord{
		ID:          id,
		Filename:    filename,
		DisplayName: displayName,
		StoredPath:  "/mock/path/" + id,
		Size:        int64(len(data)),
		UploadedAt:  time.Now().UTC(),
	}

	m.records[id] = rec
	m.fileData[id] = data
	return rec, nil
}

func (m *MockStorage) Get(id string) (*models.FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return rec, nil
}

func (m *MockStorage) List() ([]*models.FileRecord, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]*models.FileRecord, 0, len(m.records))
	for _, rec := range m.records {
		recs = append(recs, rec)
	}
	return recs, nil
}

func (m *MockStorage) Delete(id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[id]; !exists {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}

	delete(m.records, id)
	delete(m.fileData, id)
	return nil
}

func (m *MockStorage) GetFilePath(id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return rec.StoredPath, nil
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// AddRecord adds a record directly to the mock
func (m *MockStorage) AddRecord(id, filename, displayName string, data []byte) *models.FileRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := &models.FileRecord{
		ID:          id,
		Filename:    filename,
		DisplayName: displayName,
		StoredPath:  "/mock/path/" + id,
		Size:        int64(len(data)),
		UploadedAt:  time.Now().UTC(),
	}
	m.records[id] = rec
	m.fileData[id] = data
	return rec
}

// GetFileData returns the stored content
func (m *MockStorage) GetFileData(id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.fileData[id]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// GetFileCount returns the number of stored records
func (m *MockStorage) GetFileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// generateTestID generates a simple test ID
var testIDCounter int
var testIDMutex sync.Mutex

func generateTestID() string {
	testIDMutex.Lock()
	defer testIDMutex.Unlock()
	testIDCounter++
	return fmt.Sprintf("test-id-%d", testIDCounter)
}

// MockIndex implements the admin handlers' DocumentIndex surface for testing
type MockIndex struct {
	mu      sync.Mutex
	indexed map[string]string // docID -> path
	deleted []string

	IndexErr  error
	DeleteErr error
}

// NewMockIndex creates an empty mock index
func NewMockIndex() *MockIndex {
	return &MockIndex{indexed: make(map[string]string)}
}

func (m *MockIndex) IndexStored(_ context.Context, docID, _, _, path string) error {
	if m.IndexErr != nil {
		return m.IndexErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed[docID] = path
	return nil
}

func (m *MockIndex) DeleteDocument(_ context.Context, docID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexed, docID)
	m.deleted = append(m.deleted, docID)
	return nil
}

// IndexedCount returns the number of currently indexed documents
func (m *MockIndex) IndexedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indexed)
}

// DeletedIDs returns the ids passed to DeleteDocument
func (m *MockIndex) DeletedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
