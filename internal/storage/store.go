package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/simkoong/filesearch-milky/internal/models"
)

// ErrNotFound is returned when a record id is unknown to the store.
var ErrNotFound = errors.New("file not found")

// Store defines the interface for document storage.
type Store interface {
	Save(filename, displayName string, r io.Reader) (*models.FileRecord, error)
	Get(id string) (*models.FileRecord, error)
	List() ([]*models.FileRecord, error)
	Delete(id string) error
	GetFilePath(id string) (string, error)
}

// LocalStore implements Store using the local filesystem. The record registry
// is snapshotted to an msgpack index file after every mutation so it survives
// restarts.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	indexPath string
	records   map[string]*models.FileRecord
}

// NewLocalStore creates a new LocalStore, loading any existing index snapshot.
func NewLocalStore(uploadDir, indexPath string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	s := &LocalStore{
		uploadDir: uploadDir,
		indexPath: indexPath,
		records:   make(map[string]*models.FileRecord),
	}
	if err := s.loadSnapshot(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes an uploaded stream to disk and registers its record.
// The stored blob name is the record id; the original filename is kept only
// as metadata.
func (s *LocalStore) Save(filename, displayName string, r io.Reader) (*models.FileRecord, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id+strings.ToLower(filepath.Ext(filename)))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	rec := &models.FileRecord{
		ID:          id,
		Filename:    filename,
		DisplayName: displayName,
		StoredPath:  path,
		Size:        size,
		UploadedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec

	if err := s.saveSnapshotLocked(); err != nil {
		delete(s.records, id)
		os.Remove(path)
		return nil, err
	}

	return rec, nil
}

// Get retrieves a record by ID.
func (s *LocalStore) Get(id string) (*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return rec, nil
}

// List returns all records, most recent upload first.
func (s *LocalStore) List() ([]*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.FileRecord, 0, len(s.records))
	for _, rec := range s.records {
		list = append(list, rec)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	return list, nil
}

// Delete removes a record and its stored blob.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := os.Remove(rec.StoredPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.records, id)
	return s.saveSnapshotLocked()
}

// GetFilePath returns the absolute path to a stored blob.
func (s *LocalStore) GetFilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return rec.StoredPath, nil
}

func (s *LocalStore) loadSnapshot() error {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading index snapshot: %w", err)
	}

	var recs []*models.FileRecord
	if err := msgpack.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("decoding index snapshot: %w", err)
	}

	for _, rec := range recs {
		s.records[rec.ID] = rec
	}
	return nil
}

// saveSnapshotLocked writes the registry snapshot. Callers must hold mu.
// The snapshot is written to a temp file and renamed so a crash mid-write
// never truncates the index.
func (s *LocalStore) saveSnapshotLocked() error {
	recs := make([]*models.FileRecord, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].UploadedAt.After(recs[j].UploadedAt)
	})

	data, err := msgpack.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encoding index snapshot: %w", err)
	}

	tmp := s.indexPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing index snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.indexPath); err != nil {
		return fmt.Errorf("replacing index snapshot: %w", err)
	}

	return nil
}
