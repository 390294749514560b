// Package search maintains a DuckDB-backed full-text index over uploaded
// document content and serves ranked snippet retrieval for question answering.
package search

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/marcboeker/go-duckdb"
)

// Snippet is one ranked chunk of indexed document text.
type Snippet struct {
	DocID       string
	Filename    string
	DisplayName string
	Seq         int
	Content     string
	Score       int
}

// Label returns the name shown when citing this snippet's document.
func (s Snippet) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Filename
}

// Options tunes the underlying DuckDB instance.
type Options struct {
	Threads     int
	MemoryLimit string
}

// Index stores document text chunks in a DuckDB file.
type Index struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

const chunkSize = 1200

// NewIndex opens (or creates) the index database at dbPath.
func NewIndex(dbPath string, opts Options) (*Index, error) {
	if opts.Threads <= 0 {
		opts.Threads = 2
	}
	if opts.MemoryLimit == "" {
		opts.MemoryLimit = "512MB"
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			fmt.Sprintf("PRAGMA memory_limit='%s'", opts.MemoryLimit),
			fmt.Sprintf("PRAGMA threads=%d", opts.Threads),
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			doc_id       VARCHAR NOT NULL,
			filename     VARCHAR NOT NULL,
			display_name VARCHAR,
			seq          INTEGER NOT NULL,
			content      VARCHAR NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	return &Index{db: db, dbPath: dbPath}, nil
}

// Close releases the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// IndexDocument replaces all indexed content for the given document with
// chunks of the supplied text. Empty text indexes nothing but is not an
// error; the document simply becomes unsearchable.
func (ix *Index) IndexDocument(ctx context.Context, docID, filename, displayName, text string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("clearing previous chunks: %w", err)
	}

	for seq, chunk := range splitChunks(text, chunkSize) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO chunks (doc_id, filename, display_name, seq, content) VALUES (?, ?, ?, ?, ?)",
			docID, filename, displayName, seq, chunk)
		if err != nil {
			return fmt.Errorf("inserting chunk %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index transaction: %w", err)
	}
	return nil
}

// IndexStored extracts text from a stored blob and indexes it. Binary
// content indexes nothing; the document stays listed but unsearchable.
func (ix *Index) IndexStored(ctx context.Context, docID, filename, displayName, path string) error {
	text, err := ExtractText(path)
	if err != nil {
		return err
	}
	return ix.IndexDocument(ctx, docID, filename, displayName, text)
}

// DeleteDocument removes all indexed content for the given document.
func (ix *Index) DeleteDocument(ctx context.Context, docID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, err := ix.db.ExecContext(ctx, "DELETE FROM chunks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// Search returns up to limit snippets matching the query, best first.
// Candidate chunks are fetched with a term OR-filter in SQL and scored in Go
// by total term occurrences.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]Snippet, error) {
	terms := tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	conds := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, term := range terms {
		conds[i] = "lower(content) LIKE ?"
		args[i] = "%" + term + "%"
	}

	q := "SELECT doc_id, filename, display_name, seq, content FROM chunks WHERE " +
		strings.Join(conds, " OR ")

	rows, err := ix.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var snippets []Snippet
	for rows.Next() {
		var s Snippet
		var displayName sql.NullString
		if err := rows.Scan(&s.DocID, &s.Filename, &displayName, &s.Seq, &s.Content); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		s.DisplayName = displayName.String
		s.Score = score(s.Content, terms)
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Score > snippets[j].Score
	})
	if len(snippets) > limit {
		snippets = snippets[:limit]
	}

	return snippets, nil
}

// tokenize lowercases the query and keeps word-like terms of 2+ runes.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isWordRune(r)
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

func isWordRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		r > 127
}

func score(content string, terms []string) int {
	lower := strings.ToLower(content)
	total := 0
	for _, term := range terms {
		total += strings.Count(lower, term)
	}
	return total
}

// splitChunks breaks text into pieces of at most max bytes, preferring
// paragraph then line boundaries so snippets stay readable.
func splitChunks(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if current.Len()+len(para) > max && current.Len() > 0 {
			flush()
		}
		if len(para) > max {
			// Oversized paragraph: hard-split on lines.
			for _, line := range strings.Split(para, "\n") {
				if current.Len()+len(line) > max && current.Len() > 0 {
					flush()
				}
				current.WriteString(line)
				current.WriteString("\n")
			}
			continue
		}
		current.WriteString(para)
		current.WriteString("\n\n")
	}
	flush()

	return chunks
}
