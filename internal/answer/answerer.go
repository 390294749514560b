// Package answer composes answers to user questions from search-index
// snippets, citing the documents the answer was drawn from.
package answer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/simkoong/filesearch-milky/internal/search"
)

// Answerer produces an answer for a user question.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Searcher is the retrieval surface the answerer needs from the index.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Snippet, error)
}

// RetrievalAnswerer answers from indexed document excerpts.
type RetrievalAnswerer struct {
	index         Searcher
	persona       *Persona
	snippetLength int
}

// NewRetrievalAnswerer creates an answerer over the given index.
// snippetLength bounds how much of each excerpt is quoted.
func NewRetrievalAnswerer(index Searcher, persona *Persona, snippetLength int) *RetrievalAnswerer {
	if snippetLength <= 0 {
		snippetLength = 400
	}
	return &RetrievalAnswerer{index: index, persona: persona, snippetLength: snippetLength}
}

// Answer retrieves the best-matching excerpts and assembles a reply with a
// referenced-documents block.
func (a *RetrievalAnswerer) Answer(ctx context.Context, question string) (string, error) {
	snippets, err := a.index.Search(ctx, question, a.persona.MaxSnippets)
	if err != nil {
		return "", fmt.Errorf("searching index: %w", err)
	}

	if len(snippets) == 0 {
		return a.persona.NoMatchReply, nil
	}

	var b strings.Builder
	if a.persona.Preamble != "" {
		b.WriteString(a.persona.Preamble)
		b.WriteString("\n\n")
	}

	for i, s := range snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(clip(s.Content, a.snippetLength))
	}

	b.WriteString("\n\nReferenced documents:\n")
	for _, name := range citedDocs(snippets) {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String()), nil
}

// citedDocs returns the sorted, deduplicated labels of the documents the
// snippets came from.
func citedDocs(snippets []search.Snippet) []string {
	seen := make(map[string]struct{}, len(snippets))
	var names []string
	for _, s := range snippets {
		name := s.Label()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clip(text string, max int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
