package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is one entry in the static support knowledge base.
type Document struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Store holds the document set loaded at startup. It is read-only after
// construction and safe for concurrent use.
type Store struct {
	documents []Document
}

func NewStore(documents []Document) *Store {
	return &Store{documents: documents}
}

// Load reads a JSON array of documents from the given file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading documents file '%s': %w", path, err)
	}

	var documents []Document
	if err := json.Unmarshal(data, &documents); err != nil {
		return nil, fmt.Errorf("error parsing documents file '%s': %w", path, err)
	}

	return NewStore(documents), nil
}

func (s *Store) Len() int {
	return len(s.documents)
}

// Match returns the first document, in store order, whose lowercased title
// appears as a substring of the lowercased question, or whose content's first
// whitespace-delimited token does. This is literal substring containment, not
// relevance ranking; first hit wins.
func (s *Store) Match(question string) (Document, bool) {
	lower := strings.ToLower(question)
	for _, doc := range s.documents {
		if strings.Contains(lower, strings.ToLower(doc.Title)) {
			return doc, true
		}
		if fields := strings.Fields(strings.ToLower(doc.Content)); len(fields) > 0 && strings.Contains(lower, fields[0]) {
			return doc, true
		}
	}
	return Document{}, false
}
