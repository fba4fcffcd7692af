package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/stub/engine"
)

var (
	// ErrReportNotFound is returned when a report id is not on record.
	ErrReportNotFound = errors.New("report not found")
)

// fallbackText is served when the knowledge index is empty or a query
// matches nothing.
const fallbackText = "Please upload ICMR Standard Treatment Workflow documents to enable specific guideline retrieval. In the meantime, general medical best practices apply."

// Document is an uploaded knowledge file queued for indexing.
type Document struct {
	Name string
	Text string
}

// DocumentChunk is one indexed window of an uploaded document.
type DocumentChunk struct {
	Text       string
	Source     string
	PageNumber int
	ChunkIndex int
}

// SearchResult is a scored knowledge base hit.
type SearchResult struct {
	Text       string         `json:"text"`
	Source     string         `json:"source"`
	PageNumber int            `json:"page_number"`
	Score      float64        `json:"score"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// IngestResult acknowledges an upload batch.
type IngestResult struct {
	Success            bool   `json:"success"`
	DocumentsProcessed int    `json:"documents_processed"`
	ChunksCreated      int    `json:"chunks_created"`
	Message            string `json:"message"`
}

// IndexStats describes the current knowledge index.
type IndexStats struct {
	IndexLoaded    bool     `json:"index_loaded"`
	TotalChunks    int      `json:"total_chunks"`
	TotalDocuments int      `json:"total_documents"`
	UniqueSources  []string `json:"unique_sources"`
}

// ChatSession carries the per-session chat state. State access goes through
// WithState so concurrent REST and websocket turns on the same session
// serialize.
type ChatSession struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	state engine.ChatState
}

// WithState runs fn with exclusive access to the session's chat state.
func (s *ChatSession) WithState(fn func(*engine.ChatState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// MemoryStore is a mutex-based in-memory store for chat sessions, generated
// reports and the knowledge index. Thread-safe via sync.RWMutex.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*ChatSession
	reports   map[string]any
	documents map[string]string
	chunks    []DocumentChunk

	chunkSize int
	overlap   int
	topK      int
	log       zerolog.Logger
}

// NewMemoryStore creates an empty store. Out-of-range tuning values fall
// back to the service defaults.
func NewMemoryStore(chunkSize, overlap, topK int, log zerolog.Logger) *MemoryStore {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 50
	}
	if topK <= 0 {
		topK = 5
	}
	return &MemoryStore{
		sessions:  make(map[string]*ChatSession),
		reports:   make(map[string]any),
		documents: make(map[string]string),
		chunkSize: chunkSize,
		overlap:   overlap,
		topK:      topK,
		log:       log.With().Str("component", "stub-store").Logger(),
	}
}

// GetOrCreateSession returns the chat session for id, creating it on first
// use.
func (s *MemoryStore) GetOrCreateSession(ctx context.Context, id string) *ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := &ChatSession{ID: id, CreatedAt: time.Now()}
	s.sessions[id] = sess
	s.log.Debug().Str("session_id", id).Msg("chat session created")
	return sess
}

// SaveReport stores a generated report under its id.
func (s *MemoryStore) SaveReport(ctx context.Context, id string, report any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[id] = report
}

// GetReport retrieves a stored report by id.
func (s *MemoryStore) GetReport(ctx context.Context, id string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// Ingest adds the documents to the registry and rebuilds the chunk index
// over everything uploaded so far. Re-uploading a name replaces its text.
func (s *MemoryStore) Ingest(ctx context.Context, docs []Document) IngestResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		s.documents[doc.Name] = doc.Text
	}

	names := make([]string, 0, len(s.documents))
	for name := range s.documents {
		names = append(names, name)
	}
	sort.Strings(names)

	s.chunks = s.chunks[:0]
	for _, name := range names {
		s.chunks = append(s.chunks, s.chunkText(s.documents[name], name, 1)...)
	}

	if len(s.chunks) == 0 {
		return IngestResult{
			Success: false,
			Message: "No documents found or failed to process",
		}
	}

	s.log.Info().
		Int("documents", len(s.documents)).
		Int("chunks", len(s.chunks)).
		Msg("knowledge index rebuilt")

	return IngestResult{
		Success:            true,
		DocumentsProcessed: len(s.documents),
		ChunksCreated:      len(s.chunks),
		Message:            fmt.Sprintf("Successfully indexed %d chunks from %d documents", len(s.chunks), len(s.documents)),
	}
}

// chunkText splits text into overlapping windows, packing whole sentences
// until the window size is exceeded. Callers hold s.mu.
func (s *MemoryStore) chunkText(text, source string, page int) []DocumentChunk {
	sentences := strings.Split(strings.ReplaceAll(text, "\n", " "), ". ")

	var chunks []DocumentChunk
	current := ""
	index := 0

	flush := func() {
		chunks = append(chunks, DocumentChunk{
			Text:       strings.TrimSpace(current),
			Source:     source,
			PageNumber: page,
			ChunkIndex: index,
		})
		index++
	}

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if !strings.HasSuffix(sentence, ".") {
			sentence += "."
		}

		if utf8.RuneCountInString(current)+utf8.RuneCountInString(sentence) > s.chunkSize {
			if current != "" {
				flush()
				current = tailRunes(current, s.overlap) + " " + sentence
			} else {
				current = sentence
			}
		} else if current != "" {
			current = current + " " + sentence
		} else {
			current = sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		flush()
	}
	return chunks
}

// tailRunes returns the last n runes of text, or "" when text is not longer
// than n.
func tailRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return ""
	}
	return string(runes[len(runes)-n:])
}

// Search scores chunks by how many query terms they contain and returns the
// topK best. An empty index or a query matching nothing falls back to the
// canned guidance result.
func (s *MemoryStore) Search(ctx context.Context, query string, topK int) []SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 {
		topK = s.topK
	}

	terms := queryTerms(query)
	if len(s.chunks) == 0 || len(terms) == 0 {
		return fallbackResults()
	}

	results := make([]SearchResult, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		lowered := strings.ToLower(chunk.Text)
		matched := 0
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		results = append(results, SearchResult{
			Text:       chunk.Text,
			Source:     chunk.Source,
			PageNumber: chunk.PageNumber,
			Score:      float64(matched) / float64(len(terms)),
		})
	}

	if len(results) == 0 {
		return fallbackResults()
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// Stats reports the current index shape.
func (s *MemoryStore) Stats(ctx context.Context) IndexStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	sources := make([]string, 0, len(s.documents))
	for _, chunk := range s.chunks {
		if seen[chunk.Source] {
			continue
		}
		seen[chunk.Source] = true
		sources = append(sources, chunk.Source)
	}
	sort.Strings(sources)

	return IndexStats{
		IndexLoaded:    len(s.chunks) > 0,
		TotalChunks:    len(s.chunks),
		TotalDocuments: len(s.documents),
		UniqueSources:  sources,
	}
}

// GuidelineSources satisfies engine.GuidelineIndex: it searches for
// treatment guidance covering the symptom terms and returns the distinct
// source documents of the hits. An empty index yields ["system"] via the
// fallback result.
func (s *MemoryStore) GuidelineSources(terms []string) []string {
	query := "Treatment guidelines for patient presenting with: " + strings.Join(terms, ", ")
	results := s.Search(context.Background(), query, s.topK)

	seen := make(map[string]bool, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		if seen[r.Source] {
			continue
		}
		seen[r.Source] = true
		sources = append(sources, r.Source)
	}
	return sources
}

func fallbackResults() []SearchResult {
	return []SearchResult{{
		Text:       fallbackText,
		Source:     "system",
		PageNumber: 0,
		Score:      0.5,
		Metadata:   map[string]any{"fallback": true},
	}}
}

// queryTerms lowercases the query and keeps distinct words of three or more
// runes, with surrounding punctuation stripped.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		term := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if utf8.RuneCountInString(term) < 3 || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}
