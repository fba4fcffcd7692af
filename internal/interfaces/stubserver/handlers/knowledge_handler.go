package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/metrics"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/privacy"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/store"
)

// KnowledgeHandler serves the guideline document endpoints: upload,
// search and index stats.
type KnowledgeHandler struct {
	store  *store.MemoryStore
	redact *privacy.Redactor
	log    zerolog.Logger
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(st *store.MemoryStore, redact *privacy.Redactor, log zerolog.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		store:  st,
		redact: redact,
		log:    log.With().Str("component", "knowledge_handler").Logger(),
	}
}

// Upload ingests guideline documents into the in-memory index. Only PDF
// uploads are accepted; anything else in the form is skipped.
func (h *KnowledgeHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid multipart form"})
		return
	}

	var docs []store.Document
	for _, header := range form.File["files"] {
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			h.log.Warn().Str("filename", header.Filename).Msg("skipping non-PDF upload")
			continue
		}

		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read uploaded file"})
			return
		}
		text, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read uploaded file"})
			return
		}

		docs = append(docs, store.Document{
			Name: filepath.Base(header.Filename),
			Text: string(text),
		})
	}

	if len(docs) == 0 {
		c.JSON(http.StatusOK, triage.DocumentUploadResponse{
			Success: false,
			Message: "No PDF files were uploaded",
		})
		return
	}

	result := h.store.Ingest(c.Request.Context(), docs)
	if result.Success {
		metrics.SetKnowledgeIndexSize(result.DocumentsProcessed, result.ChunksCreated)
	}

	c.JSON(http.StatusOK, triage.DocumentUploadResponse{
		Success:            result.Success,
		DocumentsProcessed: result.DocumentsProcessed,
		ChunksCreated:      result.ChunksCreated,
		Message:            result.Message,
	})
}

// Search runs a substring search over the indexed guideline chunks.
func (h *KnowledgeHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query parameter is required"})
		return
	}

	topK, err := strconv.Atoi(c.DefaultQuery("top_k", "5"))
	if err != nil || topK <= 0 {
		topK = 5
	}

	h.log.Debug().Str("query", h.redact.Text(query)).Int("top_k", topK).Msg("knowledge search")

	results := h.store.Search(c.Request.Context(), query, topK)
	metrics.RecordKnowledgeSearch()

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

// Stats reports the current size and sources of the knowledge index.
func (h *KnowledgeHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats(c.Request.Context()))
}
