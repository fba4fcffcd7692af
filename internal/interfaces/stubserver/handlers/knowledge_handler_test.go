package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

type uploadFile struct {
	name    string
	content string
}

func uploadDocuments(t *testing.T, router *gin.Engine, files []uploadFile) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-documents", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadIndexesPDFDocuments(t *testing.T) {
	router, _ := newTestRouter(t)

	w := uploadDocuments(t, router, []uploadFile{
		{name: "cardio.pdf", content: "Chest pain evaluation requires ECG. Troponin rules out infarction."},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var ack triage.DocumentUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))

	assert.True(t, ack.Success)
	assert.Equal(t, 1, ack.DocumentsProcessed)
	assert.Equal(t, 1, ack.ChunksCreated)
	assert.Equal(t, "Successfully indexed 1 chunks from 1 documents", ack.Message)
}

func TestUploadRejectsNonPDFUploads(t *testing.T) {
	router, _ := newTestRouter(t)

	w := uploadDocuments(t, router, []uploadFile{
		{name: "notes.txt", content: "plain text notes"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var ack triage.DocumentUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))

	assert.False(t, ack.Success)
	assert.Zero(t, ack.DocumentsProcessed)
	assert.Equal(t, "No PDF files were uploaded", ack.Message)
}

func TestUploadKeepsOnlyPDFs(t *testing.T) {
	router, _ := newTestRouter(t)

	w := uploadDocuments(t, router, []uploadFile{
		{name: "guidelines.pdf", content: "Fever management in children."},
		{name: "readme.md", content: "not a guideline"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var ack triage.DocumentUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))

	assert.True(t, ack.Success)
	assert.Equal(t, 1, ack.DocumentsProcessed)
}

func TestSearchFindsUploadedContent(t *testing.T) {
	router, _ := newTestRouter(t)

	uploaded := uploadDocuments(t, router, []uploadFile{
		{name: "cardio.pdf", content: "Chest pain evaluation requires ECG. Troponin rules out infarction."},
	})
	require.Equal(t, http.StatusOK, uploaded.Code)

	w := getPath(t, router, "/api/knowledge/search?query=troponin+ecg")
	require.Equal(t, http.StatusOK, w.Code)

	var resp triage.KnowledgeSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "troponin ecg", resp.Query)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "cardio.pdf", resp.Results[0].Source)
	assert.InDelta(t, 1.0, resp.Results[0].Score, 1e-9)
}

func TestSearchRequiresQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	w := getPath(t, router, "/api/knowledge/search")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "query parameter is required")
}

func TestSearchFallsBackOnEmptyIndex(t *testing.T) {
	router, _ := newTestRouter(t)

	w := getPath(t, router, "/api/knowledge/search?query=chest+pain+guidelines")
	require.Equal(t, http.StatusOK, w.Code)

	var resp triage.KnowledgeSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "system", resp.Results[0].Source)
	assert.InDelta(t, 0.5, resp.Results[0].Score, 1e-9)
	assert.Contains(t, resp.Results[0].Text, "Please upload ICMR Standard Treatment Workflow documents")
	assert.Equal(t, true, resp.Results[0].Metadata["fallback"])
}

func TestStatsReflectIndexState(t *testing.T) {
	router, _ := newTestRouter(t)

	empty := getPath(t, router, "/api/knowledge/stats")
	require.Equal(t, http.StatusOK, empty.Code)

	var before map[string]any
	require.NoError(t, json.Unmarshal(empty.Body.Bytes(), &before))
	assert.Equal(t, false, before["index_loaded"])
	assert.Equal(t, float64(0), before["total_chunks"])

	uploaded := uploadDocuments(t, router, []uploadFile{
		{name: "cardio.pdf", content: "Chest pain evaluation requires ECG."},
	})
	require.Equal(t, http.StatusOK, uploaded.Code)

	filled := getPath(t, router, "/api/knowledge/stats")
	require.Equal(t, http.StatusOK, filled.Code)

	var after map[string]any
	require.NoError(t, json.Unmarshal(filled.Body.Bytes(), &after))
	assert.Equal(t, true, after["index_loaded"])
	assert.Equal(t, float64(1), after["total_documents"])
	assert.Equal(t, []any{"cardio.pdf"}, after["unique_sources"])
}
