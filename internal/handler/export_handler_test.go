package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
	"github.com/kantah-go/arsip-vital-api/pkg/export"
	"github.com/kantah-go/arsip-vital-api/pkg/storage"
)

type memExportStore struct {
	files map[string][]byte
}

func newMemExportStore() *memExportStore {
	return &memExportStore{files: make(map[string][]byte)}
}

func (m *memExportStore) Save(filename string, data []byte) (string, error) {
	m.files[filename] = data
	return filename, nil
}

func (m *memExportStore) Read(filename string) ([]byte, error) {
	data, ok := m.files[filename]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", filename)
	}
	return data, nil
}

type staticDocSource struct {
	docs []models.Document
}

func (s *staticDocSource) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error) {
	return s.docs, len(s.docs), nil
}

type staticDetailsSource struct {
	details []models.ArchiveEntryDetail
}

func (s *staticDetailsSource) ListDetails(ctx context.Context, filter models.ArchiveEntryFilter) ([]models.ArchiveEntryDetail, error) {
	return s.details, nil
}

func exportTestFixture() (*gin.Engine, *memExportStore) {
	gin.SetMode(gin.TestMode)

	nomor := "DI-208/2024/15"
	year := time.Date(1998, time.January, 1, 0, 0, 0, 0, time.UTC)
	doc := models.Document{ID: 15, NomorDokumen: &nomor, TahunTerbit: &year}

	store := newMemExportStore()
	svc := service.NewExportService(service.ExportServiceParams{
		Documents: map[models.DocumentKind]service.DocumentDatasetSource{
			models.KindBukuTanah: &staticDocSource{docs: []models.Document{doc}},
		},
		Details: &staticDetailsSource{},
		CSV:     export.NewCSVExporter(),
		DOCX:    export.NewDOCXExporter(),
		PDF:     export.NewPDFExporter(),
		Store:   store,
		Signer:  storage.NewSignedURLSigner("handler-test-secret", time.Hour),
	})
	h := NewExportHandler(svc)

	r := gin.New()
	r.GET("/exports/:kind", h.Documents)
	r.GET("/exports-daftar-arsip", h.ArchiveIndex)
	r.GET("/exports-download", h.Download)
	return r, store
}

func TestExportDocumentsReturnsSignedDownloadURL(t *testing.T) {
	router, store := exportTestFixture()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/buku-tanah?format=csv&columns=nomor_dokumen,tahun_terbit", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var resp dto.ExportResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "text/csv", resp.ContentType)
	assert.Contains(t, resp.DownloadURL, "/api/v1/exports/download?token=")
	require.Len(t, store.files, 1)
	for _, data := range store.files {
		content := string(data)
		assert.Contains(t, content, "Nomor DI-208")
		assert.Contains(t, content, "1998")
	}
}

func TestExportDocumentsRejectsUnknownKind(t *testing.T) {
	router, _ := exportTestFixture()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/sertifikat?format=csv", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportDocumentsRejectsUnknownFormat(t *testing.T) {
	router, _ := exportTestFixture()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/buku-tanah?format=xlsx", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportDownloadRoundTrip(t *testing.T) {
	router, _ := exportTestFixture()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/buku-tanah?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var resp dto.ExportResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))

	idx := strings.Index(resp.DownloadURL, "token=")
	require.Greater(t, idx, 0)
	token := resp.DownloadURL[idx+len("token="):]

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports-download?token="+url.QueryEscape(token), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "DI-208/2024/15")
}

func TestExportDownloadRejectsTamperedToken(t *testing.T) {
	router, _ := exportTestFixture()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports-download?token=bogus.token.value", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
