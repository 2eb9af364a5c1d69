package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
	"github.com/kantah-go/arsip-vital-api/pkg/export"
	"github.com/kantah-go/arsip-vital-api/pkg/storage"
)

type staticDocumentSource struct {
	docs []models.Document
}

func (s *staticDocumentSource) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error) {
	return s.docs, len(s.docs), nil
}

type staticDetailSource struct {
	details []models.ArchiveEntryDetail
}

func (s *staticDetailSource) ListDetails(ctx context.Context, filter models.ArchiveEntryFilter) ([]models.ArchiveEntryDetail, error) {
	return s.details, nil
}

func newExportService(docs []models.Document, details []models.ArchiveEntryDetail, store *memoryStorage) *ExportService {
	return NewExportService(ExportServiceParams{
		Documents: map[models.DocumentKind]DocumentDatasetSource{
			models.KindBukuTanah: &staticDocumentSource{docs: docs},
			models.KindSuratUkur: &staticDocumentSource{},
			models.KindWarkah:    &staticDocumentSource{},
		},
		Details: &staticDetailSource{details: details},
		CSV:     export.NewCSVExporter(),
		DOCX:    export.NewDOCXExporter(),
		PDF:     export.NewPDFExporter(),
		Store:   store,
		Signer:  storage.NewSignedURLSigner("test-secret", time.Hour),
	})
}

func sampleDocument() models.Document {
	year := time.Date(1998, time.March, 1, 0, 0, 0, 0, time.UTC)
	jumlah := 3.0
	return models.Document{
		ID:           15,
		NomorDokumen: strPtr("DI-208/2024/15"),
		NomorHak:     strPtr("HM 00123"),
		TahunTerbit:  &year,
		Jumlah:       &jumlah,
		Media:        strPtr("Kertas"),
	}
}

func TestExportDocumentsCSVUsesKindHeaderAndYear(t *testing.T) {
	store := newMemoryStorage()
	svc := newExportService([]models.Document{sampleDocument()}, nil, store)

	resp, err := svc.ExportDocuments(context.Background(), models.KindBukuTanah, dto.ExportRequest{
		Columns: []string{"nomor_dokumen", "tahun_terbit", "jumlah"},
		Format:  FormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", resp.ContentType)
	assert.Contains(t, resp.DownloadURL, "token=")

	raw, ok := store.files[resp.Filename]
	require.True(t, ok)
	content := string(raw)
	assert.Contains(t, content, "Nomor DI-208,Tahun,Jumlah")
	assert.Contains(t, content, "DI-208/2024/15,1998,3")
}

func TestExportDocumentsDropsUnknownColumns(t *testing.T) {
	store := newMemoryStorage()
	svc := newExportService([]models.Document{sampleDocument()}, nil, store)

	resp, err := svc.ExportDocuments(context.Background(), models.KindBukuTanah, dto.ExportRequest{
		Columns: []string{"nomor_hak", "password_hash", "drop table"},
		Format:  FormatCSV,
	})
	require.NoError(t, err)

	content := string(store.files[resp.Filename])
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Nomor Hak", lines[0])
	assert.Equal(t, "HM 00123", lines[1])
}

func TestExportDocumentsEmptySelectionExportsAllColumns(t *testing.T) {
	store := newMemoryStorage()
	svc := newExportService([]models.Document{sampleDocument()}, nil, store)

	resp, err := svc.ExportDocuments(context.Background(), models.KindBukuTanah, dto.ExportRequest{Format: FormatCSV})
	require.NoError(t, err)

	content := string(store.files[resp.Filename])
	header := strings.SplitN(content, "\n", 2)[0]
	assert.Equal(t, len(exportableColumns), len(strings.Split(header, ",")))
	assert.True(t, strings.HasPrefix(header, "ID,Nomor DI-208,"))
}

func TestExportDocumentsRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(nil, nil, newMemoryStorage())

	_, err := svc.ExportDocuments(context.Background(), models.KindBukuTanah, dto.ExportRequest{Format: "xlsx"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportDocumentsDOCXAndPDFRender(t *testing.T) {
	store := newMemoryStorage()
	svc := newExportService([]models.Document{sampleDocument()}, nil, store)

	for format, wantType := range map[string]string{
		FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		FormatPDF:  "application/pdf",
	} {
		resp, err := svc.ExportDocuments(context.Background(), models.KindBukuTanah, dto.ExportRequest{Format: format})
		require.NoError(t, err, format)
		assert.Equal(t, wantType, resp.ContentType)
		assert.NotEmpty(t, store.files[resp.Filename])
	}
}

func TestExportArchiveIndexIncludesJoinedRegisters(t *testing.T) {
	store := newMemoryStorage()
	details := []models.ArchiveEntryDetail{
		{
			ArchiveEntry:   models.ArchiveEntry{ID: 1, NomorUrut: 4, KodeKlasifikasi: strPtr("PN.02.01")},
			BTNomorDokumen: strPtr("DI-208/2024/15"),
		},
	}
	svc := newExportService(nil, details, store)

	resp, err := svc.ExportArchiveIndex(context.Background(), dto.ExportRequest{Format: FormatCSV})
	require.NoError(t, err)

	content := string(store.files[resp.Filename])
	assert.Contains(t, content, "No Urut")
	assert.Contains(t, content, "DI-208/2024/15")
	assert.Contains(t, content, "PN.02.01")
}

func TestDownloadRoundTrip(t *testing.T) {
	store := newMemoryStorage()
	svc := newExportService([]models.Document{sampleDocument()}, nil, store)

	resp, err := svc.ExportDocuments(context.Background(), models.KindBukuTanah, dto.ExportRequest{Format: FormatCSV})
	require.NoError(t, err)

	token := strings.TrimPrefix(resp.DownloadURL, "/api/v1/exports/download?token=")
	data, filename, contentType, err := svc.Download(token)
	require.NoError(t, err)
	assert.Equal(t, resp.Filename, filename)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, store.files[resp.Filename], data)
}

func TestDownloadRejectsTamperedToken(t *testing.T) {
	svc := newExportService(nil, nil, newMemoryStorage())

	_, _, _, err := svc.Download("abc.123.def.badsignature")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
