package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
	"github.com/kantah-go/arsip-vital-api/pkg/export"
)

// Export formats accepted by the handlers.
const (
	FormatCSV  = "csv"
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
)

// exportableColumns is the allow-list of document columns in display order.
// Column names outside this list are dropped from the selection without error.
var exportableColumns = []string{
	"id",
	"nomor_dokumen",
	"nomor_hak",
	"jenis_hak",
	"tahun_terbit",
	"kode_klasifikasi",
	"jenis_arsip_vital",
	"uraian_informasi_arsip",
	"media",
	"jumlah",
	"jangka_simpan_aktif",
	"jangka_simpan_inaktif",
	"jangka_simpan_keterangan",
	"tingkat_perkembangan",
	"lokasi_penyimpanan",
	"no_boks_definitif",
	"nomor_folder",
	"metode_perlindungan",
	"keterangan",
}

var exportHeaderLabels = map[string]string{
	"id":                       "ID",
	"nomor_hak":                "Nomor Hak",
	"jenis_hak":                "Jenis Hak",
	"tahun_terbit":             "Tahun",
	"kode_klasifikasi":         "Kode Klasifikasi",
	"jenis_arsip_vital":        "Jenis Arsip Vital",
	"uraian_informasi_arsip":   "Uraian Informasi Arsip",
	"media":                    "Media",
	"jumlah":                   "Jumlah",
	"jangka_simpan_aktif":      "Jangka Simpan Aktif",
	"jangka_simpan_inaktif":    "Jangka Simpan Inaktif",
	"jangka_simpan_keterangan": "Keterangan Jangka Simpan",
	"tingkat_perkembangan":     "Tingkat Perkembangan",
	"lokasi_penyimpanan":       "Lokasi Penyimpanan",
	"no_boks_definitif":        "No Boks Definitif",
	"nomor_folder":             "Nomor Folder",
	"metode_perlindungan":      "Metode Perlindungan",
	"keterangan":               "Keterangan",
}

// registerNumberLabels names the nomor_dokumen column per document kind,
// matching the register each table records.
var registerNumberLabels = map[models.DocumentKind]string{
	models.KindBukuTanah: "Nomor DI-208",
	models.KindSuratUkur: "Nomor Surat Ukur",
	models.KindWarkah:    "Nomor Warkah",
}

// DocumentDatasetSource lists document rows for dataset rendering.
// DocumentService satisfies it for each of the three tables.
type DocumentDatasetSource interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error)
}

type detailDatasetSource interface {
	ListDetails(ctx context.Context, filter models.ArchiveEntryFilter) ([]models.ArchiveEntryDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportFileStore interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

type downloadSigner interface {
	Generate(resourceID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (resourceID, relPath string, expiresAt time.Time, err error)
}

// ExportService renders filtered listings into downloadable CSV, DOCX and
// PDF files and hands out signed download tokens for them.
type ExportService struct {
	documents map[models.DocumentKind]DocumentDatasetSource
	details   detailDatasetSource
	csv       csvRenderer
	docx      titledRenderer
	pdf       titledRenderer
	store     exportFileStore
	signer    downloadSigner
	logger    *zap.Logger
	now       func() time.Time
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Documents map[models.DocumentKind]DocumentDatasetSource
	Details   detailDatasetSource
	CSV       csvRenderer
	DOCX      titledRenderer
	PDF       titledRenderer
	Store     exportFileStore
	Signer    downloadSigner
	Logger    *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(params ExportServiceParams) *ExportService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &ExportService{
		documents: params.Documents,
		details:   params.Details,
		csv:       params.CSV,
		docx:      params.DOCX,
		pdf:       params.PDF,
		store:     params.Store,
		signer:    params.Signer,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// ExportDocuments renders a document listing into the requested format and
// returns a signed download reference.
func (s *ExportService) ExportDocuments(ctx context.Context, kind models.DocumentKind, req dto.ExportRequest) (*dto.ExportResponse, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown document kind")
	}
	source, ok := s.documents[kind]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown document kind")
	}

	docs, _, err := source.List(ctx, models.DocumentFilter{Query: req.Query, Page: 1, PageSize: 1000})
	if err != nil {
		s.logger.Error("export listing failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	columns := filterColumns(req.Columns)
	headers := make([]string, 0, len(columns))
	for _, col := range columns {
		headers = append(headers, s.headerLabel(kind, col))
	}

	rows := make([]map[string]string, 0, len(docs))
	for i := range docs {
		row := make(map[string]string, len(columns))
		for _, col := range columns {
			row[s.headerLabel(kind, col)] = documentCell(&docs[i], col)
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("Daftar %s", kindTitle(kind))
	return s.renderAndStore(kind.Table(), title, export.Dataset{Headers: headers, Rows: rows}, req.Format)
}

// ExportArchiveIndex renders the denormalized archive index listing.
func (s *ExportService) ExportArchiveIndex(ctx context.Context, req dto.ExportRequest) (*dto.ExportResponse, error) {
	details, err := s.details.ListDetails(ctx, models.ArchiveEntryFilter{Query: req.Query})
	if err != nil {
		s.logger.Error("export index listing failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	headers := []string{
		"No Urut", "Kode Klasifikasi", "Jenis Arsip Vital", "Nomor Item Arsip / Uraian",
		"Kurun Waktu", "Nomor DI-208", "Nomor Surat Ukur", "Nomor Warkah",
		"Media BT", "Media SU", "Media Warkah",
		"Jangka Simpan Aktif", "Jangka Simpan Inaktif", "Tingkat Perkembangan", "Keterangan",
	}
	rows := make([]map[string]string, 0, len(details))
	for i := range details {
		d := &details[i]
		rows = append(rows, map[string]string{
			"No Urut":                   strconv.FormatInt(d.NomorUrut, 10),
			"Kode Klasifikasi":          deref(d.KodeKlasifikasi),
			"Jenis Arsip Vital":         deref(d.JenisArsipVital),
			"Nomor Item Arsip / Uraian": deref(d.NomorItemUraian),
			"Kurun Waktu":               deref(d.KurunWaktu),
			"Nomor DI-208":              deref(d.BTNomorDokumen),
			"Nomor Surat Ukur":          deref(d.SUNomorDokumen),
			"Nomor Warkah":              deref(d.WarkahNomorDokumen),
			"Media BT":                  deref(d.MediaBukuTanah),
			"Media SU":                  deref(d.MediaSuratUkur),
			"Media Warkah":              deref(d.MediaWarkah),
			"Jangka Simpan Aktif":       deref(d.JangkaSimpanAktif),
			"Jangka Simpan Inaktif":     deref(d.JangkaSimpanInaktif),
			"Tingkat Perkembangan":      deref(d.TingkatPerkembangan),
			"Keterangan":                deref(d.Keterangan),
		})
	}

	return s.renderAndStore("daftar_arsip_vital", "Daftar Arsip Vital", export.Dataset{Headers: headers, Rows: rows}, req.Format)
}

// Download resolves a signed token into file bytes, filename and content type.
func (s *ExportService) Download(token string) ([]byte, string, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "download link is invalid or expired")
	}
	data, err := s.store.Read(relPath)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	filename := relPath
	if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
		filename = relPath[idx+1:]
	}
	return data, filename, contentTypeFor(filename), nil
}

func (s *ExportService) renderAndStore(prefix, title string, data export.Dataset, format string) (*dto.ExportResponse, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}

	var (
		raw []byte
		err error
		ext string
	)
	switch format {
	case FormatCSV:
		raw, err = s.csv.Render(data)
		ext = "csv"
	case FormatDOCX:
		raw, err = s.docx.Render(data, title)
		ext = "docx"
	case FormatPDF:
		raw, err = s.pdf.Render(data, title)
		ext = "pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of csv, docx, pdf")
	}
	if err != nil {
		s.logger.Error("render export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	filename := fmt.Sprintf("%s_export_%s.%s", prefix, s.now().Format("20060102_150405"), ext)
	relPath, err := s.store.Save(filename, raw)
	if err != nil {
		s.logger.Error("store export failed", zap.String("filename", filename), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	token, _, err := s.signer.Generate(prefix, relPath)
	if err != nil {
		s.logger.Error("sign export url failed", zap.String("filename", filename), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	return &dto.ExportResponse{
		Filename:    filename,
		ContentType: contentTypeFor(filename),
		DownloadURL: "/api/v1/exports/download?token=" + token,
	}, nil
}

func (s *ExportService) headerLabel(kind models.DocumentKind, column string) string {
	if column == "nomor_dokumen" {
		return registerNumberLabels[kind]
	}
	return exportHeaderLabels[column]
}

// filterColumns keeps the allow-listed subset of the selection, preserving
// the canonical display order. An empty selection exports every column.
func filterColumns(selected []string) []string {
	if len(selected) == 0 {
		return exportableColumns
	}
	wanted := make(map[string]bool, len(selected))
	for _, col := range selected {
		wanted[strings.TrimSpace(strings.ToLower(col))] = true
	}
	out := make([]string, 0, len(selected))
	for _, col := range exportableColumns {
		if wanted[col] {
			out = append(out, col)
		}
	}
	if len(out) == 0 {
		return exportableColumns
	}
	return out
}

func documentCell(doc *models.Document, column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(doc.ID, 10)
	case "nomor_dokumen":
		return deref(doc.NomorDokumen)
	case "nomor_hak":
		return deref(doc.NomorHak)
	case "jenis_hak":
		return deref(doc.JenisHak)
	case "tahun_terbit":
		if doc.TahunTerbit == nil {
			return ""
		}
		return strconv.Itoa(doc.TahunTerbit.Year())
	case "kode_klasifikasi":
		return deref(doc.KodeKlasifikasi)
	case "jenis_arsip_vital":
		return deref(doc.JenisArsipVital)
	case "uraian_informasi_arsip":
		return deref(doc.UraianInformasiArsip)
	case "media":
		return deref(doc.Media)
	case "jumlah":
		if doc.Jumlah == nil {
			return ""
		}
		return strconv.FormatFloat(*doc.Jumlah, 'f', -1, 64)
	case "jangka_simpan_aktif":
		return deref(doc.JangkaSimpanAktif)
	case "jangka_simpan_inaktif":
		return deref(doc.JangkaSimpanInaktif)
	case "jangka_simpan_keterangan":
		return deref(doc.JangkaSimpanKet)
	case "tingkat_perkembangan":
		return deref(doc.TingkatPerkembangan)
	case "lokasi_penyimpanan":
		return deref(doc.LokasiPenyimpanan)
	case "no_boks_definitif":
		return deref(doc.NoBoksDefinitif)
	case "nomor_folder":
		if doc.NomorFolder == nil {
			return ""
		}
		return strconv.FormatInt(*doc.NomorFolder, 10)
	case "metode_perlindungan":
		return deref(doc.MetodePerlindungan)
	case "keterangan":
		return deref(doc.Keterangan)
	}
	return ""
}

func kindTitle(kind models.DocumentKind) string {
	switch kind {
	case models.KindBukuTanah:
		return "Buku Tanah"
	case models.KindSuratUkur:
		return "Surat Ukur"
	default:
		return "Warkah"
	}
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".csv"):
		return "text/csv"
	case strings.HasSuffix(filename, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	}
	return "application/octet-stream"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
