package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
	"github.com/kantah-go/arsip-vital-api/pkg/jobs"
)

type documentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error)
	Update(ctx context.Context, doc *models.Document) error
	UpdateQRPath(ctx context.Context, id int64, qrPath string) error
	Delete(ctx context.Context, id int64) error
}

type documentFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Exists(filename string) bool
	Read(filename string) ([]byte, error)
	Delete(filename string) error
}

type qrGenerator interface {
	GeneratePNG(kind string, id int64) ([]byte, error)
}

type taskEnqueuer interface {
	Enqueue(task jobs.Task) error
}

// DocumentService manages one document table: CRUD with enum validation,
// attachment replacement and QR image handling. One instance is constructed
// per document kind.
type DocumentService struct {
	kind    models.DocumentKind
	repo    documentRepository
	storage documentFileStorage
	qr      qrGenerator
	queue   taskEnqueuer
	logger  *zap.Logger
}

// DocumentServiceParams groups constructor dependencies.
type DocumentServiceParams struct {
	Kind    models.DocumentKind
	Repo    documentRepository
	Storage documentFileStorage
	QR      qrGenerator
	Queue   taskEnqueuer
	Logger  *zap.Logger
}

// NewDocumentService constructs a service bound to one document kind.
func NewDocumentService(params DocumentServiceParams) *DocumentService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &DocumentService{
		kind:    params.Kind,
		repo:    params.Repo,
		storage: params.Storage,
		qr:      params.QR,
		queue:   params.Queue,
		logger:  params.Logger,
	}
}

// Kind returns the document kind the service manages.
func (s *DocumentService) Kind() models.DocumentKind {
	return s.kind
}

// QRTaskKind names the background task that pre-generates QR images.
const QRTaskKind = "qr_pregenerate"

// QRTaskPayload identifies the document a QR task targets.
type QRTaskPayload struct {
	Kind models.DocumentKind
	ID   int64
}

// Create validates and stores a document with its accepted attachments,
// then enqueues QR pre-generation.
func (s *DocumentService) Create(ctx context.Context, payload dto.DocumentPayload, uploads []dto.UploadedFile) (*models.Document, error) {
	doc := &models.Document{}
	if err := s.applyPayload(doc, payload); err != nil {
		return nil, err
	}
	if len(uploads) > 0 {
		paths := make([]string, 0, len(uploads))
		for _, f := range uploads {
			paths = append(paths, f.RelativePath)
		}
		doc.SetFileList(paths)
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("create document failed", zap.String("kind", string(s.kind)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	if s.queue != nil {
		task := jobs.Task{
			ID:      fmt.Sprintf("%s-%d", s.kind.Table(), doc.ID),
			Kind:    QRTaskKind,
			Payload: QRTaskPayload{Kind: s.kind, ID: doc.ID},
		}
		if err := s.queue.Enqueue(task); err != nil {
			s.logger.Warn("enqueue qr task failed", zap.Int64("id", doc.ID), zap.Error(err))
		}
	}
	return doc, nil
}

// Get returns one document.
func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Document, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return doc, nil
}

// List returns documents with pagination metadata.
func (s *DocumentService) List(ctx context.Context, req dto.DocumentListRequest) ([]models.Document, *models.Pagination, error) {
	docs, total, err := s.repo.List(ctx, models.DocumentFilter{Query: req.Query, Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 50
	}
	return docs, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update validates and rewrites a document. New uploads replace the stored
// attachment list; the replaced files are unlinked from disk after the row
// is written, outside the transaction, so a crash in between leaves orphans
// on disk rather than a row pointing at deleted files.
func (s *DocumentService) Update(ctx context.Context, id int64, payload dto.DocumentPayload, uploads []dto.UploadedFile) (*models.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPayload(doc, payload); err != nil {
		return nil, err
	}

	var replaced []string
	if len(uploads) > 0 {
		replaced = doc.FileList()
		paths := make([]string, 0, len(uploads))
		for _, f := range uploads {
			paths = append(paths, f.RelativePath)
		}
		doc.SetFileList(paths)
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		s.logger.Error("update document failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	s.removeFiles(replaced)
	return doc, nil
}

// Delete removes a document row and best-effort unlinks its attachments and
// QR image from disk.
func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		s.logger.Error("delete document failed", zap.Int64("id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}

	s.removeFiles(doc.FileList())
	if doc.QRPath != nil {
		s.removeFiles([]string{*doc.QRPath})
	}
	return nil
}

// QRPNG returns the QR image bytes for a document, serving the persisted
// file when present and generating on the fly otherwise.
func (s *DocumentService) QRPNG(ctx context.Context, id int64) ([]byte, string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("%s_%d_qr.png", s.kind.Table(), id)

	if doc.QRPath != nil && s.storage != nil && s.storage.Exists(*doc.QRPath) {
		data, err := s.storage.Read(*doc.QRPath)
		if err == nil {
			return data, filename, nil
		}
		s.logger.Warn("read persisted qr failed, regenerating", zap.Int64("id", id), zap.Error(err))
	}

	data, err := s.qr.GeneratePNG(s.kind.Slug(), id)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return data, filename, nil
}

// GenerateAndStoreQR renders the document's QR PNG to storage and records
// its path. Used as the background queue handler and safe to re-run.
func (s *DocumentService) GenerateAndStoreQR(ctx context.Context, id int64) error {
	data, err := s.qr.GeneratePNG(s.kind.Slug(), id)
	if err != nil {
		return fmt.Errorf("generate qr for %s/%d: %w", s.kind, id, err)
	}
	relPath := fmt.Sprintf("qr/%s-%d.png", s.kind.Table(), id)
	if _, err := s.storage.Save(relPath, data); err != nil {
		return fmt.Errorf("store qr for %s/%d: %w", s.kind, id, err)
	}
	if err := s.repo.UpdateQRPath(ctx, id, relPath); err != nil {
		return fmt.Errorf("record qr path for %s/%d: %w", s.kind, id, err)
	}
	return nil
}

func (s *DocumentService) removeFiles(paths []string) {
	if s.storage == nil {
		return
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.storage.Delete(p); err != nil {
			s.logger.Warn("remove stored file failed", zap.String("path", p), zap.Error(err))
		}
	}
}

// applyPayload validates field domains and writes payload values onto the
// document. String pointers pass through; numeric fields are parsed from
// their form representation.
func (s *DocumentService) applyPayload(doc *models.Document, payload dto.DocumentPayload) error {
	if payload.JenisHak != nil && *payload.JenisHak != "" && !models.ValidJenisHak(*payload.JenisHak) {
		return appErrors.Clone(appErrors.ErrValidation, "jenis_hak is not a recognised rights type")
	}
	if payload.Media != nil && *payload.Media != "" && !models.ValidMedia(*payload.Media) {
		return appErrors.Clone(appErrors.ErrValidation, "media is not a recognised media type")
	}
	if payload.TingkatPerkembangan != nil && *payload.TingkatPerkembangan != "" && !models.ValidTingkatPerkembangan(*payload.TingkatPerkembangan) {
		return appErrors.Clone(appErrors.ErrValidation, "tingkat_perkembangan is not a recognised development level")
	}
	if payload.MetodePerlindungan != nil && *payload.MetodePerlindungan != "" && !models.ValidMetodePerlindungan(*payload.MetodePerlindungan) {
		return appErrors.Clone(appErrors.ErrValidation, "metode_perlindungan is not a recognised protection method")
	}

	doc.NomorDokumen = payload.NomorDokumen
	doc.NomorHak = payload.NomorHak
	doc.JenisHak = payload.JenisHak
	doc.KodeKlasifikasi = payload.KodeKlasifikasi
	doc.JenisArsipVital = payload.JenisArsipVital
	doc.UraianInformasiArsip = payload.UraianInformasi
	doc.Media = payload.Media
	doc.JangkaSimpanAktif = payload.JangkaSimpanAktif
	doc.JangkaSimpanInaktif = payload.JangkaSimpanInaktif
	doc.JangkaSimpanKet = payload.JangkaSimpanKet
	doc.TingkatPerkembangan = payload.TingkatPerkembangan
	doc.LokasiPenyimpanan = payload.LokasiPenyimpanan
	doc.NoBoksDefinitif = payload.NoBoksDefinitif
	doc.MetodePerlindungan = payload.MetodePerlindungan
	doc.Keterangan = payload.Keterangan

	if payload.TahunTerbit != nil && strings.TrimSpace(*payload.TahunTerbit) != "" {
		doc.TahunTerbit = ParseDateIndo(*payload.TahunTerbit)
	} else if payload.TahunTerbit != nil {
		doc.TahunTerbit = nil
	}

	if payload.Jumlah != nil {
		raw := strings.TrimSpace(strings.ReplaceAll(*payload.Jumlah, ",", "."))
		if raw == "" {
			doc.Jumlah = nil
		} else {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil || n < 0 {
				return appErrors.Clone(appErrors.ErrValidation, "jumlah must be a number greater than or equal to zero")
			}
			doc.Jumlah = &n
		}
	}

	if payload.NomorFolder != nil {
		raw := strings.TrimSpace(*payload.NomorFolder)
		if raw == "" {
			doc.NomorFolder = nil
		} else {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n < 0 {
				return appErrors.Clone(appErrors.ErrValidation, "nomor_folder must be an integer greater than or equal to zero")
			}
			doc.NomorFolder = &n
		}
	}

	return nil
}
