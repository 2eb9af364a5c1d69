package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
)

type archiveEntryRepository interface {
	Create(ctx context.Context, entry *models.ArchiveEntry) error
	GetByID(ctx context.Context, id int64) (*models.ArchiveEntry, error)
	ExistsByNomorUrut(ctx context.Context, nomorUrut int64, excludeID int64) (bool, error)
	List(ctx context.Context, filter models.ArchiveEntryFilter) ([]models.ArchiveEntry, int, error)
	Update(ctx context.Context, entry *models.ArchiveEntry) error
	CascadeDelete(ctx context.Context, id int64) (map[models.DocumentKind]int64, error)
	GetDetail(ctx context.Context, id int64) (*models.ArchiveEntryDetail, error)
	ListDetails(ctx context.Context, filter models.ArchiveEntryFilter) ([]models.ArchiveEntryDetail, error)
}

// DocumentExistenceChecker answers whether a referenced document row exists.
// DocumentService satisfies it for each of the three tables.
type DocumentExistenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// countsBroadcaster is invoked after every successful index mutation. It
// must not fail past the caller.
type countsBroadcaster interface {
	BroadcastCounts(ctx context.Context)
}

// ArchiveEntryService owns the archive index: CRUD, the denormalized detail
// view and the cascading delete across the three document tables.
type ArchiveEntryService struct {
	repo        archiveEntryRepository
	documents   map[models.DocumentKind]DocumentExistenceChecker
	broadcaster countsBroadcaster
	validate    *validator.Validate
	logger      *zap.Logger
}

// ArchiveEntryServiceParams groups constructor dependencies.
type ArchiveEntryServiceParams struct {
	Repo        archiveEntryRepository
	Documents   map[models.DocumentKind]DocumentExistenceChecker
	Broadcaster countsBroadcaster
	Validate    *validator.Validate
	Logger      *zap.Logger
}

// NewArchiveEntryService constructs the service.
func NewArchiveEntryService(params ArchiveEntryServiceParams) *ArchiveEntryService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Validate == nil {
		params.Validate = validator.New()
	}
	return &ArchiveEntryService{
		repo:        params.Repo,
		documents:   params.Documents,
		broadcaster: params.Broadcaster,
		validate:    params.Validate,
		logger:      params.Logger,
	}
}

// ParseEntryID validates a route parameter as a positive integer identifier.
func ParseEntryID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	return id, nil
}

// Create validates and stores a new index entry, then broadcasts counts.
func (s *ArchiveEntryService) Create(ctx context.Context, payload dto.ArchiveEntryPayload) (*models.ArchiveEntry, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid archive entry payload")
	}
	if err := s.checkReferences(ctx, payload); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByNomorUrut(ctx, payload.NomorUrut, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	if exists {
		return nil, appErrors.ErrDuplicateSequence
	}

	entry := &models.ArchiveEntry{}
	applyEntryPayload(entry, payload)
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("create archive entry failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	s.broadcast(ctx)
	return entry, nil
}

// Get returns one index entry.
func (s *ArchiveEntryService) Get(ctx context.Context, id int64) (*models.ArchiveEntry, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "archive entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return entry, nil
}

// List returns index entries with pagination metadata.
func (s *ArchiveEntryService) List(ctx context.Context, req dto.ArchiveEntryListRequest) ([]models.ArchiveEntry, *models.Pagination, error) {
	filter := models.ArchiveEntryFilter{Query: req.Query, Page: req.Page, PageSize: req.PageSize}
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 50
	}
	return entries, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update validates and rewrites an index entry, then broadcasts counts.
func (s *ArchiveEntryService) Update(ctx context.Context, id int64, payload dto.ArchiveEntryPayload) (*models.ArchiveEntry, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid archive entry payload")
	}
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "archive entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	if err := s.checkReferences(ctx, payload); err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByNomorUrut(ctx, payload.NomorUrut, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	if exists {
		return nil, appErrors.ErrDuplicateSequence
	}

	applyEntryPayload(entry, payload)
	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "archive entry not found")
		}
		s.logger.Error("update archive entry failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	s.broadcast(ctx)
	return entry, nil
}

// CascadeDelete removes an entry and every document it references as one
// atomic unit, then broadcasts counts. Concurrent deletes of the same entry
// resolve as NotFound for whichever transaction loses the race.
func (s *ArchiveEntryService) CascadeDelete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	refs, err := s.repo.CascadeDelete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "archive entry not found")
		}
		s.logger.Error("cascade delete failed", zap.Int64("id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	s.logger.Info("archive entry deleted",
		zap.Int64("id", id),
		zap.Int("documents_removed", len(refs)))
	s.broadcast(ctx)
	return nil
}

// Detail assembles the denormalized view of one entry. Null or dangling
// document references yield nil fields, never an error.
func (s *ArchiveEntryService) Detail(ctx context.Context, id int64) (*models.ArchiveEntryDetail, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "archive entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return detail, nil
}

// ListDetails returns the denormalized view for listing/export.
func (s *ArchiveEntryService) ListDetails(ctx context.Context, req dto.ArchiveEntryListRequest) ([]models.ArchiveEntryDetail, error) {
	details, err := s.repo.ListDetails(ctx, models.ArchiveEntryFilter{Query: req.Query, Page: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return details, nil
}

// RefreshSnapshot recopies the descriptive snapshot columns from the live
// referenced documents. This is the single recomputation entry point for the
// cached fields; outside of it staleness is accepted.
func (s *ArchiveEntryService) RefreshSnapshot(ctx context.Context, id int64) (*models.ArchiveEntry, error) {
	detail, err := s.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := detail.ArchiveEntry
	entry.MediaBukuTanah = detail.BTMedia
	entry.JumlahBukuTanah = formatJumlah(detail.BTJumlah)
	entry.LokasiBTRuangRak = detail.BTLokasiPenyimpanan
	entry.LokasiBTNoBoks = detail.BTNoBoksDefinitif
	entry.LokasiBTNoFolder = detail.BTNomorFolder
	entry.MetodePerlindunganBT = detail.BTMetodePerlindungan

	entry.MediaSuratUkur = detail.SUMedia
	entry.JumlahSuratUkur = formatJumlah(detail.SUJumlah)
	entry.LokasiSURuangRak = detail.SULokasiPenyimpanan
	entry.LokasiSUNoBoks = detail.SUNoBoksDefinitif
	entry.LokasiSUNoFolder = detail.SUNomorFolder
	entry.MetodePerlindunganSU = detail.SUMetodePerlindungan

	entry.MediaWarkah = detail.WarkahMedia
	entry.JumlahWarkah = formatJumlah(detail.WarkahJumlah)
	entry.LokasiWarkahRuangRak = detail.WarkahLokasiPenyimpanan
	entry.LokasiWarkahNoBoks = detail.WarkahNoBoksDefinitif
	entry.LokasiWarkahNoFolder = detail.WarkahNomorFolder
	entry.MetodePerlindunganWarkah = detail.WarkahMetodePerlindungan

	if err := s.repo.Update(ctx, &entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "archive entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	s.broadcast(ctx)
	return &entry, nil
}

func (s *ArchiveEntryService) broadcast(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastCounts(ctx)
}

// checkReferences verifies that every populated soft reference points at an
// existing document row. The storage layer does not enforce this uniformly
// across schema revisions, so it is checked here at write time.
func (s *ArchiveEntryService) checkReferences(ctx context.Context, payload dto.ArchiveEntryPayload) error {
	refs := map[models.DocumentKind]*int64{
		models.KindBukuTanah: payload.BukuTanahRef,
		models.KindSuratUkur: payload.SuratUkurRef,
		models.KindWarkah:    payload.WarkahRef,
	}
	for kind, ref := range refs {
		if ref == nil {
			continue
		}
		checker, ok := s.documents[kind]
		if !ok {
			continue
		}
		exists, err := checker.Exists(ctx, *ref)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
		}
		if !exists {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("referenced %s %d does not exist", kind, *ref))
		}
	}
	return nil
}

func applyEntryPayload(entry *models.ArchiveEntry, payload dto.ArchiveEntryPayload) {
	entry.NomorUrut = payload.NomorUrut
	entry.KodeKlasifikasi = payload.KodeKlasifikasi
	entry.JenisArsipVital = payload.JenisArsipVital
	entry.NomorItemUraian = payload.NomorItemUraian
	entry.KurunWaktu = payload.KurunWaktu
	entry.MediaBukuTanah = payload.MediaBukuTanah
	entry.MediaSuratUkur = payload.MediaSuratUkur
	entry.MediaWarkah = payload.MediaWarkah
	entry.JumlahBukuTanah = payload.JumlahBukuTanah
	entry.JumlahSuratUkur = payload.JumlahSuratUkur
	entry.JumlahWarkah = payload.JumlahWarkah
	entry.JangkaSimpanAktif = payload.JangkaSimpanAktif
	entry.JangkaSimpanInaktif = payload.JangkaSimpanInaktif
	entry.JangkaSimpanKet = payload.JangkaSimpanKet
	entry.TingkatPerkembangan = payload.TingkatPerkembangan
	entry.LokasiBTRuangRak = payload.LokasiBTRuangRak
	entry.LokasiBTNoBoks = payload.LokasiBTNoBoks
	entry.LokasiBTNoFolder = payload.LokasiBTNoFolder
	entry.LokasiSURuangRak = payload.LokasiSURuangRak
	entry.LokasiSUNoBoks = payload.LokasiSUNoBoks
	entry.LokasiSUNoFolder = payload.LokasiSUNoFolder
	entry.LokasiWarkahRuangRak = payload.LokasiWarkahRuangRak
	entry.LokasiWarkahNoBoks = payload.LokasiWarkahNoBoks
	entry.LokasiWarkahNoFolder = payload.LokasiWarkahNoFolder
	entry.MetodePerlindunganBT = payload.MetodePerlindunganBT
	entry.MetodePerlindunganSU = payload.MetodePerlindunganSU
	entry.MetodePerlindunganWarkah = payload.MetodePerlindunganWarkah
	entry.Keterangan = payload.Keterangan
	entry.BukuTanahRef = payload.BukuTanahRef
	entry.SuratUkurRef = payload.SuratUkurRef
	entry.WarkahRef = payload.WarkahRef
	if payload.IsProcessed != nil {
		entry.IsProcessed = *payload.IsProcessed
	}
	entry.ProcessingNotes = payload.ProcessingNotes
}

func formatJumlah(v *float64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	return &s
}
