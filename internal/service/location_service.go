package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
)

type locationRepository interface {
	Create(ctx context.Context, loc *models.Location) error
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context, filter models.LocationFilter) ([]models.Location, int, error)
	Update(ctx context.Context, loc *models.Location) error
	Delete(ctx context.Context, id int64) error
}

// LocationService manages capacity-tracked storage slots.
type LocationService struct {
	repo     locationRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// LocationServiceParams groups constructor dependencies.
type LocationServiceParams struct {
	Repo     locationRepository
	Validate *validator.Validate
	Logger   *zap.Logger
}

// NewLocationService constructs the service.
func NewLocationService(params LocationServiceParams) *LocationService {
	if params.Validate == nil {
		params.Validate = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &LocationService{repo: params.Repo, validate: params.Validate, logger: params.Logger}
}

// Create validates and stores a new slot.
func (s *LocationService) Create(ctx context.Context, payload dto.LocationPayload) (*models.Location, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if payload.Terpakai > payload.Kapasitas {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "")
	}
	loc := &models.Location{}
	applyLocationPayload(loc, payload)
	if err := s.repo.Create(ctx, loc); err != nil {
		s.logger.Error("create lokasi failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return loc, nil
}

// Get returns one slot.
func (s *LocationService) Get(ctx context.Context, id int64) (*models.Location, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return loc, nil
}

// List returns slots with pagination metadata.
func (s *LocationService) List(ctx context.Context, filter models.LocationFilter) ([]models.Location, *models.Pagination, error) {
	locations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 100
	}
	return locations, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update validates and rewrites a slot.
func (s *LocationService) Update(ctx context.Context, id int64, payload dto.LocationPayload) (*models.Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(payload); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if payload.Terpakai > payload.Kapasitas {
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "")
	}
	applyLocationPayload(loc, payload)
	if err := s.repo.Update(ctx, loc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
		}
		s.logger.Error("update lokasi failed", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return loc, nil
}

// Delete removes a slot.
func (s *LocationService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "identifier must be a positive integer")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "location not found")
		}
		s.logger.Error("delete lokasi failed", zap.Int64("id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "operation failed")
	}
	return nil
}

func applyLocationPayload(loc *models.Location, payload dto.LocationPayload) {
	loc.KodeLokasi = payload.KodeLokasi
	loc.Ruangan = payload.Ruangan
	loc.NoRak = payload.NoRak
	loc.LabelBaris = payload.LabelBaris
	loc.NoPos = payload.NoPos
	loc.Kapasitas = payload.Kapasitas
	loc.Terpakai = payload.Terpakai
	loc.Notes = payload.Notes
}
