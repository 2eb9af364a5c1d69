package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/dto"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
)

type mockLocationRepo struct {
	locations map[int64]models.Location
	nextID    int64
}

func (m *mockLocationRepo) Create(ctx context.Context, loc *models.Location) error {
	if m.locations == nil {
		m.locations = make(map[int64]models.Location)
	}
	m.nextID++
	loc.ID = m.nextID
	m.locations[loc.ID] = *loc
	return nil
}

func (m *mockLocationRepo) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	if l, ok := m.locations[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLocationRepo) List(ctx context.Context, filter models.LocationFilter) ([]models.Location, int, error) {
	out := make([]models.Location, 0, len(m.locations))
	for _, l := range m.locations {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (m *mockLocationRepo) Update(ctx context.Context, loc *models.Location) error {
	if _, ok := m.locations[loc.ID]; !ok {
		return sql.ErrNoRows
	}
	m.locations[loc.ID] = *loc
	return nil
}

func (m *mockLocationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.locations[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.locations, id)
	return nil
}

func newLocationService(repo *mockLocationRepo) *LocationService {
	return NewLocationService(LocationServiceParams{Repo: repo})
}

func TestLocationCreate(t *testing.T) {
	svc := newLocationService(&mockLocationRepo{})

	loc, err := svc.Create(context.Background(), dto.LocationPayload{
		KodeLokasi: "R1-RAK2-B3",
		Kapasitas:  100,
		Terpakai:   40,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), loc.ID)
	assert.Equal(t, "R1-RAK2-B3", loc.KodeLokasi)
}

func TestLocationCreateRejectsOverCapacity(t *testing.T) {
	svc := newLocationService(&mockLocationRepo{})

	_, err := svc.Create(context.Background(), dto.LocationPayload{
		KodeLokasi: "R1-RAK2-B3",
		Kapasitas:  10,
		Terpakai:   11,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
}

func TestLocationCreateRequiresKodeLokasi(t *testing.T) {
	svc := newLocationService(&mockLocationRepo{})

	_, err := svc.Create(context.Background(), dto.LocationPayload{Kapasitas: 10})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLocationUpdateOverCapacity(t *testing.T) {
	repo := &mockLocationRepo{locations: map[int64]models.Location{1: {ID: 1, KodeLokasi: "A", Kapasitas: 10}}, nextID: 1}
	svc := newLocationService(repo)

	_, err := svc.Update(context.Background(), 1, dto.LocationPayload{KodeLokasi: "A", Kapasitas: 5, Terpakai: 6})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErr.Code)
}

func TestLocationDeleteMissing(t *testing.T) {
	svc := newLocationService(&mockLocationRepo{})

	err := svc.Delete(context.Background(), 3)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
