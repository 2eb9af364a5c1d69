package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
)

type fakeLocationRepo struct {
	locations map[int64]models.Location
	nextID    int64
}

func (f *fakeLocationRepo) Create(ctx context.Context, loc *models.Location) error {
	if f.locations == nil {
		f.locations = make(map[int64]models.Location)
	}
	f.nextID++
	loc.ID = f.nextID
	f.locations[loc.ID] = *loc
	return nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	if l, ok := f.locations[id]; ok {
		return &l, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeLocationRepo) List(ctx context.Context, filter models.LocationFilter) ([]models.Location, int, error) {
	out := make([]models.Location, 0, len(f.locations))
	for _, l := range f.locations {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, loc *models.Location) error {
	if _, ok := f.locations[loc.ID]; !ok {
		return sql.ErrNoRows
	}
	f.locations[loc.ID] = *loc
	return nil
}

func (f *fakeLocationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.locations[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.locations, id)
	return nil
}

func newLocationRouter(repo *fakeLocationRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewLocationService(service.LocationServiceParams{Repo: repo})
	h := NewLocationHandler(svc)

	r := gin.New()
	r.GET("/lokasi", h.List)
	r.POST("/lokasi", h.Create)
	r.GET("/lokasi/:id", h.Get)
	r.PUT("/lokasi/:id", h.Update)
	r.DELETE("/lokasi/:id", h.Delete)
	return r
}

func TestLocationCreate(t *testing.T) {
	repo := &fakeLocationRepo{}
	router := newLocationRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/lokasi", strings.NewReader(`{"kode_lokasi":"R1-A-01","kapasitas":100,"terpakai":25}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var loc models.Location
	require.NoError(t, json.Unmarshal(env.Data, &loc))
	assert.Equal(t, "R1-A-01", loc.KodeLokasi)
	assert.Equal(t, 25, loc.Terpakai)
}

func TestLocationCreateOverCapacity(t *testing.T) {
	router := newLocationRouter(&fakeLocationRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/lokasi", strings.NewReader(`{"kode_lokasi":"R1-A-01","kapasitas":10,"terpakai":11}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "CAPACITY_EXCEEDED", env.Error.Code)
}

func TestLocationCreateMissingKode(t *testing.T) {
	router := newLocationRouter(&fakeLocationRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/lokasi", strings.NewReader(`{"kapasitas":10}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocationGetMissing(t *testing.T) {
	router := newLocationRouter(&fakeLocationRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lokasi/7", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
