package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
)

type fakeCountsRepo struct {
	total     int64
	thisMonth int64
	pending   map[string]int64
}

func (f *fakeCountsRepo) CountAll(ctx context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeCountsRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return f.thisMonth, nil
}

func (f *fakeCountsRepo) CountPending(ctx context.Context, convention string) (int64, error) {
	return f.pending[convention], nil
}

func newDashboardRouter(repo *fakeCountsRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Repo:   repo,
		Cache:  service.NewCacheService(nil, nil, 0, nil, false),
		Config: service.DashboardServiceConfig{UseCreatedAt: true},
	})
	h := NewDashboardHandler(dashboard, nil)

	r := gin.New()
	r.GET("/dashboard/counts", h.Counts)
	return r
}

func TestDashboardCounts(t *testing.T) {
	repo := &fakeCountsRepo{total: 120, thisMonth: 7, pending: map[string]int64{"is_processed": 4}}
	router := newDashboardRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/counts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var counts models.DashboardCounts
	require.NoError(t, json.Unmarshal(env.Data, &counts))
	assert.Equal(t, int64(120), counts.Total)
	assert.Equal(t, int64(7), counts.CurrentMonthCount)
	assert.Equal(t, int64(4), counts.PendingCount)
}

func TestDashboardCountsEmptyIndex(t *testing.T) {
	router := newDashboardRouter(&fakeCountsRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/counts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var counts models.DashboardCounts
	require.NoError(t, json.Unmarshal(env.Data, &counts))
	assert.Zero(t, counts.Total)
	assert.Zero(t, counts.PendingCount)
}
