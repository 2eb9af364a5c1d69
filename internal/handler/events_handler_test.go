package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantah-go/arsip-vital-api/internal/service"
)

func TestEventsCountsStreamsInitialSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Repo:  &fakeCountsRepo{total: 42, pending: map[string]int64{"is_processed": 3}},
		Cache: service.NewCacheService(nil, nil, 0, nil, false),
	})
	notifier := service.NewNotifierService(service.NotifierServiceParams{})
	h := NewEventsHandler(notifier, dashboard)

	r := gin.New()
	r.GET("/dashboard/events", h.Counts)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/events", nil).WithContext(ctx)
	r.ServeHTTP(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.Contains(t, body, "event:counts")
	assert.Contains(t, body, `"total":42`)
	assert.Contains(t, body, `"pending_count":3`)
}
