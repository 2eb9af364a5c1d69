package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kantah-go/arsip-vital-api/internal/service"
)

// EventsHandler streams dashboard count updates over server-sent events.
type EventsHandler struct {
	notifier  *service.NotifierService
	dashboard *service.DashboardService
	heartbeat time.Duration
}

// NewEventsHandler constructs the handler.
func NewEventsHandler(notifier *service.NotifierService, dashboard *service.DashboardService) *EventsHandler {
	return &EventsHandler{notifier: notifier, dashboard: dashboard, heartbeat: 30 * time.Second}
}

// Counts godoc
// @Summary Live dashboard counts stream
// @Description Server-sent events; pushes a counts snapshot on connect and
// after every index mutation.
// @Tags Dashboard
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /dashboard/events [get]
func (h *EventsHandler) Counts(c *gin.Context) {
	id, updates := h.notifier.Attach()
	defer h.notifier.Detach(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// observers always start from the current state
	if counts, err := h.dashboard.Counts(c.Request.Context()); err == nil {
		c.SSEvent("counts", counts)
		c.Writer.Flush()
	}

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case counts, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("counts", counts)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}
