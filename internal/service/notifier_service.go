package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kantah-go/arsip-vital-api/internal/models"
)

// countsBridge fans broadcasts out across instances over pub/sub.
type countsBridge interface {
	Publish(ctx context.Context, channel string, payload interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan *redis.Message, func() error)
}

// NotifierService delivers count snapshots to connected observers. Observers
// attach a buffered channel; delivery is at-most-once per broadcast and a
// slow observer is skipped rather than blocking the sender. With a Redis
// bridge configured, broadcasts travel via pub/sub so every instance's
// observers are reached exactly once.
type NotifierService struct {
	bridge  countsBridge
	channel string
	metrics *MetricsService
	logger  *zap.Logger

	mu        sync.Mutex
	observers map[int64]chan models.DashboardCounts
	nextID    int64
}

// NotifierServiceParams groups constructor dependencies.
type NotifierServiceParams struct {
	Bridge  countsBridge
	Channel string
	Metrics *MetricsService
	Logger  *zap.Logger
}

// NewNotifierService constructs the notifier.
func NewNotifierService(params NotifierServiceParams) *NotifierService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Channel == "" {
		params.Channel = "arsip:counts"
	}
	return &NotifierService{
		bridge:    params.Bridge,
		channel:   params.Channel,
		metrics:   params.Metrics,
		logger:    params.Logger,
		observers: make(map[int64]chan models.DashboardCounts),
	}
}

// Attach registers an observer and returns its id and delivery channel.
func (s *NotifierService) Attach() (int64, <-chan models.DashboardCounts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	ch := make(chan models.DashboardCounts, 4)
	s.observers[id] = ch
	s.metrics.ObserverConnected()
	return id, ch
}

// Detach removes an observer and closes its channel.
func (s *NotifierService) Detach(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.observers[id]
	if !ok {
		return
	}
	delete(s.observers, id)
	close(ch)
	s.metrics.ObserverDisconnected()
}

// ObserverCount reports how many observers are attached.
func (s *NotifierService) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Publish pushes a counts snapshot to every attached observer. Delivery to a
// full channel is dropped so one stalled connection cannot stall the rest.
// Publish never returns an error.
func (s *NotifierService) Publish(ctx context.Context, counts models.DashboardCounts) {
	if s.bridge != nil {
		if err := s.bridge.Publish(ctx, s.channel, counts); err != nil {
			s.logger.Warn("counts bridge publish failed, delivering locally", zap.Error(err))
			s.fanOut(counts)
		}
		return
	}
	s.fanOut(counts)
}

func (s *NotifierService) fanOut(counts models.DashboardCounts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.observers {
		select {
		case ch <- counts:
		default:
			s.logger.Warn("observer channel full, dropping broadcast", zap.Int64("observer", id))
		}
	}
	s.metrics.RecordBroadcast()
}

// Run consumes the pub/sub bridge until the context ends, fanning remote
// broadcasts out to local observers. A nil bridge makes Run return at once.
func (s *NotifierService) Run(ctx context.Context) {
	if s.bridge == nil {
		return
	}
	messages, closeSub := s.bridge.Subscribe(ctx, s.channel)
	if messages == nil {
		return
	}
	defer func() {
		if err := closeSub(); err != nil {
			s.logger.Warn("close counts subscription", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var counts models.DashboardCounts
			if err := json.Unmarshal([]byte(msg.Payload), &counts); err != nil {
				s.logger.Warn("malformed counts broadcast", zap.Error(err))
				continue
			}
			s.fanOut(counts)
		}
	}
}
