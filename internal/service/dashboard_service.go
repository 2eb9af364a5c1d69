package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kantah-go/arsip-vital-api/internal/models"
	appErrors "github.com/kantah-go/arsip-vital-api/pkg/errors"
)

const countsCacheKey = "dashboard:counts"

type dashboardCountsRepository interface {
	CountAll(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountPending(ctx context.Context, convention string) (int64, error)
}

type countsPublisher interface {
	Publish(ctx context.Context, counts models.DashboardCounts)
}

// DashboardServiceConfig tunes count computation.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
	// UseCreatedAt enables the current-month window; without a usable
	// creation-timestamp column the figure is 0 by definition.
	UseCreatedAt bool
	// PendingConventions are probed in order; the first convention
	// yielding a nonzero count wins. Conventions that fail against the
	// active schema are skipped.
	PendingConventions []string
}

// DashboardService computes and broadcasts the aggregate archive counts.
type DashboardService struct {
	repo     dashboardCountsRepository
	cache    *CacheService
	notifier countsPublisher
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Repo     dashboardCountsRepository
	Cache    *CacheService
	Notifier countsPublisher
	Logger   *zap.Logger
	Now      func() time.Time
	Config   DashboardServiceConfig
}

// NewDashboardService constructs the service with defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if len(params.Config.PendingConventions) == 0 {
		params.Config.PendingConventions = []string{"is_processed", "processing_notes"}
	}
	if params.Config.CacheTTL <= 0 {
		params.Config.CacheTTL = 30 * time.Second
	}
	return &DashboardService{
		repo:     params.Repo,
		cache:    params.Cache,
		notifier: params.Notifier,
		logger:   params.Logger,
		now:      params.Now,
		cfg:      params.Config,
	}
}

// Counts returns the dashboard aggregates, serving from cache when fresh.
func (s *DashboardService) Counts(ctx context.Context) (*models.DashboardCounts, error) {
	var cached models.DashboardCounts
	if hit, err := s.cache.Get(ctx, countsCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}
	counts, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, countsCacheKey, counts, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache counts failed", zap.Error(err))
	}
	return counts, nil
}

func (s *DashboardService) compute(ctx context.Context) (*models.DashboardCounts, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute counts")
	}

	var monthCount int64
	if s.cfg.UseCreatedAt {
		from, to := monthWindow(s.now())
		monthCount, err = s.repo.CountCreatedBetween(ctx, from, to)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute counts")
		}
	}

	var pending int64
	for _, convention := range s.cfg.PendingConventions {
		count, err := s.repo.CountPending(ctx, convention)
		if err != nil {
			// Conventions from older schema revisions may not apply
			// to the active one; skip and probe the next.
			s.logger.Debug("pending convention not applicable", zap.String("convention", convention), zap.Error(err))
			continue
		}
		if count > 0 {
			pending = count
			break
		}
	}

	return &models.DashboardCounts{
		Total:             total,
		CurrentMonthCount: monthCount,
		PendingCount:      pending,
	}, nil
}

// BroadcastCounts recomputes the aggregates and pushes them to every
// connected observer. Failures are logged and swallowed; a successful
// mutation must never be reported as failed because its broadcast was not
// delivered.
func (s *DashboardService) BroadcastCounts(ctx context.Context) {
	counts, err := s.compute(ctx)
	if err != nil {
		s.logger.Error("counts broadcast skipped", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, countsCacheKey, counts, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache counts failed", zap.Error(err))
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, *counts)
	}
}

// monthWindow returns [start of current month, start of next month).
func monthWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
