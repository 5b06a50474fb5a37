package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/scheduler"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
)

const analyticsSummaryCacheKey = "analytics:summary"

// AnalyticsRepository describes the persistence layer required by AnalyticsService.
type AnalyticsRepository interface {
	TeamMeetingCounts(ctx context.Context) ([]scheduler.PairCount, error)
	TeamJuryCounts(ctx context.Context) ([]scheduler.PairCount, error)
	TeamWaiting(ctx context.Context) ([]scheduler.TeamWaiting, error)
	TeamRoomUsage(ctx context.Context) ([]scheduler.TeamRoomUsage, error)
	RefreshViews(ctx context.Context) error
}

// AnalyticsService builds the cross-session summary used to tune rebalance weights.
type AnalyticsService struct {
	repo    AnalyticsRepository
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo AnalyticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

var _ scheduler.AnalyticsProvider = (*AnalyticsService)(nil)

// GlobalSummary returns the cached summary or reads it from the views.
// It fails with ErrPreconditionFailed when no plan history exists yet.
func (s *AnalyticsService) GlobalSummary(ctx context.Context) (*scheduler.AnalyticsSummary, error) {
	var cached scheduler.AnalyticsSummary
	if hit, err := s.cache.Get(ctx, analyticsSummaryCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	start := time.Now()
	summary, err := s.load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analytics summary")
	}
	s.metrics.ObserveDBQuery("analytics_summary", time.Since(start))

	if isEmptySummary(summary) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no historical session data available")
	}
	if err := s.cache.Set(ctx, analyticsSummaryCacheKey, summary, 0); err != nil {
		s.logger.Warn("cache analytics summary", zap.Error(err))
	}
	return summary, nil
}

// Refresh rebuilds the views and drops the cached summary.
func (s *AnalyticsService) Refresh(ctx context.Context) error {
	start := time.Now()
	if err := s.repo.RefreshViews(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to refresh analytics views")
	}
	s.metrics.ObserveDBQuery("analytics_refresh", time.Since(start))
	return s.Invalidate(ctx)
}

// Invalidate drops the cached summary.
func (s *AnalyticsService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, analyticsSummaryCacheKey)
}

func (s *AnalyticsService) load(ctx context.Context) (*scheduler.AnalyticsSummary, error) {
	meetings, err := s.repo.TeamMeetingCounts(ctx)
	if err != nil {
		return nil, err
	}
	juries, err := s.repo.TeamJuryCounts(ctx)
	if err != nil {
		return nil, err
	}
	waiting, err := s.repo.TeamWaiting(ctx)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.TeamRoomUsage(ctx)
	if err != nil {
		return nil, err
	}
	return &scheduler.AnalyticsSummary{
		TeamMeetings:         meetings,
		TeamJuryInteractions: juries,
		TeamWaiting:          waiting,
		TeamRooms:            rooms,
	}, nil
}

func isEmptySummary(s *scheduler.AnalyticsSummary) bool {
	return len(s.TeamMeetings) == 0 && len(s.TeamJuryInteractions) == 0 &&
		len(s.TeamWaiting) == 0 && len(s.TeamRooms) == 0
}
