package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/room-session-api/internal/scheduler"
	appErrors "github.com/noah-isme/room-session-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	meetings     []scheduler.PairCount
	juries       []scheduler.PairCount
	waiting      []scheduler.TeamWaiting
	rooms        []scheduler.TeamRoomUsage
	meetingCalls int
	refreshCalls int
	meetingErr   error
}

func (m *mockAnalyticsRepo) TeamMeetingCounts(context.Context) ([]scheduler.PairCount, error) {
	m.meetingCalls++
	if m.meetingErr != nil {
		return nil, m.meetingErr
	}
	return m.meetings, nil
}

func (m *mockAnalyticsRepo) TeamJuryCounts(context.Context) ([]scheduler.PairCount, error) {
	return m.juries, nil
}

func (m *mockAnalyticsRepo) TeamWaiting(context.Context) ([]scheduler.TeamWaiting, error) {
	return m.waiting, nil
}

func (m *mockAnalyticsRepo) TeamRoomUsage(context.Context) ([]scheduler.TeamRoomUsage, error) {
	return m.rooms, nil
}

func (m *mockAnalyticsRepo) RefreshViews(context.Context) error {
	m.refreshCalls++
	return nil
}

func TestAnalyticsServiceGlobalSummaryUsesCache(t *testing.T) {
	repo := &mockAnalyticsRepo{
		meetings: []scheduler.PairCount{{A: 1, B: 2, Count: 4}},
		rooms:    []scheduler.TeamRoomUsage{{TeamID: 1, DistinctRooms: 3}},
	}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), true)
	svc := NewAnalyticsService(repo, cache, nil, zap.NewNop())

	first, err := svc.GlobalSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.TeamMeetings[0].Count)

	second, err := svc.GlobalSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.meetingCalls)

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 1, repo.refreshCalls)

	_, err = svc.GlobalSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.meetingCalls)
}

func TestAnalyticsServiceNoHistory(t *testing.T) {
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, nil, nil, nil)

	_, err := svc.GlobalSummary(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAnalyticsServiceRepositoryFailureFallsBackToBaseWeights(t *testing.T) {
	svc := NewAnalyticsService(&mockAnalyticsRepo{meetingErr: errors.New("relation missing")}, nil, nil, nil)

	_, err := svc.GlobalSummary(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)

	adj := scheduler.ResolveWeights(context.Background(), svc, scheduler.DefaultWeights())
	assert.Error(t, adj.FetchErr)
	assert.Equal(t, scheduler.DefaultWeights(), adj.Weights)
}
