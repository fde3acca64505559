package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"candlearena.com/tradesim/internal/model"
	leaderboardRepo "candlearena.com/tradesim/internal/modules/leaderboard/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	sessions  []model.TradingSession
	profiles  []model.Profile
	best      *model.TradingSession
	err       error
	lastQuery leaderboardRepo.SessionQuery
}

func (f *fakeRepo) ListSessions(ctx context.Context, q leaderboardRepo.SessionQuery) ([]model.TradingSession, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions, nil
}

func (f *fakeRepo) BestSessionForUser(ctx context.Context, userID uuid.UUID) (*model.TradingSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.best, nil
}

func (f *fakeRepo) ListTopProfiles(ctx context.Context, limit int) ([]model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles, nil
}

func newTestService(repo leaderboardRepo.LeaderboardRepository, now time.Time) *leaderboardService {
	return &leaderboardService{
		repo: repo,
		now:  func() time.Time { return now },
	}
}

func f64(v float64) *float64 { return &v }

func session(username string, pnl *float64, startBal, finalBal float64) model.TradingSession {
	return model.TradingSession{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Profile:         model.Profile{Username: username, Level: 3},
		Symbol:          "ETHUSD",
		StartingBalance: startBal,
		FinalBalance:    finalBal,
		PnlPercent:      pnl,
		Grade:           "A",
	}
}

func TestGetSessionLeaderboard_RanksAreSequential(t *testing.T) {
	repo := &fakeRepo{sessions: []model.TradingSession{
		session("bob", f64(10), 10000, 11000),
		session("alice", f64(5), 10000, 10500),
		session("carol", f64(1), 10000, 10100),
	}}
	svc := newTestService(repo, time.Now())

	entries := svc.GetSessionLeaderboard(context.Background(), TimeframeAllTime, MetricPnl, 50)

	require.Len(t, entries, 3)
	for i, e := range entries {
		require.Equal(t, i+1, e.Rank)
	}
	require.Equal(t, "bob", entries[0].Username)
	require.Equal(t, 1000.0, entries[0].PnlAmount)
}

func TestGetSessionLeaderboard_FieldDefaults(t *testing.T) {
	// Session whose profile row is missing entirely
	repo := &fakeRepo{sessions: []model.TradingSession{
		{
			ID:              uuid.New(),
			UserID:          uuid.New(),
			Symbol:          "BTCUSD",
			StartingBalance: 10000,
			FinalBalance:    9800,
			PnlPercent:      f64(-2),
		},
	}}
	svc := newTestService(repo, time.Now())

	entries := svc.GetSessionLeaderboard(context.Background(), TimeframeAllTime, MetricPnl, 50)

	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, "Unknown", e.Username)
	require.Equal(t, 1, e.Level)
	require.Equal(t, "C", e.Grade)
	require.Equal(t, 0.0, e.BeatMarketDelta)
	require.Equal(t, -200.0, e.PnlAmount)
	require.Equal(t, 0, e.TotalTrades)
	require.Equal(t, 0, e.MaxStreak)
}

func TestGetSessionLeaderboard_QueryConstruction(t *testing.T) {
	// Wednesday, 2024-01-10
	now := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		tf        Timeframe
		metric    Metric
		wantSince *time.Time
		wantOrder leaderboardRepo.SessionOrder
	}{
		{
			name:      "daily pnl",
			tf:        TimeframeDaily,
			metric:    MetricPnl,
			wantSince: timePtr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
			wantOrder: leaderboardRepo.OrderByPnl,
		},
		{
			name:      "weekly back to sunday",
			tf:        TimeframeWeekly,
			metric:    MetricPnl,
			wantSince: timePtr(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)),
			wantOrder: leaderboardRepo.OrderByPnl,
		},
		{
			name:      "all time unbounded",
			tf:        TimeframeAllTime,
			metric:    MetricPnl,
			wantSince: nil,
			wantOrder: leaderboardRepo.OrderByPnl,
		},
		{
			name:      "beat market timeframe forces its sort",
			tf:        TimeframeBeatMarket,
			metric:    MetricPnl,
			wantSince: nil,
			wantOrder: leaderboardRepo.OrderByBeatMarket,
		},
		{
			name:      "beat market metric on daily window",
			tf:        TimeframeDaily,
			metric:    MetricBeatMarket,
			wantSince: timePtr(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
			wantOrder: leaderboardRepo.OrderByBeatMarket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo, now)

			svc.GetSessionLeaderboard(context.Background(), tt.tf, tt.metric, 50)

			q := repo.lastQuery
			require.True(t, q.RequirePnl)
			require.Equal(t, 50, q.Limit)
			require.Equal(t, tt.wantOrder, q.Order)
			if tt.wantSince == nil {
				require.Nil(t, q.Since)
			} else {
				require.NotNil(t, q.Since)
				require.True(t, q.Since.Equal(*tt.wantSince), "since = %v, want %v", q.Since, tt.wantSince)
			}
		})
	}
}

func TestPeriodStart_WeeklyOnSunday(t *testing.T) {
	// A Sunday maps to its own midnight, not the week before
	sunday := time.Date(2024, 1, 7, 18, 0, 0, 0, time.UTC)
	got := periodStart(TimeframeWeekly, sunday)
	require.NotNil(t, got)
	require.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), *got)
}

func TestGetSessionLeaderboard_DefaultLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, time.Now())

	svc.GetSessionLeaderboard(context.Background(), TimeframeAllTime, MetricPnl, 0)

	require.Equal(t, DefaultLimit, repo.lastQuery.Limit)
}

func TestGetSessionLeaderboard_EmptyOnError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	svc := newTestService(repo, time.Now())

	entries := svc.GetSessionLeaderboard(context.Background(), TimeframeAllTime, MetricPnl, 50)

	require.NotNil(t, entries)
	require.Empty(t, entries)
}

func TestUnconfiguredStore_AllReadsShortCircuit(t *testing.T) {
	svc := NewLeaderboardService(nil)
	ctx := context.Background()

	require.Empty(t, svc.GetSessionLeaderboard(ctx, TimeframeAllTime, MetricPnl, 50))
	require.Empty(t, svc.GetProfileLeaderboard(ctx, 50))
	require.Nil(t, svc.GetUserRank(ctx, uuid.New(), TimeframeAllTime))
	require.Nil(t, svc.GetUserBestSession(ctx, uuid.New()))
	require.Empty(t, svc.GetRecentSessions(ctx, 50))
}

func TestGetProfileLeaderboard(t *testing.T) {
	repo := &fakeRepo{profiles: []model.Profile{
		{UserID: uuid.New(), Username: "bob", Level: 4, TotalSessions: 9, BeatMarketScore: 87},
		{UserID: uuid.New(), Username: "alice", Level: 2, TotalSessions: 3, BeatMarketScore: 42},
	}}
	svc := newTestService(repo, time.Now())

	entries := svc.GetProfileLeaderboard(context.Background(), 50)

	require.Len(t, entries, 2)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "bob", entries[0].Username)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, "alice", entries[1].Username)
}

func TestGetUserRank_Found(t *testing.T) {
	target := session("bob", f64(5), 10000, 10500)
	repo := &fakeRepo{sessions: []model.TradingSession{
		session("alice", f64(10), 10000, 11000),
		target,
	}}
	svc := newTestService(repo, time.Now())

	rank := svc.GetUserRank(context.Background(), target.UserID, TimeframeAllTime)

	require.NotNil(t, rank)
	require.Equal(t, 2, *rank)
	// scans a deep fixed window, not the caller-facing default
	require.Equal(t, 1000, repo.lastQuery.Limit)
}

func TestGetUserRank_AbsentWithinScanWindow(t *testing.T) {
	repo := &fakeRepo{sessions: []model.TradingSession{
		session("alice", f64(10), 10000, 11000),
	}}
	svc := newTestService(repo, time.Now())

	rank := svc.GetUserRank(context.Background(), uuid.New(), TimeframeAllTime)

	require.Nil(t, rank)
}

func TestGetUserRank_BeatMarketTimeframe(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, time.Now())

	svc.GetUserRank(context.Background(), uuid.New(), TimeframeBeatMarket)

	require.Equal(t, leaderboardRepo.OrderByBeatMarket, repo.lastQuery.Order)
}

func TestGetUserBestSession(t *testing.T) {
	best := session("alice", f64(12), 10000, 11200)
	repo := &fakeRepo{best: &best}
	svc := newTestService(repo, time.Now())

	entry := svc.GetUserBestSession(context.Background(), best.UserID)

	require.NotNil(t, entry)
	// single-row lookup carries no position; caller supplies the real rank
	require.Equal(t, 0, entry.Rank)
	require.Equal(t, 12.0, entry.PnlPercent)
	require.Equal(t, 1200.0, entry.PnlAmount)
}

func TestGetUserBestSession_NoneOrError(t *testing.T) {
	svc := newTestService(&fakeRepo{}, time.Now())
	require.Nil(t, svc.GetUserBestSession(context.Background(), uuid.New()))

	svc = newTestService(&fakeRepo{err: errors.New("timeout")}, time.Now())
	require.Nil(t, svc.GetUserBestSession(context.Background(), uuid.New()))
}

func TestGetRecentSessions_QueryConstruction(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, time.Now())

	svc.GetRecentSessions(context.Background(), 10)

	q := repo.lastQuery
	require.False(t, q.RequirePnl)
	require.Nil(t, q.Since)
	require.Equal(t, leaderboardRepo.OrderByCreatedAt, q.Order)
	require.Equal(t, 10, q.Limit)
}

func timePtr(t time.Time) *time.Time { return &t }
