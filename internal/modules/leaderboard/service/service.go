package service

import (
	"context"
	"time"

	"candlearena.com/tradesim/internal/model"
	leaderboardDto "candlearena.com/tradesim/internal/modules/leaderboard/dto"
	leaderboardRepo "candlearena.com/tradesim/internal/modules/leaderboard/repository"
	"candlearena.com/tradesim/pkg/logger"
	"github.com/google/uuid"
)

const (
	// DefaultLimit is applied when a caller passes limit <= 0.
	DefaultLimit = 50

	// userRankScanLimit caps how deep GetUserRank looks. A user ranked below
	// this is reported as unranked; accepted approximation, do not "fix" by
	// scanning the whole table.
	userRankScanLimit = 1000
)

// Defaults substituted for absent optional fields.
const (
	defaultUsername = "Unknown"
	defaultLevel    = 1
	defaultGrade    = "C"
)

// LeaderboardService is the read surface over sessions and profiles.
//
// Every method keeps the always-succeeds contract: store not configured or a
// failed query yields an empty slice (or nil for single-item lookups), with
// the failure logged. No error ever reaches the caller.
type LeaderboardService interface {
	GetSessionLeaderboard(ctx context.Context, tf Timeframe, metric Metric, limit int) []leaderboardDto.SessionLeaderboardEntry
	GetProfileLeaderboard(ctx context.Context, limit int) []leaderboardDto.ProfileLeaderboardEntry
	GetUserRank(ctx context.Context, userID uuid.UUID, tf Timeframe) *int
	GetUserBestSession(ctx context.Context, userID uuid.UUID) *leaderboardDto.SessionLeaderboardEntry
	GetRecentSessions(ctx context.Context, limit int) []leaderboardDto.SessionLeaderboardEntry
}

type leaderboardService struct {
	repo leaderboardRepo.LeaderboardRepository
	now  func() time.Time
}

// NewLeaderboardService wires the service to its repository. A nil repo means
// the store is not configured; every read then short-circuits to an empty
// result.
func NewLeaderboardService(repo leaderboardRepo.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *leaderboardService) configured() bool {
	return s.repo != nil
}

func (s *leaderboardService) GetSessionLeaderboard(ctx context.Context, tf Timeframe, metric Metric, limit int) []leaderboardDto.SessionLeaderboardEntry {
	if !s.configured() {
		return []leaderboardDto.SessionLeaderboardEntry{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	order := leaderboardRepo.OrderByPnl
	if metric == MetricBeatMarket || tf == TimeframeBeatMarket {
		order = leaderboardRepo.OrderByBeatMarket
	}

	sessions, err := s.repo.ListSessions(ctx, leaderboardRepo.SessionQuery{
		Since:      periodStart(tf, s.now()),
		Order:      order,
		RequirePnl: true,
		Limit:      limit,
	})
	if err != nil {
		logger.Errorf("session leaderboard query failed (timeframe=%s metric=%s): %v", tf, metric, err)
		return []leaderboardDto.SessionLeaderboardEntry{}
	}

	return mapSessions(sessions)
}

func (s *leaderboardService) GetProfileLeaderboard(ctx context.Context, limit int) []leaderboardDto.ProfileLeaderboardEntry {
	if !s.configured() {
		return []leaderboardDto.ProfileLeaderboardEntry{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	profiles, err := s.repo.ListTopProfiles(ctx, limit)
	if err != nil {
		logger.Errorf("profile leaderboard query failed: %v", err)
		return []leaderboardDto.ProfileLeaderboardEntry{}
	}

	entries := make([]leaderboardDto.ProfileLeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, leaderboardDto.ProfileLeaderboardEntry{
			Rank:            i + 1,
			UserID:          p.UserID,
			Username:        usernameOrDefault(p.Username),
			DisplayName:     p.DisplayName,
			AvatarURL:       p.AvatarURL,
			Level:           levelOrDefault(p.Level),
			TotalSessions:   p.TotalSessions,
			TotalProfit:     p.TotalProfit,
			BeatMarketScore: p.BeatMarketScore,
			BestStreak:      p.BestStreak,
		})
	}
	return entries
}

// GetUserRank reports the user's 1-based position on the session leaderboard
// for a timeframe, or nil when the user is not within the first
// userRankScanLimit entries.
func (s *leaderboardService) GetUserRank(ctx context.Context, userID uuid.UUID, tf Timeframe) *int {
	metric := MetricPnl
	if tf == TimeframeBeatMarket {
		metric = MetricBeatMarket
	}

	entries := s.GetSessionLeaderboard(ctx, tf, metric, userRankScanLimit)
	for _, e := range entries {
		if e.UserID == userID {
			rank := e.Rank
			return &rank
		}
	}
	return nil
}

func (s *leaderboardService) GetUserBestSession(ctx context.Context, userID uuid.UUID) *leaderboardDto.SessionLeaderboardEntry {
	if !s.configured() {
		return nil
	}

	session, err := s.repo.BestSessionForUser(ctx, userID)
	if err != nil {
		logger.Errorf("best session query failed (user=%s): %v", userID, err)
		return nil
	}
	if session == nil {
		return nil
	}

	// Rank 0: a single-row lookup has no position, the caller supplies it.
	entry := mapSession(*session, 0)
	return &entry
}

func (s *leaderboardService) GetRecentSessions(ctx context.Context, limit int) []leaderboardDto.SessionLeaderboardEntry {
	if !s.configured() {
		return []leaderboardDto.SessionLeaderboardEntry{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	sessions, err := s.repo.ListSessions(ctx, leaderboardRepo.SessionQuery{
		Order: leaderboardRepo.OrderByCreatedAt,
		Limit: limit,
	})
	if err != nil {
		logger.Errorf("recent sessions query failed: %v", err)
		return []leaderboardDto.SessionLeaderboardEntry{}
	}

	// Rank here is feed position only, not a performance rank.
	return mapSessions(sessions)
}

func mapSessions(sessions []model.TradingSession) []leaderboardDto.SessionLeaderboardEntry {
	entries := make([]leaderboardDto.SessionLeaderboardEntry, 0, len(sessions))
	for i, sess := range sessions {
		entries = append(entries, mapSession(sess, i+1))
	}
	return entries
}

func mapSession(sess model.TradingSession, rank int) leaderboardDto.SessionLeaderboardEntry {
	var pnlPercent, beatMarketDelta float64
	if sess.PnlPercent != nil {
		pnlPercent = *sess.PnlPercent
	}
	if sess.BeatMarketDelta != nil {
		beatMarketDelta = *sess.BeatMarketDelta
	}

	grade := sess.Grade
	if grade == "" {
		grade = defaultGrade
	}

	return leaderboardDto.SessionLeaderboardEntry{
		Rank:            rank,
		UserID:          sess.UserID,
		Username:        usernameOrDefault(sess.Profile.Username),
		DisplayName:     sess.Profile.DisplayName,
		AvatarURL:       sess.Profile.AvatarURL,
		Level:           levelOrDefault(sess.Profile.Level),
		Symbol:          sess.Symbol,
		PnlPercent:      pnlPercent,
		PnlAmount:       sess.FinalBalance - sess.StartingBalance,
		BeatMarketDelta: beatMarketDelta,
		Grade:           grade,
		TotalTrades:     sess.TotalTrades,
		MaxStreak:       sess.MaxStreak,
		SessionID:       sess.ID,
		CreatedAt:       sess.CreatedAt,
	}
}

func usernameOrDefault(username string) string {
	if username == "" {
		return defaultUsername
	}
	return username
}

func levelOrDefault(level int) int {
	if level <= 0 {
		return defaultLevel
	}
	return level
}
