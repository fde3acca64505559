package dto

import (
	"time"

	"github.com/google/uuid"
)

// SessionLeaderboardEntry is the view model for one row of a session
// leaderboard. Rank is the 1-based position within the returned, already
// sorted sequence; it is assigned by the service and never read from a
// stored column. PnlAmount is derived: final balance minus starting balance.
type SessionLeaderboardEntry struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	DisplayName     *string   `json:"display_name,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Level           int       `json:"level"`
	Symbol          string    `json:"symbol"`
	PnlPercent      float64   `json:"pnl_percent"`
	PnlAmount       float64   `json:"pnl_amount"`
	BeatMarketDelta float64   `json:"beat_market_delta"`
	Grade           string    `json:"grade"`
	TotalTrades     int       `json:"total_trades"`
	MaxStreak       int       `json:"max_streak"`
	SessionID       uuid.UUID `json:"session_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProfileLeaderboardEntry is one row of the cumulative per-user leaderboard,
// sourced from the profiles aggregate rather than individual sessions.
type ProfileLeaderboardEntry struct {
	Rank            int       `json:"rank"`
	UserID          uuid.UUID `json:"user_id"`
	Username        string    `json:"username"`
	DisplayName     *string   `json:"display_name,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Level           int       `json:"level"`
	TotalSessions   int       `json:"total_sessions"`
	TotalProfit     float64   `json:"total_profit"`
	BeatMarketScore float64   `json:"beat_market_score"`
	BestStreak      int       `json:"best_streak"`
}
