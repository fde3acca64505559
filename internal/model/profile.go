package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a user's persistent identity plus cumulative stats. The stats
// columns are maintained by the session writer when a run finishes; this
// service only reads them.
type Profile struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Username        string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	DisplayName     *string   `gorm:"size:100" json:"display_name,omitempty"`
	AvatarURL       *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Level           int       `gorm:"default:1" json:"level"`
	TotalSessions   int       `gorm:"default:0" json:"total_sessions"`
	TotalProfit     float64   `gorm:"default:0" json:"total_profit"`
	BeatMarketScore float64   `gorm:"default:0" json:"beat_market_score"`
	BestStreak      int       `gorm:"default:0" json:"best_streak"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}
