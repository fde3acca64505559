package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TradingSession is one completed simulation run on a symbol.
// PnlPercent stays NULL until the run is finalized; leaderboard queries
// exclude such rows.
type TradingSession struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Profile         Profile   `gorm:"foreignKey:UserID;references:UserID" json:"profile"`
	Symbol          string    `gorm:"size:20;not null" json:"symbol"`
	StartingBalance float64   `gorm:"not null" json:"starting_balance"`
	FinalBalance    float64   `gorm:"not null" json:"final_balance"`
	PnlPercent      *float64  `gorm:"index" json:"pnl_percent,omitempty"`
	BeatMarketDelta *float64  `json:"beat_market_delta,omitempty"`
	Grade           string    `gorm:"size:2" json:"grade"` // 'A'..'C' family, set by the grader
	TotalTrades     int       `gorm:"default:0" json:"total_trades"`
	MaxStreak       int       `gorm:"default:0" json:"max_streak"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (s *TradingSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
