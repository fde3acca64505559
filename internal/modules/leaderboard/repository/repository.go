package repository

import (
	"context"
	"errors"
	"time"

	"candlearena.com/tradesim/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionOrder selects the sort column for a session query.
type SessionOrder int

const (
	// OrderByPnl sorts by pnl_percent descending.
	OrderByPnl SessionOrder = iota
	// OrderByBeatMarket sorts by beat_market_delta descending, NULLs last.
	OrderByBeatMarket
	// OrderByCreatedAt sorts newest first.
	OrderByCreatedAt
)

// SessionQuery is an explicit query specification built by the service and
// executed in a single call, instead of leaking a fluent query builder
// across layers. Nil fields mean "no filter".
type SessionQuery struct {
	Since      *time.Time
	UserID     *uuid.UUID
	Order      SessionOrder
	RequirePnl bool
	Limit      int
}

type LeaderboardRepository interface {
	ListSessions(ctx context.Context, q SessionQuery) ([]model.TradingSession, error)
	BestSessionForUser(ctx context.Context, userID uuid.UUID) (*model.TradingSession, error)
	ListTopProfiles(ctx context.Context, limit int) ([]model.Profile, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) ListSessions(ctx context.Context, q SessionQuery) ([]model.TradingSession, error) {
	tx := r.db.WithContext(ctx).Model(&model.TradingSession{}).Preload("Profile")

	if q.RequirePnl {
		tx = tx.Where("pnl_percent IS NOT NULL")
	}
	if q.Since != nil {
		tx = tx.Where("created_at >= ?", *q.Since)
	}
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}

	switch q.Order {
	case OrderByBeatMarket:
		tx = tx.Order("beat_market_delta DESC NULLS LAST")
	case OrderByCreatedAt:
		tx = tx.Order("created_at DESC")
	default:
		tx = tx.Order("pnl_percent DESC")
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var sessions []model.TradingSession
	if err := tx.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *leaderboardRepository) BestSessionForUser(ctx context.Context, userID uuid.UUID) (*model.TradingSession, error) {
	var session model.TradingSession
	err := r.db.WithContext(ctx).Preload("Profile").
		Where("user_id = ? AND pnl_percent IS NOT NULL", userID).
		Order("pnl_percent DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *leaderboardRepository) ListTopProfiles(ctx context.Context, limit int) ([]model.Profile, error) {
	var profiles []model.Profile
	tx := r.db.WithContext(ctx).
		Where("total_sessions > ?", 0).
		Order("beat_market_score DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
