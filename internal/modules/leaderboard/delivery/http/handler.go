package http

import (
	"net/http"

	leaderboardService "candlearena.com/tradesim/internal/modules/leaderboard/service"
	"candlearena.com/tradesim/pkg/apperror"
	"candlearena.com/tradesim/pkg/response"
	"candlearena.com/tradesim/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type LeaderboardHandler struct {
	service     leaderboardService.LeaderboardService
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService, redisClient *redis.Client) *LeaderboardHandler {
	return &LeaderboardHandler{
		service:     service,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced at the router level
			},
		},
	}
}

type sessionLeaderboardQuery struct {
	Type   string `form:"type" binding:"omitempty,oneof=daily weekly all_time beat_market"`
	Metric string `form:"metric" binding:"omitempty,oneof=pnl beat_market"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

type limitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (h *LeaderboardHandler) GetSessionLeaderboard(c *gin.Context) {
	var q sessionLeaderboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	tf := leaderboardService.Timeframe(q.Type)
	if q.Type == "" {
		tf = leaderboardService.TimeframeAllTime
	}
	metric := leaderboardService.Metric(q.Metric)
	if q.Metric == "" {
		metric = leaderboardService.MetricPnl
	}

	entries := h.service.GetSessionLeaderboard(c.Request.Context(), tf, metric, q.Limit)
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *LeaderboardHandler) GetProfileLeaderboard(c *gin.Context) {
	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	entries := h.service.GetProfileLeaderboard(c.Request.Context(), q.Limit)
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

type userRankQuery struct {
	Type string `form:"type" binding:"omitempty,oneof=daily weekly all_time beat_market"`
}

func (h *LeaderboardHandler) GetUserRank(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var q userRankQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	tf := leaderboardService.Timeframe(q.Type)
	if q.Type == "" {
		tf = leaderboardService.TimeframeAllTime
	}

	// rank is null when the user is outside the scanned window
	rank := h.service.GetUserRank(c.Request.Context(), userID, tf)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"rank": rank}})
}

func (h *LeaderboardHandler) GetUserBestSession(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	entry := h.service.GetUserBestSession(c.Request.Context(), userID)
	if entry == nil {
		response.ResponseError(c, apperror.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (h *LeaderboardHandler) GetRecentSessions(c *gin.Context) {
	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	entries := h.service.GetRecentSessions(c.Request.Context(), q.Limit)
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
