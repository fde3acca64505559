package server

import (
	"strings"
	"time"

	"candlearena.com/tradesim/internal/config"
	"candlearena.com/tradesim/internal/middleware"

	leaderboardHttp "candlearena.com/tradesim/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "candlearena.com/tradesim/internal/modules/leaderboard/repository"
	leaderboardService "candlearena.com/tradesim/internal/modules/leaderboard/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer wires the leaderboard module. db may be nil (store not
// configured); every endpoint then serves empty results instead of failing.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	var repo leaderboardRepo.LeaderboardRepository
	if db != nil {
		repo = leaderboardRepo.NewLeaderboardRepository(db)
	}

	leaderboardSvc := leaderboardService.NewLeaderboardService(repo)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc, redisClient)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	api := router.Group("/api")
	api.Use(middleware.RateLimit(redisClient, "leaderboard", cfg.RateLimitLeaderboard))
	{
		api.GET("/leaderboard/sessions", leaderboardHandler.GetSessionLeaderboard)
		api.GET("/leaderboard/profiles", leaderboardHandler.GetProfileLeaderboard)
		api.GET("/users/:user_id/rank", leaderboardHandler.GetUserRank)
		api.GET("/users/:user_id/best-session", leaderboardHandler.GetUserBestSession)
		api.GET("/sessions/recent", leaderboardHandler.GetRecentSessions)
	}

	// Websocket feed stays outside the rate limiter: one long-lived
	// connection, not a request per refresh.
	router.GET("/api/sessions/live", leaderboardHandler.HandleLiveFeed)

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
