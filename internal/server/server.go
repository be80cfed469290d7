package server

import (
	"context"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quantummesh/impactview/internal/config"
	"github.com/quantummesh/impactview/internal/middleware"
	"github.com/quantummesh/impactview/internal/modules/analysis"
	"github.com/quantummesh/impactview/internal/modules/trust"
	"github.com/quantummesh/impactview/pkg/storage"

	actionHttp "github.com/quantummesh/impactview/internal/modules/action/delivery/http"
	actionRepo "github.com/quantummesh/impactview/internal/modules/action/repository"
	actionService "github.com/quantummesh/impactview/internal/modules/action/service"

	arHttp "github.com/quantummesh/impactview/internal/modules/ar/delivery/http"
	arService "github.com/quantummesh/impactview/internal/modules/ar/service"

	attachmentHttp "github.com/quantummesh/impactview/internal/modules/attachment/delivery/http"
	attachmentRepo "github.com/quantummesh/impactview/internal/modules/attachment/repository"
	attachmentService "github.com/quantummesh/impactview/internal/modules/attachment/service"

	leaderboardHttp "github.com/quantummesh/impactview/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "github.com/quantummesh/impactview/internal/modules/leaderboard/repository"
	leaderboardService "github.com/quantummesh/impactview/internal/modules/leaderboard/service"

	notiHttp "github.com/quantummesh/impactview/internal/modules/notification/delivery/http"
	notifRepo "github.com/quantummesh/impactview/internal/modules/notification/repository"
	notifService "github.com/quantummesh/impactview/internal/modules/notification/service"

	profileHttp "github.com/quantummesh/impactview/internal/modules/profile/delivery/http"
	profileService "github.com/quantummesh/impactview/internal/modules/profile/service"

	searchService "github.com/quantummesh/impactview/internal/modules/search/service"

	statHttp "github.com/quantummesh/impactview/internal/modules/stat/delivery/http"
	statRepo "github.com/quantummesh/impactview/internal/modules/stat/repository"
	statService "github.com/quantummesh/impactview/internal/modules/stat/service"

	topicHttp "github.com/quantummesh/impactview/internal/modules/topic/delivery/http"
	topicRepo "github.com/quantummesh/impactview/internal/modules/topic/repository"
	topicService "github.com/quantummesh/impactview/internal/modules/topic/service"

	userHttp "github.com/quantummesh/impactview/internal/modules/user/delivery/http"
	userRepo "github.com/quantummesh/impactview/internal/modules/user/repository"
	userService "github.com/quantummesh/impactview/internal/modules/user/service"

	verifHttp "github.com/quantummesh/impactview/internal/modules/verification/delivery/http"
	verifRepo "github.com/quantummesh/impactview/internal/modules/verification/repository"
	verifService "github.com/quantummesh/impactview/internal/modules/verification/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewSearchService(meiliClient)

	authSvc := userService.NewAuthService(users)
	authHandler := userHttp.NewAuthHandler(authSvc)

	// Notification module
	notifications := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notifications, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	// Scoring pipeline: Gemini oracle feeding the action + trust updates.
	oracle, err := analysis.NewGeminiOracle(context.Background(), cfg.GeminiModel)
	if err != nil {
		log.Fatalf("failed to initialize assessment oracle: %v", err)
	}
	boundedOracle := analysis.WithTimeout(oracle, cfg.OracleTimeout)

	actions := actionRepo.NewActionRepository(db)
	trustSvc := trust.NewService(db)
	analysisSvc := analysis.NewService(db, actions, boundedOracle, trustSvc, notificationSvc, searchSvc)

	attachments := attachmentRepo.NewAttachmentRepository(db)
	attachmentSvc := attachmentService.NewAttachmentService(attachments, imageStorage, cfg.CloudinaryUploadFolder)
	attachmentHandler := attachmentHttp.NewAttachmentHandler(attachmentSvc)

	actionSvc := actionService.NewActionService(actions, analysisSvc, searchSvc, attachmentSvc, redisClient, cfg.RateLimitAction)
	actionHandler := actionHttp.NewActionHandler(actionSvc)

	verifications := verifRepo.NewVerificationRepository(db)
	verificationSvc := verifService.NewVerificationService(verifications, actions, redisClient, notificationSvc)
	verificationHandler := verifHttp.NewVerificationHandler(verificationSvc)

	topics := topicRepo.NewTopicRepository(db)
	topicSvc := topicService.NewTopicService(topics, searchSvc)
	topicHandler := topicHttp.NewTopicHandler(topicSvc)

	arSvc := arService.NewARService(actions)
	arHandler := arHttp.NewARHandler(arSvc)

	profileSvc := profileService.NewProfileService(users, actions, verifications)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	leaderboards := leaderboardRepo.NewLeaderboardRepository(db)
	leaderboardSvc := leaderboardService.NewLeaderboardService(leaderboards, redisClient)
	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardSvc)

	stats := statRepo.NewStatRepository(db)
	statSvc := statService.NewStatService(stats)
	statHandler := statHttp.NewStatHandler(statSvc)

	// Orphan upload cleanup, every 12 hours.
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			log.Println("Running orphan attachment cleanup...")
			if err := attachmentSvc.CleanupOrphans(context.Background()); err != nil {
				log.Printf("Error cleaning up orphan attachments: %v", err)
			} else {
				log.Println("Orphan attachment cleanup completed.")
			}
		}
	}()

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/actions/feed", actionHandler.Feed)
	api.GET("/actions/search", actionHandler.Search)
	api.GET("/actions/:id", actionHandler.GetByID)
	api.GET("/actions/:id/verifications", verificationHandler.GetCounts)
	api.GET("/ar/markers", arHandler.Markers)
	api.GET("/topics", topicHandler.List)
	api.GET("/topics/search", topicHandler.Search)
	api.GET("/topics/:id", topicHandler.GetByID)
	api.GET("/leaderboard", leaderboardHandler.Get)
	api.GET("/stats/heatmap", statHandler.Heatmap)
	api.GET("/stats/sentiment", statHandler.Sentiment)
	api.GET("/stats/overview", statHandler.Overview)
	api.GET("/users/count", statHandler.UsersCount)
	api.GET("/profile/:id", profileHandler.GetByID)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/actions", actionHandler.Submit)
		protected.GET("/actions", actionHandler.ListMine)
		protected.POST("/actions/:id/analyze", actionHandler.Analyze)
		protected.POST("/actions/:id/verifications", verificationHandler.Toggle)

		protected.POST("/topics", topicHandler.Create)
		protected.POST("/topics/:id/vote", topicHandler.Vote)

		protected.GET("/profile/me", profileHandler.Me)
		protected.PUT("/profile", profileHandler.UpdateMe)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		protected.POST("/upload", attachmentHandler.Upload)

		// Admin moderation
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", authHandler.ListUsers)
			adminGroup.PATCH("/actions/:id/status", actionHandler.ModerateStatus)
			adminGroup.PATCH("/topics/:id/status", topicHandler.UpdateStatus)
		}
	}

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
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
