package server

import (
	"log"
	"strings"

	"anoa.com/mentormatch/internal/config"
	"anoa.com/mentormatch/internal/handler"
	"anoa.com/mentormatch/internal/middleware"
	"anoa.com/mentormatch/internal/model"
	"anoa.com/mentormatch/internal/repository"
	"anoa.com/mentormatch/internal/service"
	"anoa.com/mentormatch/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	cfg         *config.Config
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	matchRepo := repository.NewMatchRequestRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("cloudinary storage unavailable, profile images disabled: %v", err)
		imageStorage = nil
	}

	var searchSvc service.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = service.NewSearchService(meiliClient)
	}

	authSvc := service.NewAuthService(userRepo)
	authHandler := handler.NewAuthHandler(authSvc)

	profileSvc := service.NewProfileService(userRepo, imageStorage, searchSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)

	mentorSvc := service.NewMentorService(userRepo, searchSvc)
	mentorHandler := handler.NewMentorHandler(mentorSvc)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	limiter := service.NewRateLimiter(redisClient, cfg.RateLimitMatchRequest)
	matchSvc := service.NewMatchService(matchRepo, userRepo, notificationSvc, limiter)
	matchHandler := handler.NewMatchHandler(matchSvc)

	engine := gin.Default()

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authMiddleware := middleware.NewAuthMiddleware()

	api := engine.Group("/api")
	{
		// Public routes
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)
		api.GET("/images/:role/:id", profileHandler.ProfileImage)
	}

	// Protected routes
	auth := api.Group("")
	auth.Use(authMiddleware.RequireAuth())
	{
		auth.GET("/me", profileHandler.Me)
		auth.PUT("/profile", profileHandler.UpdateProfile)

		auth.GET("/mentors", authMiddleware.RequireRole(model.RoleMentee), mentorHandler.ListMentors)

		matches := auth.Group("/match-requests")
		{
			matches.POST("", authMiddleware.RequireRole(model.RoleMentee), matchHandler.CreateRequest)
			matches.GET("/incoming", authMiddleware.RequireRole(model.RoleMentor), matchHandler.Incoming)
			matches.GET("/outgoing", authMiddleware.RequireRole(model.RoleMentee), matchHandler.Outgoing)
			matches.PUT("/:id/accept", authMiddleware.RequireRole(model.RoleMentor), matchHandler.Accept)
			matches.PUT("/:id/reject", authMiddleware.RequireRole(model.RoleMentor), matchHandler.Reject)
			matches.DELETE("/:id", authMiddleware.RequireRole(model.RoleMentee), matchHandler.Cancel)
		}

		auth.GET("/notifications", notificationHandler.List)
		auth.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		auth.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
	}

	ws := engine.Group("/ws")
	ws.Use(authMiddleware.RequireAuth())
	{
		ws.GET("/notifications", notificationHandler.Stream)
	}

	return &Server{
		engine:      engine,
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run() error {
	return s.engine.Run(":" + s.cfg.Port)
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
