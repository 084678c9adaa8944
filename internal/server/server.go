package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/internal/config"
	"github.com/kindnest/kindnest-api/internal/handler"
	"github.com/kindnest/kindnest-api/internal/middleware"
	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/push"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, meiliClient meilisearch.ServiceManager) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	filterRepo := repository.NewFilterRepository(db)

	gateway := push.NewGateway(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber)

	filterSvc := service.NewFilterService(filterRepo)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, redisClient, gateway)
	searchSvc := service.NewSearchService(meiliClient, postRepo, userRepo)
	userSvc := service.NewUserService(userRepo, filterSvc, notificationSvc)
	postSvc := service.NewPostService(postRepo, filterSvc, notificationSvc, searchSvc)
	messageSvc := service.NewMessageService(messageRepo, userRepo, filterSvc, notificationSvc)
	reportSvc := service.NewReportService(reportRepo, postRepo, userRepo)

	postHandler := handler.NewPostHandler(postSvc, searchSvc)
	userHandler := handler.NewUserHandler(userSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)
	reportHandler := handler.NewReportHandler(reportSvc)
	filterHandler := handler.NewFilterHandler(filterSvc)

	authMiddleware, err := middleware.NewAuthMiddleware(userSvc, cfg.AuthDomain, cfg.AuthAudience)
	if err != nil {
		return nil, err
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Home and search are the only routes an anonymous visitor can reach.
	router.GET("/", postHandler.Home)
	router.POST("/", postHandler.Search)

	authed := router.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		// First login: a verified token is enough, the account doesn't
		// exist yet.
		authed.POST("/users", userHandler.Create)

		users := authed.Group("/users")
		users.Use(authMiddleware.RequirePermission(model.PermReadUser))
		{
			users.GET("/:id", userHandler.Get)
			users.GET("/:id/posts", postHandler.GetByUser)
			users.POST("/:id/hugs", userHandler.SendHug)
		}

		authed.PATCH("/users/:id",
			authMiddleware.RequirePermission(model.PermPatchMyUser, model.PermPatchAnyUser, model.PermBlockUser),
			userHandler.Update)
		authed.DELETE("/users/:id/posts",
			authMiddleware.RequirePermission(model.PermDeleteMyPost, model.PermDeleteAnyPost),
			postHandler.DeleteAllByUser)
		authed.GET("/users/blocked",
			authMiddleware.RequirePermission(model.PermReadAdminBoard),
			userHandler.GetBlocked)

		authed.POST("/posts",
			authMiddleware.RequirePermission(model.PermPostPost),
			middleware.RateLimit(redisClient, "post", cfg.RateLimitPost),
			postHandler.Create)
		authed.PATCH("/posts/:id",
			authMiddleware.RequirePermission(model.PermPatchMyPost, model.PermPatchAnyPost),
			postHandler.Update)
		authed.DELETE("/posts/:id",
			authMiddleware.RequirePermission(model.PermDeleteMyPost, model.PermDeleteAnyPost),
			postHandler.Delete)
		authed.POST("/posts/:id/hugs",
			authMiddleware.RequirePermission(model.PermReadUser),
			postHandler.SendHug)

		messages := authed.Group("/messages")
		{
			messages.GET("/:mailbox",
				authMiddleware.RequirePermission(model.PermReadMessages),
				messageHandler.GetMailbox)
			messages.POST("",
				authMiddleware.RequirePermission(model.PermPostMessage),
				messageHandler.Send)
			messages.DELETE("/:mailbox",
				authMiddleware.RequirePermission(model.PermDeleteMessages),
				messageHandler.Clear)
			messages.DELETE("/:mailbox/:id",
				authMiddleware.RequirePermission(model.PermDeleteMessages),
				messageHandler.Delete)
		}

		notifications := authed.Group("/notifications")
		notifications.Use(authMiddleware.RequirePermission(model.PermReadUser))
		{
			notifications.GET("", notificationHandler.Get)
			notifications.GET("/ws", notificationHandler.Stream)
			notifications.POST("", notificationHandler.Subscribe)
			notifications.PATCH("/:id", notificationHandler.UpdateSubscription)
		}

		authed.POST("/reports",
			authMiddleware.RequirePermission(model.PermPostReport),
			reportHandler.Create)

		board := authed.Group("")
		board.Use(authMiddleware.RequirePermission(model.PermReadAdminBoard))
		{
			board.GET("/reports/posts", reportHandler.OpenPostReports)
			board.GET("/reports/users", reportHandler.OpenUserReports)
			board.PATCH("/reports/:id", reportHandler.Update)
			board.GET("/filters", filterHandler.List)
			board.POST("/filters", filterHandler.Create)
			board.DELETE("/filters/:id", filterHandler.Delete)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}, nil
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
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
