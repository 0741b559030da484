package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"slack-service/internal/adapters/storage"
	"slack-service/internal/api/handlers"
	"slack-service/internal/api/middleware"
	"slack-service/internal/events"
	"slack-service/internal/repository"
	"slack-service/internal/service"
	"slack-service/internal/websocket"
)

type Router struct {
	engine *gin.Engine
	hub    *websocket.Hub

	authHandler         *handlers.AuthHandler
	workspaceHandler    *handlers.WorkspaceHandler
	channelHandler      *handlers.ChannelHandler
	memberHandler       *handlers.MemberHandler
	conversationHandler *handlers.ConversationHandler
	messageHandler      *handlers.MessageHandler
	reactionHandler     *handlers.ReactionHandler
	uploadHandler       *handlers.UploadHandler

	rateLimitMW *middleware.RateLimitMiddleware
	authMW      *middleware.AuthMiddleware
}

func NewRouter(
	hub *websocket.Hub,
	redisService *service.RedisService,
	redisClient *redis.Client,
	db *gorm.DB,
	storageClient *storage.Client,
	publisher events.Publisher,
	jwtSecret string,
	jwtExpire time.Duration,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// Services
	guard := service.NewGuard(memberRepo)
	authService := service.NewAuthService(userRepo, jwtSecret, jwtExpire)
	workspaceService := service.NewWorkspaceService(workspaceRepo, memberRepo, userRepo, guard, publisher)
	memberService := service.NewMemberService(memberRepo, userRepo, guard, publisher)
	channelService := service.NewChannelService(channelRepo, guard, publisher)
	conversationService := service.NewConversationService(conversationRepo, memberRepo, guard, publisher)
	messageService := service.NewMessageService(
		messageRepo, memberRepo, userRepo, reactionRepo, channelRepo, conversationRepo,
		guard, storageClient, publisher,
	)
	reactionService := service.NewReactionService(reactionRepo, messageRepo, guard, publisher)

	return &Router{
		engine:              engine,
		hub:                 hub,
		authHandler:         handlers.NewAuthHandler(authService),
		workspaceHandler:    handlers.NewWorkspaceHandler(workspaceService),
		channelHandler:      handlers.NewChannelHandler(channelService),
		memberHandler:       handlers.NewMemberHandler(memberService),
		conversationHandler: handlers.NewConversationHandler(conversationService),
		messageHandler:      handlers.NewMessageHandler(messageService),
		reactionHandler:     handlers.NewReactionHandler(reactionService),
		uploadHandler:       handlers.NewUploadHandler(storageClient),
		rateLimitMW:         middleware.NewRateLimitMiddleware(redisService),
		authMW:              middleware.NewAuthMiddleware(jwtSecret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint. Identity is optional so clients can watch public
	// feeds they later re-fetch through the authenticated REST routes.
	api.GET("/ws", r.authMW.OptionalAuth(), websocket.ServeWS(r.hub))

	// Public routes (no authentication required)
	authRoutes := api.Group("/auth")
	authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute))
	{
		authRoutes.POST("/register", r.authHandler.Register)
		authRoutes.POST("/login", r.authHandler.Login)
	}
	api.GET("/auth/me", r.authMW.RequireAuth(), r.authHandler.Me)

	// Read routes resolve identity when present and fail soft otherwise
	reads := api.Group("/")
	reads.Use(r.authMW.OptionalAuth())
	{
		reads.GET("/workspaces/:id", r.workspaceHandler.Get)
		reads.GET("/channels", r.channelHandler.List)
		reads.GET("/channels/:id", r.channelHandler.Get)
		reads.GET("/members", r.memberHandler.List)
		reads.GET("/members/current", r.memberHandler.Current)
		reads.GET("/members/:id", r.memberHandler.Get)
		reads.GET("/messages", r.messageHandler.List)
	}

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		workspaces := auth.Group("/workspaces")
		workspaces.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			workspaces.GET("", r.workspaceHandler.List)
			workspaces.POST("", r.workspaceHandler.Create)
			workspaces.PATCH("/:id", r.workspaceHandler.Update)
			workspaces.DELETE("/:id", r.workspaceHandler.Delete)
			workspaces.POST("/:id/join-code", r.workspaceHandler.NewJoinCode)
			workspaces.POST("/:id/join", r.workspaceHandler.Join)
		}

		channels := auth.Group("/channels")
		channels.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			channels.POST("", r.channelHandler.Create)
			channels.PATCH("/:id", r.channelHandler.Update)
			channels.DELETE("/:id", r.channelHandler.Delete)
		}

		members := auth.Group("/members")
		members.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			members.PATCH("/:id", r.memberHandler.UpdateRole)
			members.DELETE("/:id", r.memberHandler.Remove)
		}

		conversations := auth.Group("/conversations")
		conversations.Use(r.rateLimitMW.RateLimit(100, time.Minute))
		{
			conversations.POST("", r.conversationHandler.CreateOrGet)
		}

		messages := auth.Group("/messages")
		messages.Use(r.rateLimitMW.RateLimit(200, time.Minute))
		{
			messages.POST("", r.messageHandler.Create)
			messages.PATCH("/:id", r.messageHandler.Update)
			messages.DELETE("/:id", r.messageHandler.Delete)
			messages.POST("/:id/reactions", r.reactionHandler.Toggle)
		}

		uploads := auth.Group("/uploads")
		uploads.Use(r.rateLimitMW.RateLimit(30, time.Minute))
		{
			uploads.POST("", r.uploadHandler.GenerateUploadURL)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
