package router

import (
	"time"

	"soko/config"
	"soko/internal/domain"
	"soko/internal/handler"
	"soko/internal/middleware"
	"soko/internal/repository"
	"soko/internal/service"
	"soko/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.NewRateLimiter(100, 60*time.Second).Middleware())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	requestRepo := repository.NewPaymentRequestRepository(db)
	convRepo := repository.NewConversationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, db, userRepo)
	walletSvc := service.NewWalletService(db, walletRepo, txRepo, log)
	moderationSvc := service.NewModerationService(db, inquiryRepo, userRepo, catalogRepo, log)
	requestSvc := service.NewPaymentRequestService(db, requestRepo, inquiryRepo, userRepo, walletSvc)
	convSvc := service.NewConversationService(db, convRepo, walletSvc, cfg.Payment.ConversationFee)
	notifSvc := service.NewNotificationService(notificationRepo, hub)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	walletHandler := handler.NewWalletHandler(walletSvc, walletRepo, txRepo, userRepo)
	catalogHandler := handler.NewCatalogHandler(catalogRepo)
	inquiryHandler := handler.NewInquiryHandler(inquiryRepo, catalogRepo, moderationSvc, notifSvc)
	requestHandler := handler.NewPaymentRequestHandler(requestSvc, requestRepo, notifSvc)
	convHandler := handler.NewConversationHandler(convSvc, convRepo, userRepo, notifSvc, hub)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/me", authMw, authHandler.Me)

		wallet := api.Group("/wallet")
		wallet.Use(authMw)
		{
			wallet.GET("", walletHandler.GetBalance)
			wallet.POST("/deposit", walletHandler.Deposit)
			wallet.POST("/withdraw", walletHandler.Withdraw)
			wallet.POST("/transfer", walletHandler.Transfer)
			wallet.GET("/transactions", walletHandler.ListTransactions)
		}

		api.GET("/categories", catalogHandler.ListCategories)
		api.POST("/categories", authMw, middleware.RequireRole(domain.RoleModerator), catalogHandler.CreateCategory)
		api.GET("/services", catalogHandler.ListServices)
		api.GET("/services/:id", catalogHandler.GetService)
		api.POST("/services", authMw, middleware.RequireRole(domain.RoleBusiness), catalogHandler.CreateService)
		api.GET("/my-services", authMw, middleware.RequireRole(domain.RoleBusiness), catalogHandler.ListMyServices)

		inquiries := api.Group("/inquiries")
		inquiries.Use(authMw)
		{
			inquiries.POST("", middleware.RequireRole(domain.RoleCustomer), inquiryHandler.Create)
			inquiries.GET("", inquiryHandler.List)
			inquiries.GET("/:id", inquiryHandler.Get)
			inquiries.GET("/:id/messages", inquiryHandler.ListMessages)
			inquiries.POST("/:id/messages", inquiryHandler.PostMessage)
			inquiries.POST("/:id/close", middleware.RequireRole(domain.RoleModerator), inquiryHandler.Close)
			inquiries.POST("/:id/request-moderator", inquiryHandler.RequestModerator)
		}

		requests := api.Group("/payment-requests")
		requests.Use(authMw)
		{
			requests.POST("", middleware.RequireRole(domain.RoleBusiness), requestHandler.Create)
			requests.GET("", requestHandler.List)
			requests.GET("/pending", requestHandler.ListPending)
			requests.GET("/:id", requestHandler.Get)
			requests.POST("/:id/respond", requestHandler.Respond)
		}

		conversations := api.Group("/conversations")
		conversations.Use(authMw)
		{
			conversations.POST("", convHandler.Create)
			conversations.GET("", convHandler.List)
			conversations.GET("/unread-count", convHandler.UnreadCount)
			conversations.GET("/:id", convHandler.Get)
			conversations.POST("/:id/respond", convHandler.Respond)
			conversations.GET("/:id/messages", convHandler.ListMessages)
			conversations.POST("/:id/messages", convHandler.PostMessage)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}
	}

	r.GET("/ws/conversations", handler.UpgradeWS(&cfg.JWT, hub, convSvc))

	return r
}
