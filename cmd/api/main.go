package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bookingdesk/api/swagger" // swagger docs
	"bookingdesk/internal/database"
	"bookingdesk/internal/events"
	"bookingdesk/internal/handler"
	"bookingdesk/internal/middleware"
	"bookingdesk/internal/repository"
	"bookingdesk/internal/service"
	"bookingdesk/internal/websocket"
	"bookingdesk/pkg/config"
	"bookingdesk/pkg/mq"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Booking Desk API
// @version         1.0
// @description     Booking intake and approval workflow: public inquiries, admin assignment and confirmation, super-admin approval of admin accounts.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	secret, err := cfg.Secret()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, err := database.DSN(cfg.DatabaseURL, cfg.DBAccessKey)
	if err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}
	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("PostgreSQL pool ready.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	notifier := events.Multi{wsHub}
	if cfg.AMQPURL != "" {
		pub, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("WARNING: RabbitMQ unavailable, events stay local: %v", err)
		} else {
			defer pub.Close()
			notifier = append(notifier, events.BrokerNotifier{Pub: pub})
			log.Printf("Publishing events to exchange %s", cfg.AMQPExchange)
		}
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	identityRepo := repository.NewIdentityRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authService := service.NewAuthService(service.AuthOptions{
		DomainAllowed:   cfg.IsAllowedDomain,
		SuperAdminEmail: cfg.SuperAdminEmail,
		Secret:          secret,
		SessionTTL:      cfg.SessionTTL,
	}, txManager, identityRepo, profileRepo, auditRepo, notifier)
	profileService := service.NewProfileService(txManager, profileRepo, auditRepo, notifier)
	bookingService := service.NewBookingService(txManager, bookingRepo, profileRepo, auditRepo, notifier)
	receiptService := service.NewReceiptService(txManager, bookingRepo, receiptRepo, auditRepo, notifier)
	statisticsService := service.NewStatisticsService(bookingRepo, profileRepo, receiptRepo)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	session := middleware.RequireSession(authService)
	cookies := middleware.CookiePolicy{Secure: cfg.GinMode == gin.ReleaseMode}
	authHandler := handler.NewAuthHandler(authService, profileService, cookies, session)
	bookingHandler := handler.NewBookingHandler(bookingService, session)
	receiptHandler := handler.NewReceiptHandler(receiptService, session)
	profileHandler := handler.NewProfileHandler(profileService, session)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, session)
	auditHandler := handler.NewAuditHandler(auditService, session)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "ws_clients": wsHub.ClientCount()})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, authService)
	})

	// API Routing
	api := router.Group("")
	authHandler.RegisterRoutes(api)
	bookingHandler.RegisterRoutes(api)
	receiptHandler.RegisterRoutes(api)
	profileHandler.RegisterRoutes(api)
	statisticsHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
