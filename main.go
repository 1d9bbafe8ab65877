package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"electionwatch/config"
	"electionwatch/database"
	"electionwatch/handlers"
	"electionwatch/livemap"
	"electionwatch/middleware"
	"electionwatch/models"
	"electionwatch/notify"
	"electionwatch/rabbitmq"
	"electionwatch/websocket"
)

func main() {
	cfg := config.Load()

	log.Info("Starting the election monitoring service...")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Info("Initializing database schema and running migrations...")
	if err := database.InitializeSchema(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Services
	users := database.NewUserService(db)
	stations := database.NewStationService(db)
	reports := database.NewReportService(db)
	auth := database.NewAuthService(cfg.JWTSecret)

	var notifier notify.Notifier = notify.Disabled{}
	if cfg.SendGridAPIKey != "" {
		notifier = notify.NewEmailNotifier(cfg.SendGridAPIKey, cfg.EmailFromName, cfg.EmailFromAddr, stations)
	}

	var events rabbitmq.Publisher = rabbitmq.Disabled{}
	if cfg.RabbitMQURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Errorf("Event publishing disabled: %v", err)
		} else {
			events = publisher
			defer publisher.Close()
		}
	}

	// Live map feed
	hub := websocket.NewHub()
	go hub.Run()

	poller := livemap.NewPoller(stations, hub, cfg.MapRefreshInterval)
	poller.Start(context.Background())

	h := handlers.New(cfg, users, stations, reports, auth, hub, notifier, events)
	router := setupRouter(h, auth, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	poller.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}
	log.Info("Server stopped")
}

func setupRouter(h *handlers.Handlers, auth *database.AuthService, cfg *config.Config) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.SetTrustedProxies(cfg.TrustedProxies)

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.NewRateLimiter(50, 100).Middleware())

	router.GET("/", h.Index)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("", h.Index)
		api.GET("/health", h.HealthCheck)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
			authRoutes.POST("/refresh", h.Refresh)
		}

		// Read surface is open, same as the map overlay it feeds.
		api.GET("/stations", h.ListStations)
		api.GET("/stations/:id", h.GetStation)
		api.GET("/stations/filter/crowd-level/:level", h.FilterStationsByCrowdLevel)
		api.GET("/reports", h.ListReports)
		api.GET("/reports/:id", h.GetReport)
		api.GET("/reports/station/:stationId", h.ReportsByStation)
		api.GET("/reports/user/:userId", h.ReportsByUser)

		mapRoutes := api.Group("/map")
		{
			mapRoutes.GET("/stations", h.MapStations)
			mapRoutes.GET("/live", h.MapLive)
			mapRoutes.GET("/health", h.MapHealth)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(auth))
		{
			protected.POST("/reports", h.CreateReport)
			protected.PUT("/reports/:id", h.UpdateReport)
			protected.PATCH("/stations/:id/crowd-level", h.UpdateCrowdLevel)

			protected.GET("/users/:id", h.GetUser)
			protected.PUT("/users/:id", h.UpdateUser)

			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/admin", middleware.RequireRole(models.RoleAdmin), h.AdminDashboard)
				dashboard.GET("/citizen", h.CitizenDashboard)
				dashboard.GET("/observer", middleware.RequireRole(models.RoleObserver, models.RoleAdmin), h.ObserverDashboard)
				dashboard.GET("/analyst", middleware.RequireRole(models.RoleAnalyst, models.RoleAdmin), h.AnalystDashboard)
			}

			admin := protected.Group("")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", h.ListUsers)
				admin.POST("/users", h.CreateUser)
				admin.DELETE("/users/:id", h.DeleteUser)

				admin.POST("/stations", h.CreateStation)
				admin.PUT("/stations/:id", h.UpdateStation)
				admin.DELETE("/stations/:id", h.DeleteStation)
			}
		}
	}

	router.NoRoute(h.NotFound)
	return router
}
