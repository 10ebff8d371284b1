package main

import (
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"focusly-api/handlers"
	"focusly-api/initializers"
	"focusly-api/middleware"
	"focusly-api/pkg/notify"
	"focusly-api/repository"
	"focusly-api/websocket"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET must be set and at least 32 characters")
	}

	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("postgres", dbURL)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		log.Printf("DB connection failed: %v, retrying in 2s...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Migration driver error:", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("Migration init error:", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Migration failed:", err)
	}

	if err := initializers.InitTemplates(); err != nil {
		log.Fatal("Failed to load template catalog:", err)
	}

	usersRepo := repository.NewUsersRepository(db)
	pagesRepo := repository.NewPagesRepository(db)

	if os.Getenv("GIN_MODE") == "release" || strings.ToLower(os.Getenv("APP_ENV")) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Structured request IDs and JSON access logs
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	// Panic recovery
	r.Use(gin.Recovery())

	// Configure trusted proxies for correct client IP handling in production
	trustedProxies := os.Getenv("TRUSTED_PROXIES")
	if trustedProxies != "" {
		parts := strings.Split(trustedProxies, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if err := r.SetTrustedProxies(parts); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	} else {
		// Default to loopback only; override via TRUSTED_PROXIES in production
		_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})
	}

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	// Push channel for inbox-changed events
	hub := websocket.NewHub()
	notifier := &notify.WSNotifier{Hub: hub}

	authHandler := handlers.NewAuthHandler(usersRepo)
	pagesHandler := handlers.NewPagesHandler(pagesRepo).WithNotifier(notifier)
	notificationsHandler := handlers.NewNotificationsHandler(pagesRepo, usersRepo).WithNotifier(notifier)
	profileHandler := handlers.NewProfileHandler(usersRepo)
	migrateHandler := handlers.NewMigrateHandler(pagesRepo, usersRepo)
	assistantHandler := handlers.NewAssistantHandler(os.Getenv("ASSISTANT_URL"), os.Getenv("ASSISTANT_API_KEY"))

	// Public endpoints
	r.GET("/health", handlers.HealthCheck)

	// Auth endpoints carry their own stricter rate limit
	authPublic := r.Group("/", middleware.RateLimitAuthMiddleware())
	authPublic.POST("/register", authHandler.Register)
	authPublic.POST("/login", func(c *gin.Context) {
		c.Set("jwtSecret", jwtSecret)
		authHandler.Login(c)
	})

	auth := r.Group("/", handlers.AuthMiddleware(jwtSecret))
	{
		auth.GET("/ws", websocket.ServeWS(hub))

		auth.GET("/pages", pagesHandler.GetPages)
		auth.POST("/pages", pagesHandler.CreatePage)
		auth.GET("/pages/:id", pagesHandler.GetPage)
		auth.PATCH("/pages/:id", pagesHandler.UpdatePage)
		auth.DELETE("/pages/:id", pagesHandler.DeletePage)

		auth.GET("/pages/:id/rows", pagesHandler.GetRows)
		auth.POST("/pages/:id/rows", pagesHandler.CreateRow)
		auth.PATCH("/pages/:id/rows/:rowId", pagesHandler.UpdateRow)
		auth.DELETE("/pages/:id/rows/:rowId", pagesHandler.DeleteRow)

		auth.POST("/pages/:id/properties", pagesHandler.ToggleProperty)
		auth.PATCH("/pages/:id/properties/:name", pagesHandler.RenameProperty)
		auth.DELETE("/pages/:id/properties/:name", pagesHandler.DeleteProperty)

		auth.GET("/notifications", notificationsHandler.List)
		auth.POST("/notifications/dismiss", notificationsHandler.Dismiss)
		auth.POST("/notifications/clear-all", notificationsHandler.ClearAll)

		auth.GET("/profile", profileHandler.GetProfile)
		auth.PATCH("/profile", profileHandler.UpdateProfile)

		auth.POST("/migrate-local", migrateHandler.MigrateLocal)

		auth.POST("/api/ask", assistantHandler.Ask)
	}

	r.Run(":8080")
}
