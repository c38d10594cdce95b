package main

import (
	"context"
	"log"

	"github.com/briefing-hub/backend/internal/client"
	"github.com/briefing-hub/backend/internal/config"
	"github.com/briefing-hub/backend/internal/db"
	"github.com/briefing-hub/backend/internal/handler"
	"github.com/briefing-hub/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	store := db.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	mailer := client.NewMailer(cfg.Email)

	authService, err := service.NewAuthService(store, mailer, cfg.Auth)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}
	settingsService := service.NewSettingsService(store)
	templateService := service.NewTemplateService(store)

	authHandler := handler.NewAuthHandler(authService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	templateHandler := handler.NewTemplateHandler(templateService)
	proxyHandler, err := handler.NewProxyHandler(cfg.Proxy)
	if err != nil {
		log.Fatalf("proxy: %v", err)
	}

	router := newRouter(cfg.AllowedOrigins, authService, authHandler, settingsHandler, templateHandler, proxyHandler)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func newRouter(
	allowedOrigins []string,
	authService *service.AuthService,
	auth *handler.AuthHandler,
	settings *handler.SettingsHandler,
	templates *handler.TemplateHandler,
	proxy *handler.ProxyHandler,
) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	// The browser frontend sends credentialed fetches; origins come from
	// ALLOWED_ORIGINS. The proxy route stays wide open via its own header.
	router.Use(handler.CORSMiddleware(allowedOrigins, true))

	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/send-otp", auth.SendOTP)
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/signup", auth.Signup)
		// Logout dispatches on method itself so the 405 carries Allow.
		authGroup.Any("/logout", auth.Logout)
		authGroup.GET("/me", handler.AuthMiddleware(authService), auth.Me)
	}

	gated := router.Group("/", handler.AuthMiddleware(authService))
	{
		gated.Any("/settings", settings.Handle)
		gated.Any("/briefing-template", templates.Handle)
	}

	router.GET("/proxy-download", proxy.Download)

	return router
}
