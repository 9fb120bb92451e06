// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickcart/config"
	"quickcart/controllers"
	"quickcart/repository"
	"quickcart/routes"
	"quickcart/session"
	"quickcart/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := utils.InitLogger(cfg.Development())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" {
		zap.L().Fatal("JWT_SECRET is not set")
	}
	utils.JwtKey = []byte(cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, products, closeDB := openRepositories(ctx, cfg)
	defer closeDB()

	sessionSecret := []byte(cfg.SessionSecret)
	if len(sessionSecret) == 0 {
		sessionSecret = utils.JwtKey
	}
	states := session.NewStateStore(sessionSecret, !cfg.Development())

	var providers []session.OAuthProvider
	if cfg.GoogleEnabled() {
		google, err := session.NewGoogleProvider(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			zap.L().Fatal("failed to initialize google provider", zap.Error(err))
		}
		providers = append(providers, google)
	}

	// Initialize controllers
	emailService := utils.NewEmailService(cfg.SendGridAPIKey, cfg.EmailSender, cfg.BaseURL)
	userController := controllers.NewUserController(users, emailService, cfg.RequestTimeout, cfg.SellerEmails)
	authController := controllers.NewAuthController(users, session.NewRegistry(providers...), states, cfg.RequestTimeout)
	productController := controllers.NewProductController(products, cfg.RequestTimeout)
	cartController := controllers.NewCartController(users, cfg.RequestTimeout)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, users, cfg.RequestTimeout, userController, authController, productController, cartController)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("http server failed", zap.Error(err))
		}
	}()
	zap.L().Info("quickcart started", zap.String("port", cfg.Port), zap.Int("oauth_providers", len(providers)))

	<-ctx.Done()
	zap.L().Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
	zap.L().Info("quickcart stopped cleanly")
}

// openRepositories connects to MongoDB, or keeps everything in memory when
// MONGODB_URI is "memory".
func openRepositories(ctx context.Context, cfg config.Config) (repository.UserRepository, repository.ProductRepository, func()) {
	if cfg.MongoURI == "memory" {
		zap.L().Warn("running with in-memory storage, data is lost on exit")
		return repository.NewMemoryUsers(), repository.NewMemoryProducts(), func() {}
	}

	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}
	db := client.Database(cfg.MongoDatabase)

	return repository.NewMongoUsers(db), repository.NewMongoProducts(db), func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zap.L().Error("failed to disconnect database", zap.Error(err))
		}
	}
}
