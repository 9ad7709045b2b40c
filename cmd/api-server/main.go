package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
	"famshare/internal/di"
)

func main() {
	log.Println("Starting famshare API server...")

	app, cleanup, err := di.InitializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	common.InitLogger(app.Config.Logging.Level, app.Config.Logging.Format)
	defer common.Logger.Sync()

	// Run migrations
	if err := dbmysql.Migrate(app.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	common.Logger.Info("database migration completed")

	router := mux.NewRouter()
	router.Use(requestLogger)

	app.AuthAPI.RegisterRoutes(router)
	app.Feed.RegisterRoutes(router, app.Auth)
	app.Invitations.RegisterRoutes(router, app.Auth)
	app.Admin.RegisterRoutes(router, app.Auth)
	app.Media.RegisterRoutes(router)

	addr := app.Config.Server.Host + ":" + app.Config.Server.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		common.Logger.Info("API server running", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.Logger.Info("shutting down API server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		common.Logger.Error("forced shutdown", zap.Error(err))
	}
	common.Logger.Info("API server stopped")
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		common.Logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
