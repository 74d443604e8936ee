package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/galereya/analysis-service/internal/application"
	appanalysis "github.com/galereya/analysis-service/internal/application/analysis"
	"github.com/galereya/analysis-service/internal/config"
	"github.com/galereya/analysis-service/internal/infra/callback"
	"github.com/galereya/analysis-service/internal/infra/engine"
	"github.com/galereya/analysis-service/internal/infra/httpserver"
	"github.com/galereya/analysis-service/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := middleware.ValidateBaseURL(cfg.Callback.BaseURL); err != nil {
		log.Fatalf("callback base URL error: %v", err)
	}

	// init scoring engine
	eng := engine.New(
		application.SystemRand(),
		application.SystemClock{},
		cfg.MinDelay(),
		cfg.MaxDelay(),
		cfg.Analysis.SuccessRate,
	)

	// init callback sender
	sender := callback.New(cfg.Callback.BaseURL, cfg.Callback.ServiceKey, cfg.CallbackTimeout())

	// init service
	svc := &appanalysis.Service{
		Engine:   eng,
		Notifier: sender,
	}

	checkers := map[string]middleware.HealthChecker{
		"main_service": &middleware.CallbackHealthChecker{BaseURL: cfg.Callback.BaseURL},
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	mux.Use(middleware.Logging)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(svc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s callback=%s", addr, cfg.Callback.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
