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

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"gamelog/api"
	"gamelog/config"
	"gamelog/handlers"
	"gamelog/internal/auth"
	"gamelog/internal/database"
	"gamelog/services/catalog"
	"gamelog/services/content"
	"gamelog/services/genres"
	"gamelog/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] database: %v", err)
	}
	defer db.Close()

	repo := database.NewContentRepository(db.Connection())
	verifier := auth.NewJWTVerifier(cfg.AuthJWTSecret)

	catalogSvc := catalog.NewService(cfg.IGDBClientID, cfg.IGDBClientSecret, nil, cfg.MetadataTTLHours)
	contentSvc := content.NewService(repo, cfg.ContentCacheTTL)
	genresSvc := genres.NewService(contentSvc, catalogSvc)

	catalogHandler := handlers.NewCatalogHandler(catalogSvc)
	genresHandler := handlers.NewGenresHandler(genresSvc)
	contentHandler := handlers.NewContentHandler(contentSvc)
	backlogHandler := handlers.NewBacklogHandler(repo)

	router := utils.NewRouter(cfg.AllowedOrigins)

	// Catalog lookup routes: rate limited per IP since each miss costs an
	// external catalog call.
	lookups := router.PathPrefix("/api").Subrouter()
	lookups.Use(api.RateLimit(api.NewIPRateLimiter(rate.Every(200*time.Millisecond), 10)))
	lookups.HandleFunc("/cover", catalogHandler.GetCover).Methods(http.MethodGet)
	lookups.HandleFunc("/banner", catalogHandler.GetBanner).Methods(http.MethodGet)
	lookups.HandleFunc("/details", catalogHandler.GetDetails).Methods(http.MethodGet)
	lookups.HandleFunc("/genres", genresHandler.GetGenres).Methods(http.MethodGet)

	// Content reads are public with optional auth for restricted records.
	reads := router.PathPrefix("/api/content").Methods(http.MethodGet, http.MethodOptions).Subrouter()
	reads.Use(api.OptionalAuth(verifier))
	reads.HandleFunc("", contentHandler.ListContent)

	// Mutations require a verified identity.
	writes := router.PathPrefix("/api/content").Subrouter()
	writes.Use(api.RequireAuth(verifier))
	writes.HandleFunc("", contentHandler.CreateContent).Methods(http.MethodPost)
	writes.HandleFunc("/{id}", contentHandler.UpdateContent).Methods(http.MethodPatch)
	writes.HandleFunc("/{id}", contentHandler.DeleteContent).Methods(http.MethodDelete)

	router.HandleFunc("/api/backlog", backlogHandler.ListBacklog).Methods(http.MethodGet)
	backlogWrites := router.PathPrefix("/api/backlog").Subrouter()
	backlogWrites.Use(api.RequireAuth(verifier))
	backlogWrites.HandleFunc("", backlogHandler.CreateBacklogItem).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[main] server running on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}
