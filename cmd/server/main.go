package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contactManagement/internal/cache"
	"contactManagement/internal/config"
	"contactManagement/internal/db"
	"contactManagement/internal/logger"
	"contactManagement/internal/server"
	"contactManagement/internal/service"
	"contactManagement/repository"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()
	lg.Info("configuration loaded", "config", cfg.String())

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		lg.Fatal("open db", "error", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			lg.Error("close db", "error", err)
		}
	}()

	users := repository.NewUserRepository(d)
	contacts := repository.NewContactRepository(d)

	// Cache store: redis when enabled, otherwise a no-op store that keeps
	// every read-through a miss. A dead redis is tolerated here; the cache
	// degrades to direct recomputation at call time.
	var store cache.Store
	if cfg.Cache.Enabled {
		store = cache.NewRedisStore(cache.NewRedisClient(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB))
	} else {
		store = cache.NewNoopStore()
	}
	counts := cache.NewContactsCounts(store, contacts, cfg.Cache.ContactsCountTTL, lg)
	invalidator := cache.NewInvalidator(counts, lg)

	userService := service.NewUserService(users, counts, invalidator, lg)
	contactService := service.NewContactService(contacts, counts, invalidator, lg)

	srv := server.New(cfg, userService, contactService, lg)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		lg.Info("http server listening", "address", cfg.HTTP.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server", "error", err)
		}
	}()

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		lg.Error("shutdown error", "error", err)
	}
}
