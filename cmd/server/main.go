package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/config"
	"github.com/celian-arc/aim/internal/db"
	"github.com/celian-arc/aim/internal/logger"
	"github.com/celian-arc/aim/internal/models"
	"github.com/joho/godotenv"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New()
	defer func() { _ = log.Sync() }()

	conn, err := db.Connect(cfg.DatabaseDSN, cfg.Debug, log)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn, cfg.DatabaseDSN, cfg.Migrations); err != nil {
			log.Fatalw("migration failed", "error", err)
		}
		log.Infow("migrations completed")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(conn, cfg.AdminPassword); err != nil {
			log.Fatalw("seeding failed", "error", err)
		}
		log.Infow("seeding completed")
		return
	}

	if err := db.Migrate(conn, cfg.DatabaseDSN, cfg.Migrations); err != nil {
		log.Fatalw("migration failed", "error", err)
	}
	if cfg.SeedDB {
		if err := db.Seed(conn, cfg.AdminPassword); err != nil {
			log.Fatalw("seeding failed", "error", err)
		}
	}

	auth.Configure(cfg.SessionSecret, func(ctx context.Context, uid uint) (auth.Identity, bool) {
		var u models.User
		if err := conn.WithContext(ctx).First(&u, uid).Error; err != nil {
			return auth.Identity{}, false
		}
		return auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role}, true
	})

	app := NewApp(conn, cfg, log)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infow("server listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
}
