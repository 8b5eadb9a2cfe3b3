// Command adduser creates or updates an application account from the
// command line, for bootstrapping without the web UI.
package main

import (
	"errors"
	"flag"

	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/config"
	"github.com/celian-arc/aim/internal/db"
	"github.com/celian-arc/aim/internal/gate"
	"github.com/celian-arc/aim/internal/logger"
	"github.com/celian-arc/aim/internal/models"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "", "account name")
	password := flag.String("password", "", "plaintext password, hashed before storage")
	role := flag.String("role", "lecteur", "one of admin, responsable, editeur, lecteur, coach")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New()
	defer func() { _ = log.Sync() }()

	if *username == "" || *password == "" {
		log.Fatalw("username and password are required")
	}
	if !gate.Valid(gate.Role(*role)) {
		log.Fatalw("unknown role", "role", *role)
	}

	conn, err := db.Connect(cfg.DatabaseDSN, cfg.Debug, log)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	if err := db.Migrate(conn, cfg.DatabaseDSN, cfg.Migrations); err != nil {
		log.Fatalw("migration failed", "error", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalw("password hashing failed", "error", err)
	}

	var user models.User
	err = conn.Where("username = ?", *username).First(&user).Error
	switch {
	case err == nil:
		user.PasswordHash = hash
		user.Role = *role
		if err := conn.Save(&user).Error; err != nil {
			log.Fatalw("update failed", "error", err)
		}
		log.Infow("user updated", "username", user.Username, "role", user.Role)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Username: *username, PasswordHash: hash, Role: *role}
		if err := conn.Create(&user).Error; err != nil {
			log.Fatalw("create failed", "error", err)
		}
		log.Infow("user created", "username", user.Username, "role", user.Role)
	default:
		log.Fatalw("lookup failed", "error", err)
	}
}
