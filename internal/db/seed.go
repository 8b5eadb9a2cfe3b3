package db

import (
	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/gate"
	"github.com/celian-arc/aim/internal/models"
	"gorm.io/gorm"
)

// Seed inserts the default equipment categories idempotently and,
// when the user table is empty and adminPassword is set, a bootstrap
// admin account.
func Seed(conn *gorm.DB, adminPassword string) error {
	defaults := []models.Category{
		{Name: "viseur", HasModel: true, HasBrand: true},
		{Name: "stab", HasModel: true, HasBrand: true},
	}
	for _, cat := range defaults {
		var existing models.Category
		err := conn.Where("name = ?", cat.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := conn.Create(&cat).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	if adminPassword == "" {
		return nil
	}
	var count int64
	if err := conn.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}
	admin := models.User{Username: "admin", PasswordHash: hash, Role: string(gate.RoleAdmin)}
	return conn.Create(&admin).Error
}
