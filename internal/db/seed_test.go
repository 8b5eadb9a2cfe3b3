package db

import (
	"testing"

	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:seed_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestSeedIsIdempotent(t *testing.T) {
	conn := setupSeedDB(t)
	if err := Seed(conn, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Seed(conn, ""); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var count int64
	conn.Model(&models.Category{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected the 2 default categories once, got %d", count)
	}
	for _, name := range []string{"viseur", "stab"} {
		var cat models.Category
		if err := conn.Where("name = ?", name).First(&cat).Error; err != nil {
			t.Fatalf("default category %s missing: %v", name, err)
		}
		if !cat.HasModel || !cat.HasBrand {
			t.Errorf("%s should have model and brand flags: %+v", name, cat)
		}
	}
}

func TestSeedBootstrapsAdminOnce(t *testing.T) {
	conn := setupSeedDB(t)
	if err := Seed(conn, "changeme"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var admin models.User
	if err := conn.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("admin not bootstrapped: %v", err)
	}
	if admin.Role != "admin" {
		t.Errorf("bootstrap user should be admin, got %s", admin.Role)
	}
	if !auth.CheckPassword(admin.PasswordHash, "changeme") {
		t.Error("admin password not hashed from ADMIN_PASSWORD")
	}

	// Existing users block a second bootstrap.
	if err := Seed(conn, "other"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var count int64
	conn.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("bootstrap must not run twice, users=%d", count)
	}
}

func TestSeedWithoutPasswordSkipsAdmin(t *testing.T) {
	conn := setupSeedDB(t)
	if err := Seed(conn, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var count int64
	conn.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("no password, no admin; users=%d", count)
	}
}
