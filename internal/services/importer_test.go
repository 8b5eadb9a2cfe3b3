package services

import (
	"strings"
	"testing"
	"time"

	"github.com/celian-arc/aim/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:svc_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Category{}, &models.Product{}, &models.CompositeProduct{},
		&models.Archer{}, &models.Assignment{}, &models.Course{}, &models.Attendance{},
		&models.User{}, &models.HistoryEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

const importHeader = "Code adhérent;Nom;Prénom;DDN;Catégorie âge sportif\n"

func TestImportCreatesArchers(t *testing.T) {
	conn := setupServiceDB(t)
	im := NewImporter(conn, "upsert")

	csv := importHeader +
		"123456A;Martin;Léa;01/02/2010;Benjamin\n" +
		"654321B;Durand;Paul;;Senior\n"
	res, err := im.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 2 || len(res.Errors) != 0 {
		t.Fatalf("expected 2 imports, got %+v", res)
	}

	var a models.Archer
	if err := conn.Where("license_number = ?", "123456A").First(&a).Error; err != nil {
		t.Fatalf("archer not created: %v", err)
	}
	if a.FirstName != "Léa" || a.LastName != "Martin" || a.Categorie != "Benjamin" {
		t.Errorf("fields not mapped: %+v", a)
	}
	if a.Age == nil {
		t.Fatal("age should be derived from DDN")
	}
	var noDOB models.Archer
	if err := conn.Where("license_number = ?", "654321B").First(&noDOB).Error; err != nil {
		t.Fatalf("archer not created: %v", err)
	}
	if noDOB.Age != nil {
		t.Errorf("empty DDN should leave age nil, got %d", *noDOB.Age)
	}
}

func TestImportStripsBOMAndQuotedHeaders(t *testing.T) {
	conn := setupServiceDB(t)
	im := NewImporter(conn, "upsert")

	csv := "\ufeff\"Code adhérent\";\"Nom\";\"Prénom\";\"DDN\";\"Catégorie âge sportif\"\n" +
		"\"111222C\";\"Petit\";\"Anna\";\"15/06/2005\";\"Junior\"\n"
	res, err := im.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("expected 1 import, got %+v", res)
	}
	var a models.Archer
	if err := conn.Where("license_number = ?", "111222C").First(&a).Error; err != nil {
		t.Fatalf("archer not created: %v", err)
	}
	if a.FirstName != "Anna" {
		t.Errorf("quoted fields not cleaned: %+v", a)
	}
}

func TestImportRowErrorsDoNotAbortFile(t *testing.T) {
	conn := setupServiceDB(t)
	im := NewImporter(conn, "upsert")

	csv := importHeader +
		";Martin;Léa;;\n" + // missing license
		"999888D;;Paul;;\n" + // missing last name
		"777666E;Roux;Emma;;\n"
	res, err := im.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("valid row should import, got %+v", res)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", res.Errors)
	}
	if !strings.HasPrefix(res.Errors[0], "Ligne 2:") || !strings.HasPrefix(res.Errors[1], "Ligne 3:") {
		t.Errorf("errors should carry 1-based line numbers: %v", res.Errors)
	}
}

func TestImportDuplicateUpsert(t *testing.T) {
	conn := setupServiceDB(t)
	if err := conn.Create(&models.Archer{LastName: "Ancien", LicenseNumber: "123456A"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	im := NewImporter(conn, "upsert")

	csv := importHeader + "123456A;Martin;Léa;;Senior\n"
	res, err := im.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 1 || len(res.Errors) != 0 {
		t.Fatalf("upsert should count as imported: %+v", res)
	}
	var a models.Archer
	if err := conn.Where("license_number = ?", "123456A").First(&a).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if a.LastName != "Martin" || a.Categorie != "Senior" {
		t.Errorf("existing archer not updated: %+v", a)
	}
	var count int64
	conn.Model(&models.Archer{}).Count(&count)
	if count != 1 {
		t.Errorf("upsert should not create a second row, count=%d", count)
	}
}

func TestImportDuplicateReject(t *testing.T) {
	conn := setupServiceDB(t)
	if err := conn.Create(&models.Archer{LastName: "Ancien", LicenseNumber: "123456A"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	im := NewImporter(conn, "reject")

	csv := importHeader + "123456A;Martin;Léa;;Senior\n"
	res, err := im.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 0 {
		t.Fatalf("duplicate should be rejected: %+v", res)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "existe déjà") {
		t.Fatalf("expected duplicate error, got %v", res.Errors)
	}
	var a models.Archer
	conn.Where("license_number = ?", "123456A").First(&a)
	if a.LastName != "Ancien" {
		t.Errorf("rejected row must not modify the archer: %+v", a)
	}
}

func TestImportEmptyFile(t *testing.T) {
	conn := setupServiceDB(t)
	im := NewImporter(conn, "upsert")
	if _, err := im.Import(strings.NewReader("")); err == nil {
		t.Fatal("empty file should be an error")
	}
	if _, err := im.Import(strings.NewReader("\ufeff  \n")); err == nil {
		t.Fatal("blank file should be an error")
	}
}

func TestImportPositionalLicenseFallback(t *testing.T) {
	conn := setupServiceDB(t)
	im := NewImporter(conn, "upsert")

	// Unrecognized header: license falls back to column 0, the rest is lost.
	csv := "numero;nom de famille\n555444F;X\n"
	res, err := im.Import(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	// Last name column is unmatched so the row is rejected as incomplete.
	if res.Imported != 0 || len(res.Errors) != 1 {
		t.Fatalf("expected rejection for missing name, got %+v", res)
	}
}

func TestAgeFromDOB(t *testing.T) {
	ref := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want int
	}{
		{"31/08/2006", 20},
		{"01/09/2006", 19}, // birthday not reached yet
		{"2/1/2010", 16},
		{"15-06-2000", 26},
		{"2010-01-02", 16},
	}
	for _, c := range cases {
		got := ageFromDOB(c.in, ref)
		if got == nil || *got != c.want {
			t.Errorf("ageFromDOB(%q): got %v want %d", c.in, got, c.want)
		}
	}
	if ageFromDOB("", ref) != nil {
		t.Error("empty DDN should yield nil")
	}
	if ageFromDOB("pas une date", ref) != nil {
		t.Error("garbage DDN should yield nil")
	}
	if ageFromDOB("31/08/2030", ref) != nil {
		t.Error("future DDN should yield nil")
	}
}
