package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/celian-arc/aim/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:h_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
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

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }

// postForm builds an urlencoded POST with the given path values set.
func postForm(target string, form url.Values, pathValues map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}
