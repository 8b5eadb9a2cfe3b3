package handlers

import (
	"net/http"

	"github.com/celian-arc/aim/internal/models"
	"gorm.io/gorm"
)

type IndexHandler struct {
	DB *gorm.DB
}

func NewIndexHandler(db *gorm.DB) *IndexHandler { return &IndexHandler{DB: db} }

// Home is the dashboard with the entity counters.
func (h *IndexHandler) Home(w http.ResponseWriter, r *http.Request) {
	var products, archers, composites, categories, openLoans int64
	h.DB.Model(&models.Product{}).Count(&products)
	h.DB.Model(&models.Archer{}).Count(&archers)
	h.DB.Model(&models.CompositeProduct{}).Count(&composites)
	h.DB.Model(&models.Category{}).Count(&categories)
	h.DB.Model(&models.Assignment{}).Where("date_returned IS NULL").Count(&openLoans)
	render(w, r, "index", map[string]any{
		"Products":   products,
		"Archers":    archers,
		"Composites": composites,
		"Categories": categories,
		"OpenLoans":  openLoans,
	})
}
