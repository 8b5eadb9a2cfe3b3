package handlers

import (
	"net/http"

	"github.com/celian-arc/aim/internal/history"
	"gorm.io/gorm"
)

type HistoryHandler struct {
	DB *gorm.DB
}

func NewHistoryHandler(db *gorm.DB) *HistoryHandler { return &HistoryHandler{DB: db} }

// List shows the audit trail split in four sections, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := history.ListGrouped(h.DB)
	if err != nil {
		serverError(w)
		return
	}
	render(w, r, "history", map[string]any{
		"Assignments": groups.Assignments,
		"Composites":  groups.Composites,
		"Products":    groups.Products,
		"Other":       groups.Other,
	})
}
