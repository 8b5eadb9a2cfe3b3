package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/celian-arc/aim/internal/models"
	"github.com/celian-arc/aim/internal/services"
	"gorm.io/gorm"
)

type AssignmentHandler struct {
	DB  *gorm.DB
	Svc *services.AssignmentService
}

func NewAssignmentHandler(db *gorm.DB, svc *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{DB: db, Svc: svc}
}

// List shows the open loans only.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	var assigns []models.Assignment
	if err := h.DB.Preload("Archer").Preload("Composite").
		Where("date_returned IS NULL").Find(&assigns).Error; err != nil {
		serverError(w)
		return
	}
	render(w, r, "assignments", map[string]any{"Assignments": assigns})
}

// Assign renders the loan form (GET, optionally preselecting an
// archer) or opens a loan (POST).
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		var archers []models.Archer
		_ = h.DB.Order("last_name, first_name").Find(&archers).Error
		var available []models.CompositeProduct
		_ = h.DB.Where("status = ?", models.StatusClub).Find(&available).Error
		var all []models.CompositeProduct
		_ = h.DB.Find(&all).Error
		data := map[string]any{
			"Archers":       archers,
			"Composites":    available,
			"AllComposites": all,
		}
		if raw := r.URL.Query().Get("archer_id"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				var selected models.Archer
				if err := h.DB.First(&selected, n).Error; err == nil {
					data["SelectedArcher"] = selected
				}
			}
		}
		render(w, r, "assign", data)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "assign", map[string]any{"Error": "invalid form"})
		return
	}
	archerID, _ := strconv.Atoi(r.FormValue("archer_id"))
	compositeID, _ := strconv.Atoi(r.FormValue("composite_id"))
	if archerID <= 0 || compositeID <= 0 {
		notFound(w)
		return
	}
	if err := h.Svc.Assign(uint(archerID), uint(compositeID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w)
			return
		}
		serverError(w)
		return
	}
	http.Redirect(w, r, "/assignments", statusSeeOther)
}

func (h *AssignmentHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	if err := h.Svc.Return(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w)
			return
		}
		serverError(w)
		return
	}
	http.Redirect(w, r, "/assignments", statusSeeOther)
}

// ResetStatus is the manual recovery hatch forcing a composite back
// to club without touching assignments.
func (h *AssignmentHandler) ResetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	if err := h.Svc.ResetStatus(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(w)
			return
		}
		serverError(w)
		return
	}
	http.Redirect(w, r, "/assign", statusSeeOther)
}
