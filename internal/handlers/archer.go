package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/celian-arc/aim/internal/models"
	"github.com/celian-arc/aim/internal/validation"
	"gorm.io/gorm"
)

type ArcherHandler struct {
	DB *gorm.DB
}

func NewArcherHandler(db *gorm.DB) *ArcherHandler { return &ArcherHandler{DB: db} }

func (h *ArcherHandler) List(w http.ResponseWriter, r *http.Request) {
	var archers []models.Archer
	if err := h.DB.Order("last_name, first_name").Find(&archers).Error; err != nil {
		serverError(w)
		return
	}
	// Open assignments keyed by archer, for the loan column.
	var open []models.Assignment
	_ = h.DB.Preload("Composite").Where("date_returned IS NULL").Find(&open).Error
	current := make(map[uint]models.Assignment, len(open))
	for _, a := range open {
		current[a.ArcherID] = a
	}
	render(w, r, "archers", map[string]any{"Archers": archers, "Current": current})
}

func archerFromForm(r *http.Request) (models.Archer, validation.Violations) {
	v := validation.Violations{}
	a := models.Archer{
		FirstName:     strings.TrimSpace(r.FormValue("first_name")),
		LastName:      strings.TrimSpace(r.FormValue("last_name")),
		LicenseNumber: strings.TrimSpace(r.FormValue("license")),
		Categorie:     strings.TrimSpace(r.FormValue("categorie")),
		BowLength:     r.FormValue("bow_length"),
		DrawLength:    r.FormValue("draw_length"),
		BowType:       r.FormValue("bow_type"),
		Notes:         r.FormValue("notes"),
	}
	validation.Required("last_name", a.LastName, v)
	validation.Required("license", a.LicenseNumber, v)
	if raw := strings.TrimSpace(r.FormValue("age")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			a.Age = &n
		} else {
			v["age"] = "invalid_value"
		}
	}
	return a, v
}

func (h *ArcherHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "add_archer", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_archer", map[string]any{"Error": "invalid form"})
		return
	}
	archer, v := archerFromForm(r)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_archer", map[string]any{"Errors": v, "Archer": archer})
		return
	}
	if err := h.DB.Create(&archer).Error; err != nil {
		w.WriteHeader(http.StatusConflict)
		render(w, r, "add_archer", map[string]any{"Error": "numéro de licence déjà utilisé", "Archer": archer})
		return
	}
	http.Redirect(w, r, "/archers", statusSeeOther)
}

func (h *ArcherHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var archer models.Archer
	if err := h.DB.First(&archer, id).Error; err != nil {
		notFound(w)
		return
	}
	if r.Method == http.MethodGet {
		render(w, r, "edit_archer", map[string]any{"Archer": archer})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_archer", map[string]any{"Archer": archer, "Error": "invalid form"})
		return
	}
	updated, v := archerFromForm(r)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_archer", map[string]any{"Archer": archer, "Errors": v})
		return
	}
	archer.FirstName = updated.FirstName
	archer.LastName = updated.LastName
	archer.LicenseNumber = updated.LicenseNumber
	archer.Age = updated.Age
	archer.Categorie = updated.Categorie
	archer.BowLength = updated.BowLength
	archer.DrawLength = updated.DrawLength
	archer.BowType = updated.BowType
	archer.Notes = updated.Notes
	if err := h.DB.Save(&archer).Error; err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/archers", statusSeeOther)
}

// Delete cascades the archer's assignments and attendance explicitly.
func (h *ArcherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var archer models.Archer
	if err := h.DB.First(&archer, id).Error; err != nil {
		notFound(w)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("archer_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("archer_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&archer).Association("Courses").Clear(); err != nil {
			return err
		}
		return tx.Delete(&archer).Error
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/archers", statusSeeOther)
}
