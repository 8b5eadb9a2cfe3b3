package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/celian-arc/aim/internal/history"
	"github.com/celian-arc/aim/internal/models"
	"github.com/celian-arc/aim/internal/validation"
	"gorm.io/gorm"
)

type CompositeHandler struct {
	DB *gorm.DB
}

func NewCompositeHandler(db *gorm.DB) *CompositeHandler { return &CompositeHandler{DB: db} }

func (h *CompositeHandler) List(w http.ResponseWriter, r *http.Request) {
	var comps []models.CompositeProduct
	if err := h.DB.Preload("Components.Category").Find(&comps).Error; err != nil {
		serverError(w)
		return
	}
	render(w, r, "composites", map[string]any{"Composites": comps})
}

func componentLabels(comps []models.Product) []string {
	labels := make([]string, 0, len(comps))
	for _, p := range comps {
		labels = append(labels, p.Label())
	}
	return labels
}

// selectedComponents loads the products picked in the multi-select.
func (h *CompositeHandler) selectedComponents(tx *gorm.DB, r *http.Request) ([]models.Product, error) {
	ids := make([]uint, 0)
	for _, raw := range r.Form["components"] {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			ids = append(ids, uint(n))
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var prods []models.Product
	if err := tx.Preload("Category").Where("id IN ?", ids).Find(&prods).Error; err != nil {
		return nil, err
	}
	return prods, nil
}

func (h *CompositeHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		var cats []models.Category
		_ = h.DB.Order("name").Find(&cats).Error
		var prods []models.Product
		_ = h.DB.Preload("Category").Find(&prods).Error
		render(w, r, "add_composite", map[string]any{"Categories": cats, "Products": prods})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_composite", map[string]any{"Error": "invalid form"})
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	bowType := r.FormValue("type")
	status := r.FormValue("status")
	if status == "" {
		status = models.StatusClub
	}
	v := validation.Violations{}
	validation.Required("name", name, v)
	validation.OneOf("status", status, []string{models.StatusClub, models.StatusLoan}, v)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_composite", map[string]any{"Errors": v})
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		comp := models.CompositeProduct{Name: name, Type: bowType, Status: status}
		if err := tx.Create(&comp).Error; err != nil {
			return err
		}
		prods, err := h.selectedComponents(tx, r)
		if err != nil {
			return err
		}
		if len(prods) > 0 {
			if err := tx.Model(&comp).Association("Components").Append(&prods); err != nil {
				return err
			}
		}
		return history.Record(tx, history.CompositeCreated{
			Composite:  comp,
			Components: componentLabels(prods),
		})
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/composites", statusSeeOther)
}

func (h *CompositeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var comp models.CompositeProduct
	if err := h.DB.Preload("Components.Category").First(&comp, id).Error; err != nil {
		notFound(w)
		return
	}
	if r.Method == http.MethodGet {
		var prods []models.Product
		_ = h.DB.Preload("Category").Find(&prods).Error
		render(w, r, "edit_composite", map[string]any{"Composite": comp, "Products": prods})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_composite", map[string]any{"Composite": comp, "Error": "invalid form"})
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	v := validation.Violations{}
	validation.Required("name", name, v)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_composite", map[string]any{"Composite": comp, "Errors": v})
		return
	}
	before := componentLabels(comp.Components)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		comp.Name = name
		comp.Type = r.FormValue("type")
		if s := r.FormValue("status"); s == models.StatusClub || s == models.StatusLoan {
			comp.Status = s
		}
		if err := tx.Save(&comp).Error; err != nil {
			return err
		}
		prods, err := h.selectedComponents(tx, r)
		if err != nil {
			return err
		}
		if err := tx.Model(&comp).Association("Components").Replace(&prods); err != nil {
			return err
		}
		after := componentLabels(prods)
		if !equalStrings(before, after) {
			return history.Record(tx, history.CompositeChanged{
				CompositeID: comp.ID,
				Name:        comp.Name,
				Before:      before,
				After:       after,
			})
		}
		return nil
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/composites", statusSeeOther)
}

func (h *CompositeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var comp models.CompositeProduct
	if err := h.DB.First(&comp, id).Error; err != nil {
		notFound(w)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("composite_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&comp).Association("Components").Clear(); err != nil {
			return err
		}
		if err := history.Record(tx, history.CompositeDeleted{
			CompositeID: comp.ID,
			Name:        comp.Name,
			BowType:     comp.Type,
			Status:      comp.Status,
		}); err != nil {
			return err
		}
		return tx.Delete(&comp).Error
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/composites", statusSeeOther)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
