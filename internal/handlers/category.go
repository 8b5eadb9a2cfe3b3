package handlers

import (
	"net/http"
	"strings"

	"github.com/celian-arc/aim/internal/models"
	"github.com/celian-arc/aim/internal/validation"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler { return &CategoryHandler{DB: db} }

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var cats []models.Category
	if err := h.DB.Order("name").Find(&cats).Error; err != nil {
		serverError(w)
		return
	}
	render(w, r, "categories", map[string]any{"Categories": cats})
}

func categoryFromForm(r *http.Request) models.Category {
	return models.Category{
		Name:         strings.TrimSpace(r.FormValue("name")),
		HasSize:      r.FormValue("has_size") != "",
		HasPower:     r.FormValue("has_power") != "",
		HasModel:     r.FormValue("has_model") != "",
		HasBrand:     r.FormValue("has_brand") != "",
		CustomFields: strings.TrimSpace(r.FormValue("custom_fields")),
	}
}

func (h *CategoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "add_category", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_category", map[string]any{"Error": "invalid form"})
		return
	}
	cat := categoryFromForm(r)
	v := validation.Violations{}
	validation.Required("name", cat.Name, v)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_category", map[string]any{"Errors": v, "Category": cat})
		return
	}
	if err := h.DB.Create(&cat).Error; err != nil {
		w.WriteHeader(http.StatusConflict)
		render(w, r, "add_category", map[string]any{"Error": "nom déjà utilisé", "Category": cat})
		return
	}
	http.Redirect(w, r, "/categories", statusSeeOther)
}

func (h *CategoryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var cat models.Category
	if err := h.DB.First(&cat, id).Error; err != nil {
		notFound(w)
		return
	}
	if r.Method == http.MethodGet {
		render(w, r, "edit_category", map[string]any{"Category": cat})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_category", map[string]any{"Category": cat, "Error": "invalid form"})
		return
	}
	updated := categoryFromForm(r)
	v := validation.Violations{}
	validation.Required("name", updated.Name, v)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_category", map[string]any{"Category": cat, "Errors": v})
		return
	}
	cat.Name = updated.Name
	cat.HasSize = updated.HasSize
	cat.HasPower = updated.HasPower
	cat.HasModel = updated.HasModel
	cat.HasBrand = updated.HasBrand
	cat.CustomFields = updated.CustomFields
	if err := h.DB.Save(&cat).Error; err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/categories", statusSeeOther)
}

// Delete removes a category with its products, detaching each product
// from any composite that contained it, all in one transaction.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var cat models.Category
	if err := h.DB.First(&cat, id).Error; err != nil {
		notFound(w)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var prods []models.Product
		if err := tx.Where("category_id = ?", id).Find(&prods).Error; err != nil {
			return err
		}
		for i := range prods {
			if err := tx.Model(&prods[i]).Association("Composites").Clear(); err != nil {
				return err
			}
			if err := tx.Delete(&prods[i]).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&cat).Error
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/categories", statusSeeOther)
}
