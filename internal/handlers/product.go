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

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler { return &ProductHandler{DB: db} }

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var prods []models.Product
	if err := h.DB.Preload("Category").
		Joins("JOIN categories ON categories.id = products.category_id").
		Order("categories.name, products.brand").
		Find(&prods).Error; err != nil {
		serverError(w)
		return
	}
	render(w, r, "products", map[string]any{"Products": prods})
}

// customValuesFromForm collects custom_<field name> inputs; underscores
// in the input name map back to spaces in the field name.
func customValuesFromForm(r *http.Request) models.JSONMap {
	values := models.JSONMap{}
	for key, vals := range r.Form {
		if strings.HasPrefix(key, "custom_") && len(vals) > 0 {
			field := strings.ReplaceAll(key[len("custom_"):], "_", " ")
			values[field] = vals[0]
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func productFromForm(r *http.Request) (models.Product, validation.Violations) {
	v := validation.Violations{}
	catID, _ := strconv.Atoi(r.FormValue("category_id"))
	if catID <= 0 {
		v["category_id"] = "required"
	}
	state := r.FormValue("state")
	if state == "" {
		state = models.StateStock
	}
	location := r.FormValue("location")
	if location == "" {
		location = models.LocationClub
	}
	validation.OneOf("state", state, []string{models.StateStock, models.StateLoan, models.StateBroken}, v)
	validation.OneOf("location", location, []string{models.LocationClub, models.LocationLoan}, v)
	p := models.Product{
		CategoryID:   uint(catID),
		Brand:        strings.TrimSpace(r.FormValue("brand")),
		State:        state,
		Location:     location,
		Comments:     r.FormValue("comments"),
		Size:         r.FormValue("size"),
		Power:        r.FormValue("power"),
		Model:        r.FormValue("model"),
		CustomValues: customValuesFromForm(r),
	}
	return p, v
}

func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		var cats []models.Category
		_ = h.DB.Order("name").Find(&cats).Error
		render(w, r, "add_product", map[string]any{"Categories": cats})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_product", map[string]any{"Error": "invalid form"})
		return
	}
	prod, v := productFromForm(r)
	if !v.Empty() {
		var cats []models.Category
		_ = h.DB.Order("name").Find(&cats).Error
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_product", map[string]any{"Errors": v, "Categories": cats})
		return
	}
	var cat models.Category
	if err := h.DB.First(&cat, prod.CategoryID).Error; err != nil {
		notFound(w)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prod).Error; err != nil {
			return err
		}
		return history.Record(tx, history.ProductCreated{Product: prod, Category: cat.Name})
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/products", statusSeeOther)
}

// productDiff builds the field-level changes map for the audit event.
func productDiff(oldCat string, old models.Product, newCat string, updated models.Product) map[string]history.FieldChange {
	pairs := []struct {
		label    string
		from, to any
	}{
		{"Catégorie", oldCat, newCat},
		{"Marque", old.Brand, updated.Brand},
		{"État", old.State, updated.State},
		{"Lieu", old.Location, updated.Location},
		{"Taille", old.Size, updated.Size},
		{"Puissance", old.Power, updated.Power},
		{"Modèle", old.Model, updated.Model},
		{"Commentaires", old.Comments, updated.Comments},
	}
	changes := map[string]history.FieldChange{}
	for _, p := range pairs {
		if p.from != p.to {
			changes[p.label] = history.FieldChange{From: p.from, To: p.to}
		}
	}
	return changes
}

func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var prod models.Product
	if err := h.DB.Preload("Category").First(&prod, id).Error; err != nil {
		notFound(w)
		return
	}
	if r.Method == http.MethodGet {
		var cats []models.Category
		_ = h.DB.Order("name").Find(&cats).Error
		render(w, r, "edit_product", map[string]any{"Product": prod, "Categories": cats})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_product", map[string]any{"Product": prod, "Error": "invalid form"})
		return
	}
	updated, v := productFromForm(r)
	if !v.Empty() {
		var cats []models.Category
		_ = h.DB.Order("name").Find(&cats).Error
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_product", map[string]any{"Product": prod, "Errors": v, "Categories": cats})
		return
	}
	var newCat models.Category
	if err := h.DB.First(&newCat, updated.CategoryID).Error; err != nil {
		notFound(w)
		return
	}
	changes := productDiff(prod.Category.Name, prod, newCat.Name, updated)

	prod.CategoryID = updated.CategoryID
	prod.Brand = updated.Brand
	prod.State = updated.State
	prod.Location = updated.Location
	prod.Comments = updated.Comments
	prod.Size = updated.Size
	prod.Power = updated.Power
	prod.Model = updated.Model
	prod.CustomValues = updated.CustomValues

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&prod).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return history.Record(tx, history.ProductUpdated{
			ProductID: prod.ID,
			Brand:     prod.Brand,
			Category:  newCat.Name,
			Changes:   changes,
		})
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/products", statusSeeOther)
}

// Duplicate clones a product with all its attributes.
func (h *ProductHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var original models.Product
	if err := h.DB.First(&original, id).Error; err != nil {
		notFound(w)
		return
	}
	clone := original
	clone.ID = 0
	if err := h.DB.Create(&clone).Error; err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/products", statusSeeOther)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var prod models.Product
	if err := h.DB.Preload("Category").First(&prod, id).Error; err != nil {
		notFound(w)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&prod).Association("Composites").Clear(); err != nil {
			return err
		}
		if err := history.Record(tx, history.ProductDeleted{
			ProductID: prod.ID,
			Brand:     prod.Brand,
			Category:  prod.Category.Name,
		}); err != nil {
			return err
		}
		return tx.Delete(&prod).Error
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/products", statusSeeOther)
}
