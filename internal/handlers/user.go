package handlers

import (
	"net/http"
	"strings"

	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/gate"
	"github.com/celian-arc/aim/internal/history"
	"github.com/celian-arc/aim/internal/httpx"
	"github.com/celian-arc/aim/internal/i18n"
	"github.com/celian-arc/aim/internal/middleware"
	"github.com/celian-arc/aim/internal/models"
	"github.com/celian-arc/aim/internal/validation"
	"gorm.io/gorm"
)

// UserHandler manages application accounts. Every route here sits
// behind the admin capability.
type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{DB: db} }

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("username").Find(&users).Error; err != nil {
		serverError(w)
		return
	}
	render(w, r, "users", map[string]any{"Users": users, "Roles": gate.Roles})
}

func (h *UserHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "add_user", map[string]any{"Roles": gate.Roles})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_user", map[string]any{"Error": "invalid form", "Roles": gate.Roles})
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	role := gate.Role(r.FormValue("role"))
	v := validation.Violations{}
	validation.Required("username", username, v)
	validation.Required("password", password, v)
	if !gate.Valid(role) {
		v["role"] = "invalid_value"
	}
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "add_user", map[string]any{"Errors": v, "Roles": gate.Roles, "Username": username})
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		serverError(w)
		return
	}
	user := models.User{Username: username, PasswordHash: hash, Role: string(role)}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return history.Record(tx, history.UserCreated{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
	})
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		render(w, r, "add_user", map[string]any{"Error": "nom d'utilisateur déjà utilisé", "Roles": gate.Roles})
		return
	}
	http.Redirect(w, r, "/users", statusSeeOther)
}

// Edit changes the role and, when a new password is supplied, the hash.
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		notFound(w)
		return
	}
	if r.Method == http.MethodGet {
		render(w, r, "edit_user", map[string]any{"User": user, "Roles": gate.Roles})
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_user", map[string]any{"User": user, "Error": "invalid form", "Roles": gate.Roles})
		return
	}
	role := gate.Role(r.FormValue("role"))
	if !gate.Valid(role) {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "edit_user", map[string]any{"User": user, "Errors": validation.Violations{"role": "invalid_value"}, "Roles": gate.Roles})
		return
	}
	// Demoting the last admin would lock everyone out, same as deletion.
	if user.Role == string(gate.RoleAdmin) && role != gate.RoleAdmin {
		lastAdmin, err := h.isLastAdmin(user.ID)
		if err != nil {
			serverError(w)
			return
		}
		if lastAdmin {
			httpx.SetFlash(w, i18n.T(middleware.LangFrom(r), "last_admin"))
			http.Redirect(w, r, "/users", statusSeeOther)
			return
		}
	}
	user.Role = string(role)
	if pass := r.FormValue("password"); pass != "" {
		hash, err := auth.HashPassword(pass)
		if err != nil {
			serverError(w)
			return
		}
		user.PasswordHash = hash
	}
	if err := h.DB.Save(&user).Error; err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/users", statusSeeOther)
}

// Delete refuses to remove the last admin so the application always
// keeps at least one.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		notFound(w)
		return
	}
	if user.Role == string(gate.RoleAdmin) {
		lastAdmin, err := h.isLastAdmin(user.ID)
		if err != nil {
			serverError(w)
			return
		}
		if lastAdmin {
			httpx.SetFlash(w, i18n.T(middleware.LangFrom(r), "last_admin"))
			http.Redirect(w, r, "/users", statusSeeOther)
			return
		}
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := history.Record(tx, history.UserDeleted{
			UserID:   user.ID,
			Username: user.Username,
		}); err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		serverError(w)
		return
	}
	http.Redirect(w, r, "/users", statusSeeOther)
}

func (h *UserHandler) isLastAdmin(excludeID uint) (bool, error) {
	var others int64
	err := h.DB.Model(&models.User{}).
		Where("role = ? AND id <> ?", string(gate.RoleAdmin), excludeID).
		Count(&others).Error
	return others == 0, err
}
