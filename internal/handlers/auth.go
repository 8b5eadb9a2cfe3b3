package handlers

import (
	"net/http"
	"strings"

	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/i18n"
	"github.com/celian-arc/aim/internal/middleware"
	"github.com/celian-arc/aim/internal/models"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if _, ok := auth.FromContext(r.Context()); ok {
			http.Redirect(w, r, "/", statusSeeOther)
			return
		}
		render(w, r, "login", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "login", map[string]any{"Error": "invalid form"})
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	fail := func() {
		render(w, r, "login", map[string]any{
			"Error":    i18n.T(middleware.LangFrom(r), "invalid_credentials"),
			"Username": username,
		})
	}
	if username == "" || password == "" {
		fail()
		return
	}
	var user models.User
	if err := h.DB.Where("username = ?", username).First(&user).Error; err != nil {
		fail()
		return
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		fail()
		return
	}
	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/", statusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", statusSeeOther)
}
