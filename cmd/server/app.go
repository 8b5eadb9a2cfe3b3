package main

import (
	"net/http"

	"github.com/celian-arc/aim/internal/auth"
	"github.com/celian-arc/aim/internal/config"
	"github.com/celian-arc/aim/internal/gate"
	"github.com/celian-arc/aim/internal/handlers"
	"github.com/celian-arc/aim/internal/middleware"
	"github.com/celian-arc/aim/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler wiring every route behind its
// capability guard.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewApp builds the application with all routes configured.
func NewApp(db *gorm.DB, cfg config.Config, log *zap.SugaredLogger) *App {
	app := &App{mux: http.NewServeMux(), db: db, log: log}
	app.setupRoutes(cfg)
	return app
}

// ServeHTTP applies the global middleware chain around the mux:
// panic recovery, request logging, language preference, session identity.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := a.withRecover(a.withLogging(middleware.Prefs(auth.Middleware(a.mux))))
	handler.ServeHTTP(w, r)
}

func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		a.log.Debugw("request", "method", r.Method, "path", r.URL.Path)
	})
}

func (a *App) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log.Errorw("panic recovered", "path", r.URL.Path, "error", rec)
				http.Error(w, "Erreur interne", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes(cfg config.Config) {
	indexH := handlers.NewIndexHandler(a.db)
	authH := handlers.NewAuthHandler(a.db)
	catH := handlers.NewCategoryHandler(a.db)
	prodH := handlers.NewProductHandler(a.db)
	compH := handlers.NewCompositeHandler(a.db)
	archH := handlers.NewArcherHandler(a.db)
	assignH := handlers.NewAssignmentHandler(a.db, services.NewAssignmentService(a.db))
	courseH := handlers.NewCourseHandler(a.db)
	histH := handlers.NewHistoryHandler(a.db)
	exportH := handlers.NewExportHandler(services.NewExporter(a.db))
	importH := handlers.NewImportHandler(services.NewImporter(a.db, cfg.ImportDuplicateMode))
	userH := handlers.NewUserHandler(a.db)

	guard := func(c gate.Capability, h http.HandlerFunc) http.Handler {
		return gate.RequireCapability(c)(h)
	}
	guardAny := func(caps []gate.Capability, h http.HandlerFunc) http.Handler {
		return gate.RequireAnyCapability(caps...)(h)
	}
	loanCaps := []gate.Capability{gate.CapManageAssignments, gate.CapManageAssignmentsCoach}

	// Public.
	a.mux.HandleFunc("GET /login", authH.Login)
	a.mux.HandleFunc("POST /login", authH.Login)
	a.mux.HandleFunc("POST /logout", authH.Logout)
	a.mux.HandleFunc("GET /logout", authH.Logout)
	a.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Dashboard.
	a.mux.Handle("GET /{$}", guard(gate.CapView, indexH.Home))

	// Equipment categories.
	a.mux.Handle("GET /categories", guard(gate.CapViewEquipment, catH.List))
	a.mux.Handle("GET /add_category", guard(gate.CapEdit, catH.Add))
	a.mux.Handle("POST /add_category", guard(gate.CapEdit, catH.Add))
	a.mux.Handle("GET /edit_category/{id}", guard(gate.CapEdit, catH.Edit))
	a.mux.Handle("POST /edit_category/{id}", guard(gate.CapEdit, catH.Edit))
	a.mux.Handle("POST /delete_category/{id}", guard(gate.CapDelete, catH.Delete))

	// Products.
	a.mux.Handle("GET /products", guard(gate.CapViewEquipment, prodH.List))
	a.mux.Handle("GET /add_product", guard(gate.CapEdit, prodH.Add))
	a.mux.Handle("POST /add_product", guard(gate.CapEdit, prodH.Add))
	a.mux.Handle("GET /edit_product/{id}", guard(gate.CapEdit, prodH.Edit))
	a.mux.Handle("POST /edit_product/{id}", guard(gate.CapEdit, prodH.Edit))
	a.mux.Handle("GET /duplicate_product/{id}", guard(gate.CapEdit, prodH.Duplicate))
	a.mux.Handle("POST /delete_product/{id}", guard(gate.CapDelete, prodH.Delete))

	// Composite bows.
	a.mux.Handle("GET /composites", guard(gate.CapViewEquipment, compH.List))
	a.mux.Handle("GET /add_composite", guard(gate.CapEdit, compH.Add))
	a.mux.Handle("POST /add_composite", guard(gate.CapEdit, compH.Add))
	a.mux.Handle("GET /edit_composite/{id}", guard(gate.CapEdit, compH.Edit))
	a.mux.Handle("POST /edit_composite/{id}", guard(gate.CapEdit, compH.Edit))
	a.mux.Handle("POST /delete_composite/{id}", guard(gate.CapDelete, compH.Delete))

	// Archers.
	a.mux.Handle("GET /archers", guard(gate.CapView, archH.List))
	a.mux.Handle("GET /add_archer", guard(gate.CapEdit, archH.Add))
	a.mux.Handle("POST /add_archer", guard(gate.CapEdit, archH.Add))
	a.mux.Handle("GET /edit_archer/{id}", guard(gate.CapEdit, archH.Edit))
	a.mux.Handle("POST /edit_archer/{id}", guard(gate.CapEdit, archH.Edit))
	a.mux.Handle("POST /delete_archer/{id}", guard(gate.CapDelete, archH.Delete))

	// Loans.
	a.mux.Handle("GET /assignments", guard(gate.CapViewAssignments, assignH.List))
	a.mux.Handle("GET /assign", guardAny(loanCaps, assignH.Assign))
	a.mux.Handle("POST /assign", guardAny(loanCaps, assignH.Assign))
	a.mux.Handle("POST /return/{id}", guardAny(loanCaps, assignH.Return))
	a.mux.Handle("POST /reset_composite_status/{id}", guard(gate.CapManageAssignments, assignH.ResetStatus))

	// Audit trail.
	a.mux.Handle("GET /history", guard(gate.CapView, histH.List))

	// Courses and attendance.
	a.mux.Handle("GET /courses", guard(gate.CapViewCourses, courseH.List))
	a.mux.Handle("GET /add_course", guard(gate.CapManageCourses, courseH.Add))
	a.mux.Handle("POST /add_course", guard(gate.CapManageCourses, courseH.Add))
	a.mux.Handle("GET /edit_course/{id}", guard(gate.CapManageCourses, courseH.Edit))
	a.mux.Handle("POST /edit_course/{id}", guard(gate.CapManageCourses, courseH.Edit))
	a.mux.Handle("POST /delete_course/{id}", guard(gate.CapManageCourses, courseH.Delete))
	a.mux.Handle("GET /course/{id}/archers", guard(gate.CapManageCourses, courseH.Roster))
	a.mux.Handle("POST /course/{id}/add_archer/{archer_id}", guard(gate.CapManageCourses, courseH.AddArcher))
	a.mux.Handle("POST /course/{id}/remove_archer/{archer_id}", guard(gate.CapManageCourses, courseH.RemoveArcher))
	a.mux.Handle("GET /course/{id}/attendance", guard(gate.CapManageAttendance, courseH.Attendance))
	a.mux.Handle("POST /course/{id}/mark_attendance", guard(gate.CapManageAttendance, courseH.MarkAttendance))

	// PDF exports.
	a.mux.Handle("GET /export_products", guard(gate.CapViewEquipment, exportH.Products))
	a.mux.Handle("GET /export_assignments", guard(gate.CapViewAssignments, exportH.Assignments))
	a.mux.Handle("GET /export_composites", guard(gate.CapViewEquipment, exportH.Composites))
	a.mux.Handle("GET /export_archers", guard(gate.CapView, exportH.Archers))

	// CSV import.
	a.mux.Handle("GET /import_archers", guard(gate.CapEdit, importH.Archers))
	a.mux.Handle("POST /import_archers", guard(gate.CapEdit, importH.Archers))

	// User administration.
	a.mux.Handle("GET /users", guard(gate.CapAdmin, userH.List))
	a.mux.Handle("GET /add_user", guard(gate.CapAdmin, userH.Add))
	a.mux.Handle("POST /add_user", guard(gate.CapAdmin, userH.Add))
	a.mux.Handle("GET /edit_user/{id}", guard(gate.CapAdmin, userH.Edit))
	a.mux.Handle("POST /edit_user/{id}", guard(gate.CapAdmin, userH.Edit))
	a.mux.Handle("POST /delete_user/{id}", guard(gate.CapAdmin, userH.Delete))
}
