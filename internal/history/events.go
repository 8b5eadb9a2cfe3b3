// Package history appends immutable audit events describing every
// user-visible mutation. Each event type carries a typed payload so
// the log stays machine-readable.
package history

import (
	"fmt"

	"github.com/celian-arc/aim/internal/models"
)

// Event is one audit entry before persistence. Implementations are
// small tagged variants, one per event type.
type Event interface {
	Type() string
	EntityType() string
	EntityID() *uint
	Summary() string
	Details() models.JSONMap
}

func ref(id uint) *uint { return &id }

// ProductCreated is logged when a product row is inserted.
type ProductCreated struct {
	Product  models.Product
	Category string
}

func (e ProductCreated) Type() string       { return "product_created" }
func (e ProductCreated) EntityType() string { return "product" }
func (e ProductCreated) EntityID() *uint    { return ref(e.Product.ID) }
func (e ProductCreated) Summary() string {
	cat := e.Category
	if cat == "" {
		cat = "Catégorie inconnue"
	}
	return fmt.Sprintf("Produit créé: %s (%s)", e.Product.Brand, cat)
}
func (e ProductCreated) Details() models.JSONMap {
	return models.JSONMap{
		"category": e.Category,
		"brand":    e.Product.Brand,
		"state":    e.Product.State,
		"location": e.Product.Location,
		"size":     e.Product.Size,
		"power":    e.Product.Power,
		"model":    e.Product.Model,
	}
}

// FieldChange records one before/after pair in an update event.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// ProductUpdated is logged only when at least one field changed.
type ProductUpdated struct {
	ProductID uint
	Brand     string
	Category  string
	Changes   map[string]FieldChange
}

func (e ProductUpdated) Type() string       { return "product_updated" }
func (e ProductUpdated) EntityType() string { return "product" }
func (e ProductUpdated) EntityID() *uint    { return ref(e.ProductID) }
func (e ProductUpdated) Summary() string {
	return fmt.Sprintf("Produit modifié: %s (%s)", e.Brand, e.Category)
}
func (e ProductUpdated) Details() models.JSONMap {
	changes := models.JSONMap{}
	for field, ch := range e.Changes {
		changes[field] = models.JSONMap{"from": ch.From, "to": ch.To}
	}
	return models.JSONMap{"changes": changes}
}

type ProductDeleted struct {
	ProductID uint
	Brand     string
	Category  string
}

func (e ProductDeleted) Type() string       { return "product_deleted" }
func (e ProductDeleted) EntityType() string { return "product" }
func (e ProductDeleted) EntityID() *uint    { return ref(e.ProductID) }
func (e ProductDeleted) Summary() string {
	return fmt.Sprintf("Produit supprimé: %s (%s)", e.Brand, e.Category)
}
func (e ProductDeleted) Details() models.JSONMap {
	return models.JSONMap{"category": e.Category, "brand": e.Brand}
}

// CompositeCreated carries the component labels at creation time.
type CompositeCreated struct {
	Composite  models.CompositeProduct
	Components []string
}

func (e CompositeCreated) Type() string       { return "composite_created" }
func (e CompositeCreated) EntityType() string { return "composite" }
func (e CompositeCreated) EntityID() *uint    { return ref(e.Composite.ID) }
func (e CompositeCreated) Summary() string    { return "Arc créé: " + e.Composite.Name }
func (e CompositeCreated) Details() models.JSONMap {
	return models.JSONMap{
		"components": e.Components,
		"type":       e.Composite.Type,
		"status":     e.Composite.Status,
	}
}

// CompositeChanged is logged when the component set of a bow changes.
type CompositeChanged struct {
	CompositeID uint
	Name        string
	Before      []string
	After       []string
}

func (e CompositeChanged) Type() string       { return "composite_change" }
func (e CompositeChanged) EntityType() string { return "composite" }
func (e CompositeChanged) EntityID() *uint    { return ref(e.CompositeID) }
func (e CompositeChanged) Summary() string    { return "Composition modifiée: " + e.Name }
func (e CompositeChanged) Details() models.JSONMap {
	return models.JSONMap{"before": e.Before, "after": e.After}
}

type CompositeDeleted struct {
	CompositeID uint
	Name        string
	BowType     string
	Status      string
}

func (e CompositeDeleted) Type() string       { return "composite_deleted" }
func (e CompositeDeleted) EntityType() string { return "composite" }
func (e CompositeDeleted) EntityID() *uint    { return ref(e.CompositeID) }
func (e CompositeDeleted) Summary() string    { return "Arc supprimé: " + e.Name }
func (e CompositeDeleted) Details() models.JSONMap {
	return models.JSONMap{"type": e.BowType, "status": e.Status}
}

// Assigned is logged when a bow is loaned to an archer.
type Assigned struct {
	ArcherName    string
	CompositeName string
}

func (e Assigned) Type() string       { return "assignment" }
func (e Assigned) EntityType() string { return "assignment" }
func (e Assigned) EntityID() *uint    { return nil }
func (e Assigned) Summary() string {
	return fmt.Sprintf("Assigné: %s ← %s", e.ArcherName, e.CompositeName)
}
func (e Assigned) Details() models.JSONMap {
	return models.JSONMap{"archer": e.ArcherName, "composite": e.CompositeName}
}

// Returned is logged when a loaned bow comes back to the club.
type Returned struct {
	AssignmentID  uint
	ArcherName    string
	CompositeName string
}

func (e Returned) Type() string       { return "assignment_return" }
func (e Returned) EntityType() string { return "assignment" }
func (e Returned) EntityID() *uint    { return ref(e.AssignmentID) }
func (e Returned) Summary() string {
	return fmt.Sprintf("Retour: %s → %s", e.ArcherName, e.CompositeName)
}
func (e Returned) Details() models.JSONMap {
	return models.JSONMap{"archer": e.ArcherName, "composite": e.CompositeName}
}

type CourseCreated struct {
	Course models.Course
}

func (e CourseCreated) Type() string       { return "course_created" }
func (e CourseCreated) EntityType() string { return "course" }
func (e CourseCreated) EntityID() *uint    { return ref(e.Course.ID) }
func (e CourseCreated) Summary() string {
	return fmt.Sprintf("Cours créé: %s - %s %s-%s",
		e.Course.Name, e.Course.DayName(), e.Course.StartTime, e.Course.EndTime)
}
func (e CourseCreated) Details() models.JSONMap {
	d := models.JSONMap{"level": e.Course.Level}
	if e.Course.MaxArchers != nil {
		d["max_archers"] = *e.Course.MaxArchers
	}
	return d
}

type ArcherAddedToCourse struct {
	CourseID   uint
	CourseName string
	ArcherName string
}

func (e ArcherAddedToCourse) Type() string       { return "archer_added_to_course" }
func (e ArcherAddedToCourse) EntityType() string { return "course" }
func (e ArcherAddedToCourse) EntityID() *uint    { return ref(e.CourseID) }
func (e ArcherAddedToCourse) Summary() string {
	return fmt.Sprintf("%s ajouté au cours %s", e.ArcherName, e.CourseName)
}
func (e ArcherAddedToCourse) Details() models.JSONMap {
	return models.JSONMap{"archer": e.ArcherName, "course": e.CourseName}
}

type UserCreated struct {
	UserID   uint
	Username string
	Role     string
}

func (e UserCreated) Type() string       { return "user_created" }
func (e UserCreated) EntityType() string { return "user" }
func (e UserCreated) EntityID() *uint    { return ref(e.UserID) }
func (e UserCreated) Summary() string {
	return fmt.Sprintf("Utilisateur créé: %s (%s)", e.Username, e.Role)
}
func (e UserCreated) Details() models.JSONMap {
	return models.JSONMap{"username": e.Username, "role": e.Role}
}

type UserDeleted struct {
	UserID   uint
	Username string
}

func (e UserDeleted) Type() string       { return "user_deleted" }
func (e UserDeleted) EntityType() string { return "user" }
func (e UserDeleted) EntityID() *uint    { return ref(e.UserID) }
func (e UserDeleted) Summary() string    { return "Utilisateur supprimé: " + e.Username }
func (e UserDeleted) Details() models.JSONMap {
	return models.JSONMap{"username": e.Username}
}
