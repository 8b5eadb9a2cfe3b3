package history

import (
	"time"

	"github.com/celian-arc/aim/internal/models"
	"gorm.io/gorm"
)

// Record appends one audit row. Callers pass the transaction handle of
// the mutation being documented so both commit or roll back together.
func Record(tx *gorm.DB, ev Event) error {
	row := models.HistoryEvent{
		EventType:  ev.Type(),
		EntityType: ev.EntityType(),
		EntityID:   ev.EntityID(),
		Summary:    ev.Summary(),
		Details:    ev.Details(),
		CreatedAt:  time.Now(),
	}
	return tx.Create(&row).Error
}

// EventsByKind groups persisted events for the history page.
type EventsByKind struct {
	Assignments []models.HistoryEvent
	Composites  []models.HistoryEvent
	Products    []models.HistoryEvent
	Other       []models.HistoryEvent
}

// ListGrouped loads all events newest first and splits them by family.
func ListGrouped(db *gorm.DB) (EventsByKind, error) {
	var events []models.HistoryEvent
	if err := db.Order("created_at DESC, id DESC").Find(&events).Error; err != nil {
		return EventsByKind{}, err
	}
	var out EventsByKind
	for _, e := range events {
		switch e.EventType {
		case "assignment", "assignment_return":
			out.Assignments = append(out.Assignments, e)
		case "composite_created", "composite_change", "composite_deleted":
			out.Composites = append(out.Composites, e)
		case "product_created", "product_updated", "product_deleted":
			out.Products = append(out.Products, e)
		default:
			out.Other = append(out.Other, e)
		}
	}
	return out, nil
}
