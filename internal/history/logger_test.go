package history

import (
	"testing"

	"github.com/celian-arc/aim/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHistoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:hist_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.HistoryEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRecordPersistsEventFields(t *testing.T) {
	conn := setupHistoryDB(t)
	ev := Assigned{ArcherName: "Léa Martin", CompositeName: "Arc initiation 1"}
	if err := Record(conn, ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	var row models.HistoryEvent
	if err := conn.First(&row).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if row.EventType != "assignment" || row.EntityType != "assignment" {
		t.Errorf("types not mapped: %+v", row)
	}
	if row.Summary != "Assigné: Léa Martin ← Arc initiation 1" {
		t.Errorf("unexpected summary %q", row.Summary)
	}
	if row.Details["archer"] != "Léa Martin" {
		t.Errorf("details not persisted: %v", row.Details)
	}
	if row.CreatedAt.IsZero() {
		t.Error("created_at should be stamped")
	}
}

func TestListGroupedSplitsByFamily(t *testing.T) {
	conn := setupHistoryDB(t)
	events := []Event{
		Assigned{ArcherName: "a", CompositeName: "c"},
		Returned{AssignmentID: 1, ArcherName: "a", CompositeName: "c"},
		CompositeCreated{Composite: models.CompositeProduct{Name: "Arc 1"}},
		ProductDeleted{ProductID: 1, Brand: "Shibuya", Category: "viseur"},
		UserCreated{UserID: 1, Username: "u", Role: "lecteur"},
	}
	for _, ev := range events {
		if err := Record(conn, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	groups, err := ListGrouped(conn)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(groups.Assignments) != 2 {
		t.Errorf("assignments: got %d", len(groups.Assignments))
	}
	if len(groups.Composites) != 1 {
		t.Errorf("composites: got %d", len(groups.Composites))
	}
	if len(groups.Products) != 1 {
		t.Errorf("products: got %d", len(groups.Products))
	}
	if len(groups.Other) != 1 {
		t.Errorf("other: got %d", len(groups.Other))
	}
}
