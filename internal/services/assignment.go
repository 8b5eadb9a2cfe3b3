package services

import (
	"time"

	"github.com/celian-arc/aim/internal/history"
	"github.com/celian-arc/aim/internal/models"
	"gorm.io/gorm"
)

// AssignmentService owns the composite loan workflow. Status moves
// club -> loan only through Assign and loan -> club through Return,
// except for the manual ResetStatus recovery hatch.
type AssignmentService struct {
	DB *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService { return &AssignmentService{DB: db} }

// Assign opens a loan: creates the assignment row and flips the
// composite to loan, with the audit event in the same transaction.
func (s *AssignmentService) Assign(archerID, compositeID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var archer models.Archer
		if err := tx.First(&archer, archerID).Error; err != nil {
			return err
		}
		var comp models.CompositeProduct
		if err := tx.First(&comp, compositeID).Error; err != nil {
			return err
		}
		assignment := models.Assignment{
			ArcherID:     archerID,
			CompositeID:  compositeID,
			DateAssigned: time.Now(),
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		if err := tx.Model(&comp).Update("status", models.StatusLoan).Error; err != nil {
			return err
		}
		return history.Record(tx, history.Assigned{
			ArcherName:    archer.Name(),
			CompositeName: comp.Name,
		})
	})
}

// Return closes a loan: stamps DateReturned and flips the composite
// back to club.
func (s *AssignmentService) Return(assignmentID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var assignment models.Assignment
		if err := tx.Preload("Archer").Preload("Composite").First(&assignment, assignmentID).Error; err != nil {
			return err
		}
		now := time.Now()
		if err := tx.Model(&assignment).Update("date_returned", now).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.CompositeProduct{}).
			Where("id = ?", assignment.CompositeID).
			Update("status", models.StatusClub).Error; err != nil {
			return err
		}
		return history.Record(tx, history.Returned{
			AssignmentID:  assignment.ID,
			ArcherName:    assignment.Archer.Name(),
			CompositeName: assignment.Composite.Name,
		})
	})
}

// ResetStatus forces a composite back to club without touching any
// assignment row. Manual recovery for inconsistent state; deliberately
// not audited, matching the workflow it repairs.
func (s *AssignmentService) ResetStatus(compositeID uint) error {
	var comp models.CompositeProduct
	if err := s.DB.First(&comp, compositeID).Error; err != nil {
		return err
	}
	return s.DB.Model(&comp).Update("status", models.StatusClub).Error
}
