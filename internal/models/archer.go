package models

import (
	"time"

	"gorm.io/gorm"
)

// Archer is a club member. LastName and LicenseNumber are the only
// required identity fields; everything else is optional profile data.
type Archer struct {
	ID            uint   `gorm:"primaryKey"`
	FirstName     string `gorm:"size:100"`
	LastName      string `gorm:"size:100;not null"`
	Age           *int
	LicenseNumber string `gorm:"size:20;unique;not null"`
	Categorie     string `gorm:"size:50"` // catégorie âge sportif (FFTA)
	BowLength     string `gorm:"size:50"`
	DrawLength    string `gorm:"size:50"`
	BowType       string `gorm:"size:50"`
	Notes         string `gorm:"type:text"`
	Courses       []Course `gorm:"many2many:archer_courses;"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Name returns "First Last", or the last name alone when the first
// name is empty.
func (a Archer) Name() string {
	if a.FirstName != "" {
		return a.FirstName + " " + a.LastName
	}
	return a.LastName
}

// Assignment is a loan of one composite bow to one archer. An open
// assignment has DateReturned nil.
type Assignment struct {
	ID           uint             `gorm:"primaryKey"`
	ArcherID     uint             `gorm:"not null;index;constraint:OnDelete:CASCADE"`
	Archer       Archer           `gorm:"foreignKey:ArcherID"`
	CompositeID  uint             `gorm:"not null;index"`
	Composite    CompositeProduct `gorm:"foreignKey:CompositeID"`
	DateAssigned time.Time        `gorm:"not null"`
	DateReturned *time.Time
}

// CurrentAssignment returns the archer's open assignment, or nil when
// every loan has been returned.
func CurrentAssignment(db *gorm.DB, archerID uint) (*Assignment, error) {
	var a Assignment
	err := db.Preload("Composite").
		Where("archer_id = ? AND date_returned IS NULL", archerID).
		First(&a).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
