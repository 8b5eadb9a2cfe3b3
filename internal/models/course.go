package models

import "time"

// DayNames maps Course.DayOfWeek (0=Lundi) to its French name.
var DayNames = [7]string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

// Course is a weekly training slot. Courses are soft-deleted via
// Active=false so past attendance keeps a readable course reference.
type Course struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null"`
	DayOfWeek  int    `gorm:"not null"` // 0=Lundi .. 6=Dimanche
	StartTime  string `gorm:"size:5;not null"` // HH:MM
	EndTime    string `gorm:"size:5;not null"` // HH:MM
	Level      string `gorm:"size:50"`
	MaxArchers *int
	Notes      string `gorm:"type:text"`
	Active     bool     `gorm:"not null;default:true"`
	Archers    []Archer `gorm:"many2many:archer_courses;"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DayName returns the French weekday name, or "" for out-of-range values.
func (c Course) DayName() string {
	if c.DayOfWeek < 0 || c.DayOfWeek > 6 {
		return ""
	}
	return DayNames[c.DayOfWeek]
}

// Attendance records presence of one archer at one course on one date.
// Uniqueness of (archer, course, date) is enforced by upsert-on-write
// in the attendance handler, not by a storage constraint.
type Attendance struct {
	ID         uint      `gorm:"primaryKey"`
	ArcherID   uint      `gorm:"not null;index"`
	Archer     Archer    `gorm:"foreignKey:ArcherID"`
	CourseID   uint      `gorm:"not null;index"`
	Course     Course    `gorm:"foreignKey:CourseID"`
	Date       time.Time `gorm:"not null"`
	Present    bool
	Notes      string `gorm:"type:text"`
	RecordedAt time.Time
}
