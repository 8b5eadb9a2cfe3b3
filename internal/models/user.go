package models

import "time"

// User is an application account. Role is one of the gate package's
// role names (admin, responsable, editeur, lecteur, coach).
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:80;unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:20;not null;default:'lecteur'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HistoryEvent is one append-only audit row. It references entities by
// id only (no foreign key) so it survives their deletion. Rows are
// never updated or removed by the application.
type HistoryEvent struct {
	ID         uint   `gorm:"primaryKey"`
	EventType  string `gorm:"size:50;not null;index"`
	EntityType string `gorm:"size:50;not null"`
	EntityID   *uint
	Summary    string    `gorm:"size:255;not null"`
	Details    JSONMap   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;index"`
}
