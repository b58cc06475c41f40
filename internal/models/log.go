package models

import "time"

// AuditLog records mutating API operations for auditing.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	ActorID   *uint  `gorm:"index"`
	IsAdmin   bool   `gorm:"index"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:255"`
	Status    int
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}
