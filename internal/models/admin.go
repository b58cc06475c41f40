package models

import "time"

// Admin is an administrator login identity. Admins may operate on behalf of
// any Cliente.
type Admin struct {
	ID        uint   `gorm:"primaryKey"`
	Nome      string `gorm:"size:128"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	SenhaHash string `gorm:"size:255;not null"`
	Ativo     bool   `gorm:"index;not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
