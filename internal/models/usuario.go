package models

import "time"

// Usuario is a client-side login identity. It is joined to its Cliente
// (tenant) by e-mail, mirroring the usuarios/clientes tables.
type Usuario struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	SenhaHash string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
