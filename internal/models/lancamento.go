package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lancamento is one purchase/expense record belonging to exactly one
// cliente. ClienteID never changes after creation.
//
// Valores usam decimal para evitar erro de ponto flutuante.
type Lancamento struct {
	ID                 uint             `gorm:"primaryKey"`
	ClienteID          uint             `gorm:"index;not null"`
	Fornecedor         string           `gorm:"size:255;not null"`
	ContaDesmembrada   string           `gorm:"size:8;not null;default:nao"` // "sim" / "nao"
	Categoria          string           `gorm:"size:255;not null"`
	ContaCorrente      string           `gorm:"size:255;not null"`
	DataCompra         time.Time        `gorm:"index;not null"`
	ValorCompra        decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	QuantidadeParcelas *int             `gorm:"default:null"`
	ValorParcela       *decimal.Decimal `gorm:"type:decimal(14,2);default:null"`
	ParcelaAtual       *int             `gorm:"default:null"`
	// DataVencimento falls back to DataCompra when not informed on write.
	DataVencimento  time.Time `gorm:"not null"`
	TipoDocumento   string    `gorm:"size:32"`
	NumeroDocumento string    `gorm:"size:64"`
	Observacao      string    `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Cliente Cliente `gorm:"constraint:OnDelete:CASCADE"`
}
