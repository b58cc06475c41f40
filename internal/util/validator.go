package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValidateValor valida o valor de um lançamento (positivo, com teto).
func ValidateValor(valor decimal.Decimal) error {
	if valor.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("valor must be positive, got %s", valor)
	}
	if valor.GreaterThanOrEqual(decimal.NewFromInt(10_000_000)) {
		return fmt.Errorf("valor too large, got %s", valor)
	}
	return nil
}

// ParseDate valida e converte uma data YYYY-MM-DD.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ValidateRequired verifica campos texto obrigatórios.
func ValidateRequired(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
