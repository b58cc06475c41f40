package util

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateValor_Positivo(t *testing.T) {
	testCases := []string{"0.01", "1", "100.5", "9999999.99"}

	for _, s := range testCases {
		valor, _ := decimal.NewFromString(s)
		if err := ValidateValor(valor); err != nil {
			t.Errorf("ValidateValor(%s) error = %v, want nil", s, err)
		}
	}
}

func TestValidateValor_ZeroENegativo(t *testing.T) {
	testCases := []string{"0", "-0.01", "-100"}

	for _, s := range testCases {
		valor, _ := decimal.NewFromString(s)
		if err := ValidateValor(valor); err == nil {
			t.Errorf("ValidateValor(%s) error = nil, want error", s)
		}
	}
}

func TestValidateValor_Teto(t *testing.T) {
	if err := ValidateValor(decimal.NewFromInt(10_000_000)); err == nil {
		t.Error("ValidateValor(10000000) error = nil, want error")
	}
}

func TestParseDate_Valida(t *testing.T) {
	got, err := ParseDate("2025-03-07")
	if err != nil {
		t.Fatalf("ParseDate error = %v, want nil", err)
	}
	want := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}
}

func TestParseDate_Invalida(t *testing.T) {
	testCases := []string{
		"",
		"2025/03/07",
		"07-03-2025",
		"2025-3-7",
		"not-a-date",
		"2025-13-01",
		"2025-01-32",
	}

	for _, date := range testCases {
		if _, err := ParseDate(date); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("fornecedor", "ACME"); err != nil {
		t.Errorf("ValidateRequired error = %v, want nil", err)
	}
	if err := ValidateRequired("fornecedor", ""); err == nil {
		t.Error("ValidateRequired(\"\") error = nil, want error")
	}
}
