package omie

import (
	"fmt"
	"strings"
)

// FormatDataOmie converte uma data interna YYYY-MM-DD para o formato de fio
// da Omie, DD/MM/YYYY. É uma transformação puramente textual: divide em "-"
// e reordena.
func FormatDataOmie(iso string) (string, error) {
	// tolera sufixo de hora ("2025-03-07T00:00:00")
	if i := strings.IndexByte(iso, 'T'); i >= 0 {
		iso = iso[:i]
	}
	parts := strings.Split(iso, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return "", fmt.Errorf("data inválida %q, esperado YYYY-MM-DD", iso)
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0], nil
}

// ParseDataOmie desfaz FormatDataOmie: DD/MM/YYYY -> YYYY-MM-DD.
func ParseDataOmie(br string) (string, error) {
	parts := strings.Split(br, "/")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return "", fmt.Errorf("data inválida %q, esperado DD/MM/YYYY", br)
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0], nil
}
