package texto

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var semAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizar remove acentos, baixa a caixa e apara espaços.
// Setores e tipos de manifestação chegam de formulários livres e de
// registros legados com acentuação inconsistente; toda comparação de
// igualdade deve passar por aqui antes.
func Normalizar(s string) string {
	out, _, err := transform.String(semAcentos, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Igual compara duas strings já normalizadas.
func Igual(a, b string) bool {
	return Normalizar(a) == Normalizar(b)
}
