package domain

// Sanitizadores de campo: funções puras e idempotentes que normalizam o valor
// bruto de cada campo do bundle de busca para sua forma canônica.
//
// Contrato: sanitize(sanitize(x)) == sanitize(x); entrada inválida degrada
// para string vazia, nunca para erro. Tetos de comprimento ficam a cargo do
// validador (camada application).

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	dobISO = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dobDot = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

// scrub normaliza para composição canônica (NFC) e descarta sequências de
// bytes inválidas.
func scrub(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return norm.NFC.String(s)
}

// collapse colapsa qualquer whitespace unicode em um espaço simples e faz trim.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// mapAllowed troca por espaço todo rune fora da classe permitida.
func mapAllowed(s string, allowed func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowed(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// SanitizeName canonicaliza um nome: NFC, apenas {letra, dígito, apóstrofo,
// hífen}, whitespace colapsado.
func SanitizeName(raw string) string {
	s := mapAllowed(scrub(raw), func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
	})
	return collapse(s)
}

// SanitizeDOB aceita somente YYYY-MM-DD ou DD.MM.YYYY (convertida para a
// primeira). Qualquer outra coisa vira string vazia.
func SanitizeDOB(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	if dobISO.MatchString(s) {
		return s
	}
	if m := dobDot.FindStringSubmatch(s); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}
	return ""
}

// SanitizeCountry é como SanitizeName, com classe permitida mais larga
// (pontuação comum de nomes de países/regiões).
func SanitizeCountry(raw string) string {
	s := mapAllowed(scrub(raw), func(r rune) bool {
		switch r {
		case '\'', '-', '.', ',', '(', ')':
			return true
		}
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
	return collapse(s)
}

// SanitizeAddress aceita pontuação genérica além de letras e dígitos, mas
// exige ao menos um caractere alfanumérico; sem isso colapsa para vazio.
func SanitizeAddress(raw string) string {
	s := mapAllowed(scrub(raw), func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r)
	})
	s = collapse(s)
	if !hasLetterOrDigit(s) {
		return ""
	}
	return s
}

// SanitizePhone mantém apenas dígitos e '+'; separadores (';' e ',') viram
// espaço, whitespace é colapsado.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case (r >= '0' && r <= '9') || r == '+':
			b.WriteRune(r)
		case r == ';' || r == ',' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return collapse(b.String())
}

// SanitizeDescription normaliza e colapsa whitespace; exige ao menos um
// caractere alfanumérico.
func SanitizeDescription(raw string) string {
	s := collapse(scrub(raw))
	if !hasLetterOrDigit(s) {
		return ""
	}
	return s
}

// Sanitize aplica o sanitizador de cada campo do bundle, in place.
func (c *SearchCriteria) Sanitize() {
	c.Name = SanitizeName(c.Name)
	c.DOB = SanitizeDOB(c.DOB)
	c.Country = SanitizeCountry(c.Country)
	c.Address = SanitizeAddress(c.Address)
	c.Phone = SanitizePhone(c.Phone)
	c.Desc = SanitizeDescription(c.Desc)
}
