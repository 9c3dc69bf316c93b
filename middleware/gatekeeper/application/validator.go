package application

import (
	"context"
	"regexp"
	"unicode/utf8"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// Validador do bundle de busca (cf): orquestra os sanitizadores de campo,
// aplica as regras cruzadas e levanta o erro diferido 400 quando a busca não
// se sustenta. Uma busca rejeitada nunca segue com dados parciais: o bundle é
// removido do contexto.

var (
	// protestPhrase neutraliza (sem rejeitar) um nome que é uma frase de
	// protesto conhecida, com pontuação/aspas opcionais ao redor: após a
	// sanitização sobra o miolo, então basta casar a frase em si.
	protestPhrase = regexp.MustCompile(`(?i)пут[иі]н\s*-*\s*хуйло`)

	// twoLetterTokens: um nome não-vazio precisa parecer "nome sobrenome",
	// duas sequências de letras separadas por espaço.
	twoLetterTokens = regexp.MustCompile(`\p{L} \p{L}`)
)

// SearchValidator valida e canonicaliza o bundle de uma ação de busca.
type SearchValidator struct {
	// OccupiedCountry substitui o campo country quando o gate geográfico
	// marcou zona ocupada. Aplicado DEPOIS de toda a validação, para não
	// servir de bypass da regra de critérios vazios.
	OccupiedCountry string
}

func NewSearchValidator() SearchValidator {
	return SearchValidator{OccupiedCountry: defaultOccupiedCountry}
}

func (v SearchValidator) Apply(_ context.Context, rc *domain.RequestContext) {
	if rc.Action != domain.ActionSearch || rc.Criteria == nil {
		return
	}

	c := rc.Criteria

	// Busca por data de nascimento e busca em texto livre não são
	// permitidas no caminho anônimo.
	c.DOB = ""
	c.Type = domain.SearchTypeFields

	c.Sanitize()

	if protestPhrase.MatchString(c.Name) {
		c.Name = ""
	}

	if c.Name != "" && !twoLetterTokens.MatchString(c.Name) {
		v.reject(rc)
		return
	}

	if !c.HasCriterion() {
		v.reject(rc)
		return
	}

	if utf8.RuneCountInString(c.Name) > domain.MaxNameLen ||
		utf8.RuneCountInString(c.Country) > domain.MaxCountryLen ||
		utf8.RuneCountInString(c.Address) > domain.MaxAddressLen ||
		utf8.RuneCountInString(c.Phone) > domain.MaxPhoneLen ||
		utf8.RuneCountInString(c.Desc) > domain.MaxDescLen {
		v.reject(rc)
		return
	}

	if rc.Occupied && v.OccupiedCountry != "" {
		c.Country = v.OccupiedCountry
	}
}

func (v SearchValidator) reject(rc *domain.RequestContext) {
	rc.SetError(400)
	rc.ClearCriteria()
}
