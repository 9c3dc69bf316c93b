package domain

// Tipos centrais do domínio: o bundle de busca (cf) e a classificação da ação
// do visitante anônimo sobre o tipo de conteúdo restrito.

// Action classifica a requisição anônima contra o tipo restrito.
type Action string

const (
	ActionNone   Action = "none"
	ActionView   Action = "view"
	ActionSearch Action = "search"
)

// Tags do campo `type` do bundle: busca em texto livre vs busca por campos.
const (
	SearchTypeFulltext = "f"
	SearchTypeFields   = "n"
)

// Tetos de comprimento por campo, em code points (não bytes).
// São aplicados pelo validador, não pelos sanitizadores.
const (
	MaxNameLen    = 255
	MaxCountryLen = 64
	MaxAddressLen = 255
	MaxPhoneLen   = 64
	MaxDescLen    = 8192
)

// SearchCriteria é o bundle de critérios de busca com chaves fixas.
//
// Ciclo de vida: construído a partir do input bruto de uma única requisição,
// sanitizado in place, consumido uma vez pelo construtor de query do upstream
// e descartado. Nunca é persistido.
type SearchCriteria struct {
	Name    string
	DOB     string
	Country string
	Address string
	Phone   string
	Desc    string
	Type    string
}

// HasCriterion informa se há ao menos um critério real de busca após a
// sanitização (dob e type não contam: dob é sempre zerado para anônimos e
// type é apenas uma tag).
func (c *SearchCriteria) HasCriterion() bool {
	return c.Name != "" || c.Country != "" || c.Address != "" || c.Phone != "" || c.Desc != ""
}
