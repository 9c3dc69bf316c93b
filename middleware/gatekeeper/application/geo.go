package application

import (
	"context"
	"regexp"
	"strings"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// Gate geográfico: resolve a jurisdição do cliente a partir de headers
// injetados pela borda (CDN/classificador) e decide entre hard-block (403),
// passagem normal, ou passagem com override do campo country da busca.

const (
	// falsePositiveMarker é injetado por um classificador upstream confiável
	// para anular detecções falsas de zona ocupada. O mesmo marcador, com
	// polaridade oposta, serve de exceção ao bloqueio duro de país: as duas
	// flags coexistem de propósito; não unificar sem confirmar com o dono do
	// sistema.
	falsePositiveMarker = "false-positive;"

	defaultBlockedCountry  = "RU"
	defaultOccupiedCountry = "Россия"
	placeholderCountry     = "XX"
)

var occupiedToken = regexp.MustCompile(`\boccupied\b`)

// ResolveHeader percorre a lista ordenada de candidatos e devolve o primeiro
// valor presente que passa no predicado.
func ResolveHeader(get domain.HeaderGetter, candidates []string, valid func(string) bool) (string, bool) {
	for _, name := range candidates {
		if v := get(name); v != "" && valid(v) {
			return v, true
		}
	}
	return "", false
}

// GeoGate classifica a jurisdição e a zona do cliente.
type GeoGate struct {
	// CountryHeaders é a lista ordenada de headers candidatos a código de
	// país; vence o primeiro valor bem formado (duas letras, não "XX").
	CountryHeaders []string
	// ZoneHeader carrega o marcador de zona em texto livre.
	ZoneHeader string
	// Restricted é o post type restrito; o hard-block só se aplica a ele.
	Restricted string
	// BlockedCountry é a jurisdição bloqueada.
	BlockedCountry string
	// OccupiedCountry é o valor forçado no campo country da busca quando a
	// zona é ocupada.
	OccupiedCountry string
}

func NewGeoGate() GeoGate {
	return GeoGate{
		CountryHeaders:  []string{"CF-IPCountry", "X-Country-Code"},
		ZoneHeader:      "X-PSB-Zone",
		Restricted:      "criminal",
		BlockedCountry:  defaultBlockedCountry,
		OccupiedCountry: defaultOccupiedCountry,
	}
}

func wellFormedCountry(v string) bool {
	if len(v) != 2 || strings.EqualFold(v, placeholderCountry) {
		return false
	}
	for _, r := range v {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// Apply resolve país e zona e grava a decisão no contexto. O hard-block é um
// short-circuit de resposta inteira (Blocked), não um erro diferido.
func (g GeoGate) Apply(_ context.Context, rc *domain.RequestContext) {
	if rc.Header == nil {
		rc.Country = placeholderCountry
		return
	}

	rc.Country = placeholderCountry
	if v, ok := ResolveHeader(rc.Header, g.CountryHeaders, wellFormedCountry); ok {
		rc.Country = strings.ToUpper(v)
	}

	zone := rc.Header(g.ZoneHeader)
	rc.Exception = strings.Contains(zone, falsePositiveMarker)
	rc.Occupied = occupiedToken.MatchString(zone) && !rc.Exception

	if rc.PostType == g.Restricted && rc.Country == g.BlockedCountry && !rc.Exception {
		rc.Blocked = true
	}
}
