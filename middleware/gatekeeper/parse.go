package gatekeeper

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// Parse da borda: transforma a query string solta em variáveis tipadas com
// conjunto de chaves conhecido e no bundle de busca, rejeitando formatos
// desconhecidos aqui em vez de propagá-los.

// intVars e boolVars enumeram as variáveis de tipo não-string reconhecidas.
var intVars = map[string]struct{}{
	"p":              {},
	"paged":          {},
	"attachment_id":  {},
	"preview_id":     {},
	"posts_per_page": {},
	"offset":         {},
	"cferror":        {},
	"cpage":          {},
	"m":              {},
	"w":              {},
	"posts":          {},
	"year":           {},
	"monthnum":       {},
	"day":            {},
	"hour":           {},
	"minute":         {},
	"second":         {},
}

var boolVars = map[string]struct{}{
	"preview":         {},
	"more":            {},
	"calendar":        {},
	"withcomments":    {},
	"withoutcomments": {},
}

func parseVar(key string, vals []string) domain.VarValue {
	if len(vals) > 1 {
		return domain.ListVar(append([]string(nil), vals...))
	}
	raw := vals[0]

	if _, ok := intVars[key]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			n = 0
		}
		return domain.IntVar(n)
	}
	if _, ok := boolVars[key]; ok {
		b, _ := strconv.ParseBool(raw)
		return domain.BoolVar(b)
	}
	return domain.StringVar(raw)
}

// cfSubKey reconhece chaves do bundle no formato cf[campo].
func cfSubKey(key string) (string, bool) {
	if strings.HasPrefix(key, "cf[") && strings.HasSuffix(key, "]") {
		return key[3 : len(key)-1], true
	}
	return "", false
}

func setCriteriaField(c *domain.SearchCriteria, field, value string) {
	switch field {
	case "name":
		c.Name = value
	case "dob":
		c.DOB = value
	case "country":
		c.Country = value
	case "address":
		c.Address = value
	case "phone":
		c.Phone = value
	case "desc":
		c.Desc = value
	case "type":
		c.Type = value
	}
	// sub-campos desconhecidos são descartados na borda
}

// parseQuery monta o mapeamento tipado e o bundle bruto (se houver).
// Um bundle presente mas sem nenhum valor não-vazio conta como ausente.
func parseQuery(q url.Values) (domain.QueryVars, *domain.SearchCriteria) {
	vars := make(domain.QueryVars, len(q))
	var crit *domain.SearchCriteria
	nonEmpty := false

	for key, vals := range q {
		if len(vals) == 0 {
			continue
		}
		if field, ok := cfSubKey(key); ok {
			if crit == nil {
				crit = &domain.SearchCriteria{}
			}
			setCriteriaField(crit, field, vals[0])
			if vals[0] != "" {
				nonEmpty = true
			}
			continue
		}
		vars[key] = parseVar(key, vals)
	}

	if !nonEmpty {
		crit = nil
	}
	return vars, crit
}

// parseRequest constrói o RequestContext da requisição anônima.
func parseRequest(r *http.Request, restricted string, clientIP ClientIPFunc) *domain.RequestContext {
	vars, crit := parseQuery(r.URL.Query())

	postType := vars.GetString("post_type")
	if postType == "" && vars.GetString(restricted) != "" {
		// o slug do próprio post type implica o post type
		postType = restricted
	}

	rc := &domain.RequestContext{
		PostType: postType,
		ClientIP: clientIP(r),
		Header:   r.Header.Get,
		Vars:     vars,
		Query:    vars.Clone(),
		Criteria: crit,
	}
	return rc
}

// rewriteQuery materializa o resultado do pipeline na URL que segue ao
// upstream: só variáveis sobreviventes e os critérios sanitizados. O que o
// filtro removeu não ressurge em link nem em chave de cache.
func rewriteQuery(r *http.Request, rc *domain.RequestContext) {
	q := url.Values{}
	for name, v := range rc.Query {
		switch v.Kind {
		case domain.KindList:
			for _, item := range v.List {
				q.Add(name, item)
			}
		case domain.KindBool:
			if v.Bool {
				q.Set(name, "1")
			}
		case domain.KindInt:
			if v.Int != 0 {
				q.Set(name, formatInt(v.Int))
			}
		default:
			if v.Str != "" {
				q.Set(name, v.Str)
			}
		}
	}

	if c := rc.Criteria; c != nil {
		q.Set("cf[name]", c.Name)
		q.Set("cf[dob]", c.DOB)
		q.Set("cf[country]", c.Country)
		q.Set("cf[address]", c.Address)
		q.Set("cf[phone]", c.Phone)
		q.Set("cf[desc]", c.Desc)
		q.Set("cf[type]", c.Type)
	}

	r.URL.RawQuery = q.Encode()
}
