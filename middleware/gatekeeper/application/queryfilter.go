package application

import (
	"context"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// Filtro de variáveis de query: fecha as superfícies de enumeração
// (arquivos por data/autor, feeds, calendário, taxonomias) para visitantes
// anônimos e, sobre o post type restrito, aplica uma allow-list estrita.

// denyList são variáveis padrão do framework removidas incondicionalmente
// para anônimos, independente do post type.
var denyList = []string{
	"m",
	"posts",
	"w",
	"withcomments",
	"withoutcomments",
	"search",
	"calendar",
	"more",
	"author",
	"order",
	"orderby",
	"year",
	"monthnum",
	"day",
	"hour",
	"minute",
	"second",
	"author_name",
	"subpost",
	"subpost_id",
	"taxonomy",
	"term",
	"cpage",
	"feed",
}

// allowList é o conjunto explícito de variáveis permitidas quando o post type
// resolvido é o restrito: identificador, slug, anexo, tag, paginação, tokens
// de preview, o bundle de busca, controles de tamanho/offset de página e o
// código de erro.
var allowList = map[string]struct{}{
	"post_type":      {},
	"criminal":       {},
	"name":           {},
	"attachment":     {},
	"attachment_id":  {},
	"tag":            {},
	"paged":          {},
	"preview":        {},
	"preview_id":     {},
	"p":              {},
	"cf":             {},
	"posts_per_page": {},
	"offset":         {},
	"cferror":        {},
}

// directLookupVars identificam acesso direto a um registro; busca estruturada
// e lookup direto são mutuamente exclusivos para esse post type.
var directLookupVars = []string{"name", "attachment", "attachment_id", "preview", "preview_id"}

// QueryFilter aplica deny-list global e allow-list por post type, e ao final
// classifica a ação da requisição (view/search/none).
type QueryFilter struct {
	Restricted string
}

func NewQueryFilter() QueryFilter {
	return QueryFilter{Restricted: "criminal"}
}

func (f QueryFilter) Apply(_ context.Context, rc *domain.RequestContext) {
	// 1) deny-list global: a variável deixa de existir para anônimos.
	for _, name := range denyList {
		delete(rc.Vars, name)
		delete(rc.Query, name)
	}

	if rc.PostType == f.Restricted {
		// 2) allow-list: fora dela a variável é zerada no tipo dela e
		// removida da representação subjacente, nunca apenas escondida.
		for name, v := range rc.Vars {
			if _, ok := allowList[name]; ok {
				continue
			}
			if !v.IsZero() {
				rc.Vars[name] = v.Zero()
			}
			delete(rc.Query, name)
		}

		// 3) bundle cf presente e não-vazio exclui o lookup direto.
		if rc.Criteria != nil {
			for _, name := range directLookupVars {
				if v, ok := rc.Vars[name]; ok {
					rc.Vars[name] = v.Zero()
				}
				delete(rc.Query, name)
			}
		}
	}

	rc.Action = f.classify(rc)
}

// classify decide a ação anônima contra o post type restrito, já sobre as
// variáveis filtradas.
func (f QueryFilter) classify(rc *domain.RequestContext) domain.Action {
	if rc.PostType != f.Restricted {
		return domain.ActionNone
	}
	if rc.Criteria != nil {
		return domain.ActionSearch
	}
	if rc.Query.GetInt("p") > 0 || rc.Query.GetInt("attachment_id") > 0 {
		return domain.ActionView
	}
	if rc.Query.GetString("name") != "" || rc.Query.GetString("attachment") != "" || rc.Query.GetString("criminal") != "" {
		return domain.ActionView
	}
	return domain.ActionNone
}
