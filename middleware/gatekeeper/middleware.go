package gatekeeper

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"cardfile-gateway/middleware/gatekeeper/application"
	"cardfile-gateway/middleware/gatekeeper/domain"
)

// blockedMessage é a resposta fixa do hard-block de jurisdição. Texto
// literal, bilíngue, sem passar pelo render normal.
const blockedMessage = "Особам, які перебувають на території країни-агресора та окупованих нею територіях, доступ до сайту ОБМЕЖЕНО.\n" +
	"Лицам, находящимся на территории страны-агрессора и оккупированных ею территориях, страны, финансирующей и поставляющей оружие террористам, доступ к сайту ОГРАНИЧЕН."

type Options struct {
	// Estágios do pipeline. Zerados, assumem os defaults de produção.
	Geo       application.GeoGate
	Filter    application.QueryFilter
	Validator application.SearchValidator

	// Limiter distribuído; nil desliga o estágio (fail open).
	Limiter *application.Limiter

	// ListingURL é a URL canônica da listagem do acervo, alvo dos redirects
	// com cferror. Vazio usa "/".
	ListingURL string

	// SessionCookie, quando presente na requisição, marca usuário
	// autenticado: bypass completo das restrições.
	SessionCookie string

	ClientIP           ClientIPFunc
	ClientIPHeader     string
	TrustXForwardedFor bool

	Logger zerolog.Logger
}

// Middleware monta o pipeline de restrição e o injeta na cadeia de handlers.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Geo.CountryHeaders == nil {
		opts.Geo = application.NewGeoGate()
	}
	if opts.Filter.Restricted == "" {
		opts.Filter = application.NewQueryFilter()
	}
	if opts.Validator.OccupiedCountry == "" {
		opts.Validator = application.NewSearchValidator()
	}
	if opts.ClientIP == nil {
		opts.ClientIP = DefaultClientIP(opts.ClientIPHeader, opts.TrustXForwardedFor)
	}
	if opts.ListingURL == "" {
		opts.ListingURL = "/"
	}

	// a ordem é o próprio slice
	stages := application.Pipeline{opts.Geo, opts.Filter, opts.Validator}
	if opts.Limiter != nil {
		stages = append(stages, opts.Limiter)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.SessionCookie != "" {
				if _, err := r.Cookie(opts.SessionCookie); err == nil {
					// autenticado: nenhuma restrição se aplica
					next.ServeHTTP(w, r)
					return
				}
			}

			rc := parseRequest(r, opts.Filter.Restricted, opts.ClientIP)
			stages.Run(r.Context(), rc)

			if rc.Blocked {
				opts.Logger.Warn().
					Str("ip", rc.ClientIP).
					Str("country", rc.Country).
					Msg("jurisdiction hard block")
				writeBlocked(w)
				return
			}

			if rc.Rejected() {
				opts.Logger.Info().
					Str("ip", rc.ClientIP).
					Str("action", string(rc.Action)).
					Int("cferror", rc.ErrorCode()).
					Msg("request rejected")
				redirectError(w, r, opts.ListingURL, rc)
				return
			}

			rewriteQuery(r, rc)
			next.ServeHTTP(w, r)
		})
	}
}

func writeBlocked(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(blockedMessage))
}

// redirectError aplica a estratégia única deste gateway para erros diferidos:
// redirect imediato à listagem canônica com cferror anexado. Os headers ainda
// não foram emitidos (o middleware roda antes do proxy), então o ramo
// "headers já enviados" não existe aqui.
func redirectError(w http.ResponseWriter, r *http.Request, listing string, rc *domain.RequestContext) {
	if rc.ErrorCode() == http.StatusTooManyRequests && rc.RetryAfter > 0 {
		w.Header().Set("Retry-After", formatInt(int(rc.RetryAfter/time.Second)))
	}
	w.Header().Set("Cache-Control", "no-store")

	target, err := url.Parse(listing)
	if err != nil {
		target = &url.URL{Path: "/"}
	}
	q := target.Query()
	q.Set("cferror", formatInt(rc.ErrorCode()))
	target.RawQuery = q.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}
