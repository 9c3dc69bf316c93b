package gatekeeper

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cardfile-gateway/middleware/gatekeeper/application"
	"cardfile-gateway/middleware/gatekeeper/infra"
)

// upstream de teste que captura a query repassada
type upstream struct {
	calls int
	query url.Values
}

func (u *upstream) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls++
		u.query = r.URL.Query()
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
}

func searchURL(name string) string {
	q := url.Values{}
	q.Set("post_type", "criminal")
	q.Set("cf[name]", name)
	return "http://example/?" + q.Encode()
}

func TestMiddleware_HardBlocksBlockedJurisdiction(t *testing.T) {
	up := &upstream{}
	h := Middleware(Options{})(up.handler())

	r := httptest.NewRequest(http.MethodGet, "http://example/?post_type=criminal&p=5", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("CF-IPCountry", "RU")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ОГРАНИЧЕН") || !strings.Contains(w.Body.String(), "ОБМЕЖЕНО") {
		t.Fatalf("expected bilingual block message, got %q", w.Body.String())
	}
	if up.calls != 0 {
		t.Fatalf("hard block must not reach upstream")
	}
}

func TestMiddleware_ExceptionMarkerLiftsBlock(t *testing.T) {
	up := &upstream{}
	h := Middleware(Options{})(up.handler())

	r := httptest.NewRequest(http.MethodGet, "http://example/?post_type=criminal&p=5", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("CF-IPCountry", "RU")
	r.Header.Set("X-PSB-Zone", "occupied; false-positive;")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
	if up.calls != 1 {
		t.Fatalf("expected upstream call")
	}
}

func TestMiddleware_RejectedSearchRedirectsWithCfError(t *testing.T) {
	up := &upstream{}
	h := Middleware(Options{ListingURL: "/criminal/"})(up.handler())

	r := httptest.NewRequest(http.MethodGet, searchURL("asdf!!"), nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	u, err := url.Parse(loc)
	if err != nil || u.Path != "/criminal/" || u.Query().Get("cferror") != "400" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
	if up.calls != 0 {
		t.Fatalf("rejected search must not reach upstream (zero results by construction)")
	}
}

func TestMiddleware_ValidSearchRewritesQuery(t *testing.T) {
	up := &upstream{}
	h := Middleware(Options{})(up.handler())

	q := url.Values{}
	q.Set("post_type", "criminal")
	q.Set("cf[name]", "Петров Иван")
	q.Set("cf[dob]", "25.12.1990")
	q.Set("feed", "rss2")
	r := httptest.NewRequest(http.MethodGet, "http://example/?"+q.Encode(), nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK || up.calls != 1 {
		t.Fatalf("expected pass-through, got %d (calls=%d)", w.Code, up.calls)
	}
	if got := up.query.Get("cf[name]"); got != "Петров Иван" {
		t.Fatalf("expected sanitized name forwarded, got %q", got)
	}
	if got := up.query.Get("cf[dob]"); got != "" {
		t.Fatalf("expected dob stripped for anonymous search, got %q", got)
	}
	if got := up.query.Get("cf[type]"); got != "n" {
		t.Fatalf("expected field-scoped type tag, got %q", got)
	}
	if _, ok := up.query["feed"]; ok {
		t.Fatalf("deny-listed var resurfaced in proxied query")
	}
}

func TestMiddleware_OccupiedZoneForcesCountry(t *testing.T) {
	up := &upstream{}
	h := Middleware(Options{})(up.handler())

	r := httptest.NewRequest(http.MethodGet, searchURL("Петров Иван"), nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-PSB-Zone", "occupied")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
	if got := up.query.Get("cf[country]"); got != "Россия" {
		t.Fatalf("expected forced country, got %q", got)
	}
}

func TestMiddleware_RateLimitedViewRedirects429(t *testing.T) {
	up := &upstream{}
	limiter := application.NewLimiter(infra.NewMemoryCounterStore(), "test-site",
		application.WithViewLimit(application.LimitConfig{Period: time.Minute, Limit: 2}))
	h := Middleware(Options{Limiter: limiter})(up.handler())

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodGet, "http://example/?post_type=criminal&p=7", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("call %d: expected allowed, got %d", i+1, w.Code)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "http://example/?post_type=criminal&p=7", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	u, _ := url.Parse(w.Header().Get("Location"))
	if u.Query().Get("cferror") != "429" {
		t.Fatalf("expected cferror=429, got %q", w.Header().Get("Location"))
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("expected Retry-After=60, got %q", got)
	}
	if up.calls != 2 {
		t.Fatalf("limited request must not reach upstream, calls=%d", up.calls)
	}
}

func TestMiddleware_AuthenticatedBypassesEverything(t *testing.T) {
	up := &upstream{}
	h := Middleware(Options{SessionCookie: "cardfile_session"})(up.handler())

	r := httptest.NewRequest(http.MethodGet, "http://example/?post_type=criminal&feed=rss2", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("CF-IPCountry", "RU")
	r.AddCookie(&http.Cookie{Name: "cardfile_session", Value: "abc"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK || up.calls != 1 {
		t.Fatalf("expected full bypass for authenticated user, got %d", w.Code)
	}
	// bypass completo: nem a deny-list se aplica
	if got := up.query.Get("feed"); got != "rss2" {
		t.Fatalf("expected untouched query for authenticated user, got %q", got)
	}
}

func TestMiddleware_OtherPostTypesOnlyLoseDenyListedVars(t *testing.T) {
	up := &upstream{}
	h := Middleware(Options{})(up.handler())

	r := httptest.NewRequest(http.MethodGet, "http://example/?post_type=post&author=1&tag=x", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", w.Code)
	}
	if _, ok := up.query["author"]; ok {
		t.Fatalf("expected author removed for anonymous visitor")
	}
	if got := up.query.Get("tag"); got != "x" {
		t.Fatalf("expected tag kept, got %q", got)
	}
}
