package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cardfile-gateway/middleware/gatekeeper"
	"cardfile-gateway/middleware/gatekeeper/application"
	"cardfile-gateway/middleware/gatekeeper/infra"
)

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	logger := newLogger()

	cfg, err := readConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("config error")
	}

	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid UPSTREAM_URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Limiter distribuído. Redis fora do ar não derruba o gateway: segue sem
	// limiter (fail open), só com o amortecedor local de rajada.
	var limiter *application.Limiter
	if cfg.redisAddr != "" {
		store, err := infra.DialCounterStore(ctx, cfg.redisAddr, cfg.redisPassword, cfg.redisDB)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, operating without distributed limiter")
		} else {
			defer func() { _ = store.Close() }()

			opts := []application.LimiterOption{
				application.WithViewLimit(application.LimitConfig{Period: cfg.viewPeriod, Limit: cfg.viewLimit}),
				application.WithSearchLimit(application.LimitConfig{Period: cfg.searchPeriod, Limit: cfg.searchLimit}),
				application.WithLimiterLogger(logger),
			}
			if cfg.auditEnabled {
				ardb := redis.NewClient(&redis.Options{
					Addr:     cfg.redisAddr,
					Password: cfg.redisPassword,
					DB:       cfg.redisDB,
				})
				defer func() { _ = ardb.Close() }()

				audit := infra.NewRedisAuditStore(
					ardb,
					infra.WithAuditPrefix(cfg.auditPrefix),
					infra.WithAuditTTL(cfg.auditTTL),
					infra.WithAuditBucket(cfg.auditBucket),
					infra.WithAuditTrackIPs(cfg.auditTrackIPs),
				)
				opts = append(opts, application.WithNotifier(audit.Notifier()))
			}
			limiter = application.NewLimiter(store, cfg.siteID, opts...)
		}
	}

	h := http.Handler(proxy)
	h = gatekeeper.Middleware(gatekeeper.Options{
		Limiter:            limiter,
		ListingURL:         cfg.listingURL,
		SessionCookie:      cfg.sessionCookie,
		ClientIPHeader:     cfg.clientIPHeader,
		TrustXForwardedFor: cfg.trustXFF,
		Logger:             logger,
	})(h)
	h = gatekeeper.ConcurrencyMiddleware(gatekeeper.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
	})(h)
	if cfg.edgeEnabled {
		bucket := infra.NewTokenBucketStore(cfg.edgeRPS, cfg.edgeBurst)
		bucket.StartJanitor(ctx)
		h = gatekeeper.EdgeMiddleware(gatekeeper.EdgeOptions{
			Store:               bucket,
			KeyHeader:           cfg.clientIPHeader,
			TrustXForwardedFor:  cfg.trustXFF,
			RetryAfter:          cfg.edgeRetryAfter,
			AddRateLimitHeaders: cfg.addHeaders,
		})(h)
	}

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("listen", cfg.listenAddr).Str("upstream", target.String()).Msg("gateway listening")
	logger.Info().
		Bool("limiter", limiter != nil).
		Dur("viewPeriod", cfg.viewPeriod).Int64("viewLimit", cfg.viewLimit).
		Dur("searchPeriod", cfg.searchPeriod).Int64("searchLimit", cfg.searchLimit).
		Msg("rate limits")
	logger.Info().
		Bool("edge", cfg.edgeEnabled).Float64("edgeRPS", cfg.edgeRPS).Int("edgeBurst", cfg.edgeBurst).
		Int("concurrencyMax", cfg.concurrencyMax).Dur("concurrencyTimeout", cfg.concurrencyTimeout).
		Msg("edge protections")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newLogger() zerolog.Logger {
	if getenvBoolDefault("LOG_JSON", false) {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(out).With().Timestamp().Logger()
}

type config struct {
	listenAddr     string
	upstreamURL    string
	listingURL     string
	sessionCookie  string
	siteID         string
	clientIPHeader string
	trustXFF       bool

	redisAddr     string
	redisPassword string
	redisDB       int

	viewPeriod   time.Duration
	viewLimit    int64
	searchPeriod time.Duration
	searchLimit  int64

	auditEnabled  bool
	auditPrefix   string
	auditTTL      time.Duration
	auditBucket   string
	auditTrackIPs bool

	edgeEnabled    bool
	edgeRPS        float64
	edgeBurst      int
	edgeRetryAfter time.Duration
	addHeaders     bool

	concurrencyMax     int
	concurrencyTimeout time.Duration
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.upstreamURL = os.Getenv("UPSTREAM_URL")
	cfg.listingURL = getenvDefault("LISTING_URL", "/criminal/")
	cfg.sessionCookie = getenvDefault("SESSION_COOKIE", "cardfile_session")
	cfg.siteID = getenvDefault("SITE_ID", "cardfile")
	cfg.clientIPHeader = os.Getenv("CLIENT_IP_HEADER")
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)

	cfg.redisAddr = os.Getenv("REDIS_ADDR")
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)

	cfg.viewPeriod = getenvDurationDefault("VIEW_PERIOD", application.DefaultViewLimit.Period)
	cfg.viewLimit = int64(getenvIntDefault("VIEW_LIMIT", int(application.DefaultViewLimit.Limit)))
	cfg.searchPeriod = getenvDurationDefault("SEARCH_PERIOD", application.DefaultSearchLimit.Period)
	cfg.searchLimit = int64(getenvIntDefault("SEARCH_LIMIT", int(application.DefaultSearchLimit.Limit)))

	cfg.auditEnabled = getenvBoolDefault("AUDIT_ENABLED", false)
	cfg.auditPrefix = getenvDefault("AUDIT_PREFIX", "ratelimit:audit")
	cfg.auditTTL = getenvDurationDefault("AUDIT_TTL", 24*time.Hour)
	cfg.auditBucket = getenvDefault("AUDIT_BUCKET", "minute")
	cfg.auditTrackIPs = getenvBoolDefault("AUDIT_TRACK_IPS", false)

	cfg.edgeEnabled = getenvBoolDefault("EDGE_ENABLED", true)
	cfg.edgeRPS = getenvFloatDefault("EDGE_RPS", 10)
	// IMPORTANTE: o "burst" permite uma rajada inicial de requisições.
	// Com RPS muito baixo (ex: 0.02), o padrão 20 pode dar a impressão de que
	// o limiter não está funcionando, porque as primeiras ~20 passam.
	if burst, ok := getenvInt("EDGE_BURST"); ok {
		cfg.edgeBurst = burst
	} else {
		cfg.edgeBurst = 20
		if getenvIsSet("EDGE_RPS") && cfg.edgeRPS > 0 && cfg.edgeRPS < 1 {
			cfg.edgeBurst = 1
		}
	}
	cfg.edgeRetryAfter = getenvDurationDefault("EDGE_RETRY_AFTER", 1*time.Second)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	if strings.TrimSpace(cfg.upstreamURL) == "" {
		return config{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.edgeEnabled && cfg.edgeRPS <= 0 {
		return config{}, errors.New("EDGE_RPS must be > 0")
	}
	if cfg.edgeEnabled && cfg.edgeBurst <= 0 {
		return config{}, errors.New("EDGE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvInt(k string) (int, bool) {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func getenvIsSet(k string) bool {
	v, ok := os.LookupEnv(k)
	return ok && v != ""
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
