package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// Upstream de exemplo do acervo: uma listagem e uma página de registro.
// Demonstra o contrato do lado do render: quando a listagem chega com
// cferror, a página responde com esse status e cabeçalhos de cache curtos,
// em vez de 200 cacheável de longa duração.

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	mux := http.NewServeMux()
	mux.HandleFunc("/criminal/", listingHandler(logger))
	mux.HandleFunc("/", recordHandler(logger))

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("listen", addr).Msg("example cardfile upstream listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// listingHandler renderiza a listagem do acervo. Com cferror na query, o
// status da resposta passa a ser o código carregado e o cache é encurtado
// conforme a classe do erro.
func listingHandler(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		code := 0
		if v := r.URL.Query().Get("cferror"); v != "" {
			n, err := strconv.Atoi(v)
			if err == nil && n >= 400 && n < 500 {
				code = n
			}
		}

		if code == 0 {
			// listagem normal: cacheável
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "<h1>Criminal cardfile</h1><ul><li>...</li></ul>")
			return
		}

		switch code {
		case http.StatusNotFound, http.StatusGone:
			w.Header().Set("Cache-Control", "public, max-age=60")
		case http.StatusTooManyRequests:
			w.Header().Set("Cache-Control", "no-store")
		default:
			// 400 e afins: cache curto para absorver repetição do mesmo link
			w.Header().Set("Cache-Control", "public, max-age=300")
		}

		reason := http.StatusText(code)
		if reason == "" {
			reason = "Error"
		}

		logger.Info().Int("cferror", code).Str("path", r.URL.Path).Msg("rendering carried error")
		w.WriteHeader(code)
		fmt.Fprintf(w, "<h1>%d %s</h1><p>A sua pesquisa não pôde ser atendida.</p>", code, reason)
	}
}

func recordHandler(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "<h1>Record</h1><p>query: %s</p>", r.URL.RawQuery)
		logger.Debug().Str("query", r.URL.RawQuery).Msg("record served")
	}
}
