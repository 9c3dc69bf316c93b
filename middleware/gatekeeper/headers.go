package gatekeeper

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPFunc resolve o identificador do cliente (normalmente o IP) a partir
// da requisição.
type ClientIPFunc func(r *http.Request) string

// DefaultClientIP resolve o IP na ordem: header explícito (se configurado),
// primeiro IP do X-Forwarded-For (se a borda é confiável), endereço de origem
// da conexão.
func DefaultClientIP(ipHeader string, trustXFF bool) ClientIPFunc {
	return func(r *http.Request) string {
		if ipHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(ipHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// pega o primeiro IP do X-Forwarded-For (cliente original)
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				parts := strings.Split(xff, ",")
				if len(parts) > 0 {
					ip := strings.TrimSpace(parts[0])
					if ip != "" {
						return ip
					}
				}
			}
		}

		// fallback: RemoteAddr
		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
}
