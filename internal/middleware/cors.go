package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

var defaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://localhost:3000",
	"test",
}

// Cors allows the configured origins plus the local dashboard. Non-browser clients (curl,
// the Shortcuts app posting health exports, MCP clients) send no Origin and are let through.
func Cors(allowedOrigins ...string) func(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(defaultAllowedOrigins)+len(allowedOrigins))
	for _, o := range defaultAllowedOrigins {
		allowed[o] = true
	}
	for _, o := range allowedOrigins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case origin == "":
				if strings.HasPrefix(r.URL.Path, "/mcp") {
					w.Header().Set("Access-Control-Allow-Origin", "*")
					setAllowHeaders(w)
				}
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				setAllowHeaders(w)
			default:
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func setAllowHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Headers",
		"Accept, Content-Type, Content-Length, Content-Encoding, Accept-Encoding, MCP-Protocol-Version, MCP-Session-Id",
	)
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
}
