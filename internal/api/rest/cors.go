package rest

import (
	"net/http"

	zlog "github.com/rs/zerolog/log"
)

// corsMiddleware allows cross-origin requests from the configured origins.
// Requests without an Origin header (curl, native apps) pass through
// untouched; unknown origins are logged and served without CORS headers, so
// browsers reject the response.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allowed[origin]; ok {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept")
					h.Set("Access-Control-Expose-Headers", "Content-Type")
					h.Add("Vary", "Origin")
				} else {
					zlog.Warn().Msgf("blocked cors origin: %s", origin)
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
