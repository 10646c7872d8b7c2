package httpx

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows browser clients from origins to call the API. A single "*"
// entry allows any origin but disables credentialed requests, matching the
// Fetch standard.
func CORS(origins []string) Middleware {
	wildcard := len(origins) == 1 && origins[0] == "*"
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
	return c.Handler
}
