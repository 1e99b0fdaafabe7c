package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	// AllowOrigins lists allowed origins. "*" allows any origin.
	AllowOrigins []string
	// AllowMethods lists allowed methods. Defaults to GET, POST, PUT,
	// DELETE, OPTIONS.
	AllowMethods []string
	// AllowHeaders lists allowed request headers. When empty, the headers
	// the client asked for in the preflight are echoed back.
	AllowHeaders []string
	// ExposeHeaders lists response headers readable by browser scripts.
	ExposeHeaders []string
	// AllowCredentials permits cookies and authorization headers. With a
	// wildcard origin the specific request origin is echoed instead of "*",
	// since browsers reject the combination.
	AllowCredentials bool
	// MaxAge is how long, in seconds, a preflight result may be cached.
	// Zero omits the header, negative sends "0".
	MaxAge int
}

// CORS handles cross-origin requests per cfg: preflight OPTIONS requests are
// answered with 204 and never reach the next handler, simple requests get the
// allow-origin and expose headers.
func CORS(cfg CORSConfig) Middleware {
	wildcard := false
	origins := make(map[string]string, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		// Origin matching is case-insensitive.
		origins[strings.ToLower(o)] = o
	}

	allowMethods := "GET, POST, PUT, DELETE, OPTIONS"
	if len(cfg.AllowMethods) > 0 {
		allowMethods = strings.Join(cfg.AllowMethods, ", ")
	}
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := ""
			switch {
			case wildcard && cfg.AllowCredentials:
				allowed = origin
			case wildcard:
				allowed = "*"
			default:
				allowed = origins[strings.ToLower(origin)]
			}

			h := w.Header()
			// The response varies on Origin even when the origin is
			// rejected, so caches must not mix responses.
			h.Add("Vary", "Origin")

			if allowed == "" {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", allowed)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				h.Set("Access-Control-Allow-Methods", allowMethods)
				if allowHeaders != "" {
					h.Set("Access-Control-Allow-Headers", allowHeaders)
				} else if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				}
				if cfg.MaxAge > 0 {
					h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				} else if cfg.MaxAge < 0 {
					h.Set("Access-Control-Max-Age", "0")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposeHeaders != "" {
				h.Set("Access-Control-Expose-Headers", exposeHeaders)
			}
			next.ServeHTTP(w, r)
		})
	}
}
