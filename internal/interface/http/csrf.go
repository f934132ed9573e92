package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/yanqian/birthchart/internal/infra/config"
)

const csrfFieldName = "csrf_token"

// withCSRF protects the HTML form. The JSON API is exempt; it is meant for
// cross-origin callers such as the extension popup.
func withCSRF(handler http.Handler, cfg config.CSRFConfig) http.Handler {
	if !cfg.Enabled() {
		return handler
	}
	protect := csrf.Protect(
		[]byte(cfg.Key),
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(csrfFieldName),
	)
	protected := protect(handler)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/healthz" {
			r = csrf.UnsafeSkipCheck(r)
		}
		if !cfg.Secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protected.ServeHTTP(w, r)
	})
}
