package router

import (
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/admin"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/contact"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/favorite"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/region"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/session"
)

// Options tunes RegisterRoutes. Zero values give the defaults.
type Options struct {
	// BasePath prefixes every API route. Defaults to /api.
	BasePath       string
	AllowedOrigins []string
	// Hasher is used when migrating plaintext admin credentials. Defaults to bcrypt cost 12.
	Hasher admin.PasswordHasher
}

func basePath(p string) string {
	if p == "" {
		return "/api"
	}
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return ""
	}
	return p
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, issuer *session.Issuer, opts Options) http.Handler {
	mux := http.NewServeMux()
	base := basePath(opts.BasePath)
	gate := session.RequireAdmin(issuer, logger)

	mux.HandleFunc("GET "+base+"/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, httpx.OK{OK: true})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// admin session
	adminHandler := admin.NewHandler(admin.NewCredentialStore(db, nil, opts.Hasher), issuer, logger)
	mux.HandleFunc("POST "+base+"/admin/login", adminHandler.Login)

	// regions: public read, gated writes
	regionHandler := region.NewHandler(region.NewDirectory(db), logger)
	mux.HandleFunc("GET "+base+"/regions", regionHandler.List)
	mux.Handle("POST "+base+"/admin/regions", gate(http.HandlerFunc(regionHandler.Create)))
	mux.Handle("PUT "+base+"/admin/regions/{id}", gate(http.HandlerFunc(regionHandler.Update)))
	mux.Handle("DELETE "+base+"/admin/regions/{id}", gate(http.HandlerFunc(regionHandler.Delete)))

	favoriteHandler := favorite.NewHandler(favorite.NewService(db), logger)
	mux.HandleFunc("GET "+base+"/favorites", favoriteHandler.List)
	mux.HandleFunc("POST "+base+"/favorites", favoriteHandler.Add)
	mux.HandleFunc("DELETE "+base+"/favorites", favoriteHandler.Remove)

	contactHandler := contact.NewHandler(contact.NewService(db), logger)
	mux.HandleFunc("POST "+base+"/contact", contactHandler.Submit)
	mux.Handle("GET "+base+"/admin/contacts", gate(http.HandlerFunc(contactHandler.List)))

	var h http.Handler = MetricsMiddleware()(mux)
	h = SecurityHeadersMiddleware()(h)
	h = CORSMiddleware(opts.AllowedOrigins)(h)
	h = LoggingMiddleware(logger)(h)
	h = RequestIDMiddleware()(h)
	return RecoveryMiddleware(logger)(h)
}
