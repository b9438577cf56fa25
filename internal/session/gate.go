package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/httpx"
)

type contextKey string

const claimsKey contextKey = "session_claims"

var (
	errMissingHeader = errors.New("missing Authorization header")
	errBadHeader     = errors.New("invalid Authorization format")
)

// ClaimsFromContext returns the claims attached by RequireAdmin, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

// WithClaims attaches claims to ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// RequireAdmin rejects requests without a valid bearer token before next runs.
func RequireAdmin(issuer *Issuer, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractAndValidate(r, issuer)
			if err != nil {
				logger.Debugw("admin gate rejected", "path", r.URL.Path, "err", err)
				httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorBody{Error: gateMessage(err)})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func extractAndValidate(r *http.Request, issuer *Issuer) (*Claims, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, errMissingHeader
	}
	scheme, token, ok := strings.Cut(auth, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return nil, errBadHeader
	}
	return issuer.Validate(token)
}

func gateMessage(err error) string {
	switch {
	case errors.Is(err, errMissingHeader), errors.Is(err, errBadHeader):
		return "Missing token"
	case errors.Is(err, ErrExpired):
		return "Token expired"
	default:
		return "Invalid token"
	}
}
