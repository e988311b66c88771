package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/formcheck/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const ClientSecretHeader = "X-Formcheck-Secret"

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type secretChecker interface {
	IsValid(ctx context.Context, secret string) (bool, error)
}

type AuthMiddlewareHandler struct {
	secretChecker        secretChecker
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

// NewAuthMiddlewareHandler protects all but the public paths with the client secret.
// A nil checker disables the check.
func NewAuthMiddlewareHandler(checker secretChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		secretChecker: checker,
		allowedPaths: map[string]bool{
			"/":                     true,
			"/health":               true,
			"/assessment/exercises": true,
		},
		allowedPathsPrefixes: []string{
			"/assessment/reference/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.secretChecker == nil || h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			secret := r.Header.Get(ClientSecretHeader)
			if secret == "" {
				log.Tracef("[missing secret] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-client-secret")
				return
			}

			valid, err := h.secretChecker.IsValid(ctx, secret)
			if err != nil {
				log.Errorf("[failed secret check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-secret-err")
				span.RecordError(err)
				return
			}
			if !valid {
				log.Tracef("[invalid secret] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-secret")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
