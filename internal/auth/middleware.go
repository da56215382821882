package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/progarden/garden-crm/internal/platform/httpx"
	"github.com/progarden/garden-crm/internal/shared"
)

// RequireToken builds middleware that rejects requests without a valid
// bearer token and attaches the resolved identity to the request context.
func RequireToken(logger *slog.Logger, tokens *shared.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			identity, err := tokens.Resolve(r.Context(), token)
			if err != nil {
				switch err {
				case shared.ErrTokenMissing:
					httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				case shared.ErrTokenExpired:
					httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "token expired or unknown")
				default:
					logger.Error("resolve token", slog.Any("error", err))
					httpx.Problem(w, http.StatusInternalServerError, "Operation Failed", "could not verify token")
				}
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
