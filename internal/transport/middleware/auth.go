package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/swapmatch-backend/internal/auth"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

type identityValidator interface {
	Validate(token string) (auth.Identity, error)
}

// Auth resolves the bearer token into a caller identity. Requests without a
// token continue anonymously; handlers decide whether a user is required.
func Auth(validator identityValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			identity, err := validator.Validate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := ctxutil.WithIdentity(r.Context(), identity.UserID, identity.Role)
			noteUserID(ctx, identity.UserID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
