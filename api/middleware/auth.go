package middleware

import (
	"net/http"

	"github.com/angelmondragon/notewell-backend/api/responses"
	"github.com/angelmondragon/notewell-backend/api/validators"
	"github.com/angelmondragon/notewell-backend/internal/users"
	pkgAuth "github.com/angelmondragon/notewell-backend/pkg/auth"
	"github.com/angelmondragon/notewell-backend/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
)

type tokenParser interface {
	Parse(token string) (*pkgAuth.SessionClaims, error)
}

// AuthParams wires the gate. Revocations is optional; CookieName enables the
// cookie fallback when no Authorization header is sent.
type AuthParams struct {
	Tokens      tokenParser
	Identities  users.Service
	Revocations session.RevocationChecker
	CookieName  string
	Logger      *logger.Logger
}

// Auth resolves the caller from a session token and attaches the identity to
// the request context. Handlers behind it always see an existing identity.
func Auth(params AuthParams) func(http.Handler) http.Handler {
	logg := params.Logger
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := validators.BearerToken(r.Header.Get("Authorization"))
			if !ok && params.CookieName != "" {
				if cookie, err := r.Cookie(params.CookieName); err == nil && cookie.Value != "" {
					token, ok = cookie.Value, true
				}
			}
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "No token provided"))
				return
			}

			claims, err := params.Tokens.Parse(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid token"))
				return
			}

			if params.Revocations != nil && claims.ID != "" {
				revoked, err := params.Revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if revoked {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid token"))
					return
				}
			}

			identity, err := params.Identities.Get(r.Context(), claims.UserID)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					err = pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "User not found")
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			ctx = withToken(ctx, token)
			if logg != nil {
				ctx = logg.WithIdentityID(ctx, identity.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
