package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/notewell-backend/api/middleware"
	"github.com/angelmondragon/notewell-backend/api/responses"
	"github.com/angelmondragon/notewell-backend/api/validators"
	"github.com/angelmondragon/notewell-backend/internal/auth"
	"github.com/angelmondragon/notewell-backend/internal/users"
	"github.com/angelmondragon/notewell-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
)

// CookieSettings controls the session cookie written by OTP verification.
type CookieSettings struct {
	Name   string
	Secure bool
}

// NewCookieSettings derives cookie settings from configuration. The cookie is
// marked Secure in production.
func NewCookieSettings(cfg *config.Config) CookieSettings {
	name := cfg.Session.CookieName
	if name == "" {
		name = "token"
	}
	return CookieSettings{Name: name, Secure: cfg.App.IsProd()}
}

func (c CookieSettings) write(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c CookieSettings) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

type verifyOTPResponse struct {
	Message  string             `json:"message"`
	Identity *users.IdentityDTO `json:"identity"`
}

type logoutResponse struct {
	Status string `json:"status"`
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable")
}

// AuthSignup creates a password identity and returns it with a session token.
func AuthSignup(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth service"))
			return
		}

		var body auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin wires the password login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth service"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AuthSendOTP(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth service"))
			return
		}

		var body auth.RequestOTPRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RequestOTP(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthVerifyOTP consumes a code and stores the session token in an httpOnly cookie.
func AuthVerifyOTP(svc auth.Service, cookie CookieSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth service"))
			return
		}

		var body auth.VerifyOTPRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.VerifyOTP(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookie.write(w, result.Token, result.ExpiresAt)
		responses.WriteSuccess(w, verifyOTPResponse{
			Message:  "OTP verified successfully",
			Identity: result.Identity,
		})
	}
}

func AuthIdentityProvider(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth service"))
			return
		}

		var body auth.ProviderLoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AuthenticateWithProvider(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthLogout runs behind the gate. It revokes the presented token when
// revocation is enabled and always clears the session cookie.
func AuthLogout(svc auth.Service, cookie CookieSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth service"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.TokenFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cookie.clear(w)
		responses.WriteSuccess(w, logoutResponse{Status: "logged_out"})
	}
}

// AuthMe returns the identity resolved by the gate.
func AuthMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, identity)
	}
}

func requireIdentity(r *http.Request) (*users.IdentityDTO, error) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "No token provided")
	}
	return identity, nil
}
