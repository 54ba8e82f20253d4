package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/notewell-backend/api/controllers"
	"github.com/angelmondragon/notewell-backend/api/middleware"
	"github.com/angelmondragon/notewell-backend/internal/assistant"
	"github.com/angelmondragon/notewell-backend/internal/auth"
	"github.com/angelmondragon/notewell-backend/internal/notes"
	"github.com/angelmondragon/notewell-backend/internal/users"
	pkgAuth "github.com/angelmondragon/notewell-backend/pkg/auth"
	"github.com/angelmondragon/notewell-backend/pkg/auth/session"
	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
)

// Params carries everything the router hands to controllers and middleware.
// Revocations and Gatherer are optional.
type Params struct {
	Config      *config.Config
	Logger      *logger.Logger
	Tokens      *pkgAuth.TokenService
	Identities  users.Service
	Revocations session.RevocationChecker
	Auth        auth.Service
	Notes       notes.Service
	Assistant   assistant.Service
	Readiness   []controllers.ReadinessCheck
	Gatherer    prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger
	cookie := controllers.NewCookieSettings(cfg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	gate := middleware.Auth(middleware.AuthParams{
		Tokens:      p.Tokens,
		Identities:  p.Identities,
		Revocations: p.Revocations,
		CookieName:  cookie.Name,
		Logger:      logg,
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Readiness...))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", controllers.AuthSignup(p.Auth, logg))
		r.Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.Post("/send-otp", controllers.AuthSendOTP(p.Auth, logg))
		r.Post("/verify-otp", controllers.AuthVerifyOTP(p.Auth, cookie, logg))
		r.Post("/identity-provider", controllers.AuthIdentityProvider(p.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(gate)
			r.Post("/logout", controllers.AuthLogout(p.Auth, cookie, logg))
			r.Get("/me", controllers.AuthMe(logg))
		})
	})

	r.Route("/notes", func(r chi.Router) {
		r.Use(gate)
		r.Get("/", controllers.NotesList(p.Notes, logg))
		r.Post("/", controllers.NotesCreate(p.Notes, logg))
		r.Get("/{noteID}", controllers.NotesGet(p.Notes, logg))
		r.Put("/{noteID}", controllers.NotesUpdate(p.Notes, logg))
		r.Delete("/{noteID}", controllers.NotesDelete(p.Notes, logg))
	})

	r.Route("/ai", func(r chi.Router) {
		r.Use(gate)
		r.Post("/summarize", controllers.AISummarize(p.Assistant, logg))
		r.Post("/assistant", controllers.AIAssistant(p.Assistant, logg))
		r.Get("/health", controllers.AIHealth(p.Assistant))
	})

	return r
}
