package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"

	_ "github.com/aussiebroadwan/hubsite/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metricsx.Metrics

	store          store.Store
	SessionService *service.SessionService
	ResetService   *service.PasswordResetService
	AdminService   *service.AdminService
	HubService     *service.HubService
	MFAService     *service.MFAService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	metrics *metricsx.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      metrics,
		logger:       logger,
	}

	// The metrics middleware sits innermost so it sees the pattern the mux
	// matched.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPasswordReset()
	r.registerAdmin()
	r.registerHubs()
	r.registerMFA()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Hubsite Authentication Service API
//	@version		0.1.0
//	@description	Sign-in, session and authorization service for the hubsite community platform.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs. Every session is also tracked server side, so signing out or resetting a password revokes tokens before they expire.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/hubsite
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h := r.handler
	if h == nil {
		h = httpx.Chain(r.Mux, r.middlewares...)
	}
	h.ServeHTTP(w, req)
}

// authn verifies the bearer token signature and expiry. Session state is
// checked by the services.
func (r *Router) authn() httpx.Middleware {
	return httpx.RequireBearer(r.SessionService)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Sessions: r.SessionService}

	// POST /sign-in - strict rate limit by IP + email to slow password guessing
	r.Mux.Handle("POST /v1/auth/sign-in",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)

	// POST /refresh - moderate rate limit by IP
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /sign-out - moderate rate limit by IP, accepts expired tokens
	r.Mux.Handle("POST /v1/auth/sign-out",
		httpx.Chain(http.HandlerFunc(h.HandleSignOut),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /me - lenient rate limit by user
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			r.authn(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPasswordReset() {
	h := &PasswordResetHandler{Resets: r.ResetService}

	// Both steps are public and strictly limited: requests send email, and
	// confirmations guess tokens.
	r.Mux.Handle("POST /v1/auth/password-reset/request",
		httpx.Chain(http.HandlerFunc(h.HandleRequest),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/password-reset/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Admin: r.AdminService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			r.authn(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/users", secured(h.HandleCreateAdmin))
	r.Mux.Handle("POST /v1/admin/users/{id}/temporary-admin", secured(h.HandleGrantTemporaryAdmin))
	r.Mux.Handle("DELETE /v1/admin/users/{id}/temporary-admin", secured(h.HandleRevokeTemporaryAdmin))
	r.Mux.Handle("POST /v1/admin/users/{id}/deactivate", secured(h.HandleDeactivate))

	// POST /superadmin - very strict rate limit by IP (one-time bootstrap, guessable key)
	r.Mux.Handle("POST /v1/admin/superadmin",
		httpx.Chain(http.HandlerFunc(h.HandleCreateSuperAdmin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerHubs() {
	h := &HubsHandler{Hubs: r.HubService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			r.authn(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	// GET /hubs - public listing
	r.Mux.Handle("GET /v1/hubs",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /v1/hubs", secured(h.HandleCreate))
	r.Mux.Handle("PATCH /v1/hubs/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/hubs/{id}", secured(h.HandleDelete))
	r.Mux.Handle("POST /v1/hubs/{id}/memberships", secured(h.HandleApply))
	r.Mux.Handle("POST /v1/memberships/{id}/review", secured(h.HandleReview))
	r.Mux.Handle("POST /v1/memberships/{id}/role", secured(h.HandleSetRole))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{
		Sessions: r.SessionService,
		MFA:      r.MFAService,
	}

	// POST /mfa/totp/enroll - moderate rate limit by user
	r.Mux.Handle("POST /v1/mfa/totp/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnroll),
			r.authn(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Code submissions - strict rate limit by user (prevent brute force of TOTP codes)
	r.Mux.Handle("POST /v1/mfa/totp/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			r.authn(),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/mfa/totp",
		httpx.Chain(http.HandlerFunc(h.HandleDisable),
			r.authn(),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.codec),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
