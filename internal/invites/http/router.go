package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/service"
	"github.com/doorstephq/doorstep/internal/invites/store"
	"github.com/doorstephq/doorstep/pkg/httpx"
	"github.com/doorstephq/doorstep/pkg/jwtx"
	"github.com/doorstephq/doorstep/pkg/slogx"

	_ "github.com/doorstephq/doorstep/api/invites" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	InviteService *service.InviteService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvites()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Doorstep Invite Service API
//	@version		0.1.0
//	@description	Token-based property invite lifecycle: landlords mint short shareable codes,
//	@description	prospective tenants validate them anonymously and redeem them once
//	@description	authenticated to become the property's tenant.
//
//	@contact.name				Doorstep Team
//	@contact.url				https://github.com/doorstephq/doorstep
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
//	@description				Platform-issued JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvites() {
	createHandler := &InviteCreateHandler{InviteService: r.InviteService}
	validateHandler := &InviteValidateHandler{InviteService: r.InviteService}
	acceptHandler := &InviteAcceptHandler{InviteService: r.InviteService}
	revokeHandler := &InviteRevokeHandler{InviteService: r.InviteService}

	// POST /v1/invites - landlord-only, moderate rate limit by user
	securedCreate := httpx.Chain(createHandler,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("landlord"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /v1/invites", securedCreate)

	// POST /v1/invites/validate - public, strict rate limit by IP. The
	// store-backed validation bucket inside the service is a second,
	// independent layer.
	r.Mux.Handle("POST /v1/invites/validate",
		httpx.Chain(validateHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/invites/accept - authenticated, strict rate limit by IP
	// (token guessing with a stolen session is still token guessing)
	securedAccept := httpx.Chain(acceptHandler,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)
	r.Mux.Handle("POST /v1/invites/accept", securedAccept)

	// DELETE /v1/invites/{id} - issuing landlord only, moderate by user
	securedRevoke := httpx.Chain(revokeHandler,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("landlord"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	r.Mux.Handle("DELETE /v1/invites/{id}", securedRevoke)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
