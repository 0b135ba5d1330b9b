package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/potluckhq/potluck/internal/service"
	"github.com/potluckhq/potluck/internal/store"
	"github.com/potluckhq/potluck/pkg/httpx"
	"github.com/potluckhq/potluck/pkg/jwtx"
	"github.com/potluckhq/potluck/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	AuthService   *service.AuthService
	RecipeService *service.RecipeService
	RatingService *service.RatingService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
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
	r.registerAuth()
	r.registerRecipes()
	r.registerRatings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// POST /register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /confirm - moderate rate limit (clicked from the email)
	r.Mux.Handle("GET /v1/auth/confirm",
		httpx.Chain(http.HandlerFunc(h.HandleConfirm),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /login - strict rate limit by IP (password guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /verify-2fa - strict rate limit by IP (6-digit codes brute force fast)
	r.Mux.Handle("POST /v1/auth/verify-2fa",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyTwoFactor),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /.well-known/jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerRecipes() {
	h := &RecipeHandler{RecipeService: r.RecipeService}

	// GET /recipes - public browse endpoint
	r.Mux.Handle("GET /v1/recipes",
		httpx.Chain(http.HandlerFunc(h.HandleListPublic),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /recipes/{id} - optional auth: anonymous callers get public
	// recipes, authors also get their own private ones
	r.Mux.Handle("GET /v1/recipes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.OptionalAuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /recipes - authenticated, moderate rate limit by user
	r.Mux.Handle("POST /v1/recipes",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /recipes/my - authenticated
	r.Mux.Handle("GET /v1/recipes/my",
		httpx.Chain(http.HandlerFunc(h.HandleListMine),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /recipes/my/{id} - authenticated
	r.Mux.Handle("GET /v1/recipes/my/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGetMine),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// PATCH /recipes/{id} - authenticated, owner or admin enforced in the service
	r.Mux.Handle("PATCH /v1/recipes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// DELETE /recipes/{id} - authenticated, owner or admin enforced in the service
	r.Mux.Handle("DELETE /v1/recipes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerRatings() {
	h := &RatingHandler{RatingService: r.RatingService}

	// POST /ratings - authenticated, moderate rate limit by user
	r.Mux.Handle("POST /v1/ratings",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /recipes/{id}/ratings - optional auth mirrors the recipe read policy
	r.Mux.Handle("GET /v1/recipes/{id}/ratings",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.OptionalAuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
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
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
