package app

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/swapmatch-backend/internal/auth"
	"github.com/heartmarshall/swapmatch-backend/internal/config"
	"github.com/heartmarshall/swapmatch-backend/internal/transport/dataloader"
	"github.com/heartmarshall/swapmatch-backend/internal/transport/middleware"
	"github.com/heartmarshall/swapmatch-backend/internal/transport/rest"
)

// Handlers groups the REST handlers mounted by NewRouter.
type Handlers struct {
	Health      *rest.HealthHandler
	Swipe       *rest.SwipeHandler
	Opportunity *rest.OpportunityHandler
	Admin       *rest.AdminHandler
	Profile     *rest.ProfileHandler
}

// RouterDeps carries the cross-cutting pieces of the HTTP stack.
type RouterDeps struct {
	Logger    *slog.Logger
	CORS      config.CORSConfig
	RateLimit config.RateLimitConfig
	Tokens    *auth.JWTManager
	Limiter   *middleware.RateLimiter
	Loaders   *dataloader.Repos
}

// NewRouter mounts every route behind the global middleware chain:
// Recovery, RequestID, Logger, CORS, Auth. Rate limits and admin checks are
// applied per route.
func NewRouter(h Handlers, d RouterDeps) http.Handler {
	writes := d.Limiter.Limit("writes", d.RateLimit.SwipesPerMinute)
	reads := d.Limiter.Limit("reads", d.RateLimit.ReadsPerMinute)
	withLoaders := middleware.Middleware(dataloader.Middleware(d.Loaders))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.Handle("POST /swipes", writes.ThenFunc(h.Swipe.Record))
	mux.Handle("GET /opportunities", middleware.Chain(reads, withLoaders).ThenFunc(h.Opportunity.List))
	mux.Handle("POST /opportunities/{id}/dismiss", writes.ThenFunc(h.Opportunity.Dismiss))

	mux.Handle("GET /me", reads.ThenFunc(h.Profile.Get))
	mux.Handle("PUT /me", writes.ThenFunc(h.Profile.Save))

	mux.Handle("POST /admin/discovery/run", middleware.AdminOnly(http.HandlerFunc(h.Admin.RunDiscovery)))

	return middleware.Chain(
		middleware.Recovery(d.Logger),
		middleware.RequestID,
		middleware.Logger(d.Logger),
		middleware.CORS(d.CORS),
		middleware.Auth(d.Tokens),
	)(mux)
}
