package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/huddlebuy/huddlebuy-backend/api/controllers"
	"github.com/huddlebuy/huddlebuy-backend/api/middleware"
	"github.com/huddlebuy/huddlebuy-backend/internal/auth"
	"github.com/huddlebuy/huddlebuy-backend/internal/finalization"
	"github.com/huddlebuy/huddlebuy-backend/internal/groups"
	product "github.com/huddlebuy/huddlebuy-backend/internal/products"
	"github.com/huddlebuy/huddlebuy-backend/internal/tiers"
	"github.com/huddlebuy/huddlebuy-backend/pkg/auth/session"
	"github.com/huddlebuy/huddlebuy-backend/pkg/config"
	"github.com/huddlebuy/huddlebuy-backend/pkg/logger"
	"github.com/huddlebuy/huddlebuy-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database controllers.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	groupService groups.Service,
	finalizeService finalization.Service,
	productService product.Service,
	tierService tiers.Service,
	bulkApplier *tiers.BulkApplier,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Get("/api/v1/products/{productId}", controllers.ProductGet(productService, logg))
	r.Get("/api/v1/products/{productId}/discount-tiers", controllers.TiersGet(tierService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", controllers.GroupCreate(groupService, logg))
			r.Post("/join", controllers.GroupJoinByCode(groupService, logg))
			r.Route("/{groupId}", func(r chi.Router) {
				r.Get("/", controllers.GroupGet(groupService, logg))
				r.Post("/join", controllers.GroupJoin(groupService, logg))
				r.Post("/leave", controllers.GroupLeave(groupService, logg))
				r.Get("/members", controllers.GroupMembers(groupService, logg))
				r.Route("/requests", func(r chi.Router) {
					r.Post("/", controllers.JoinRequestCreate(groupService, logg))
					r.Get("/", controllers.JoinRequestList(groupService, logg))
					r.Post("/{requestId}/approve", controllers.JoinRequestApprove(groupService, logg))
					r.Post("/{requestId}/reject", controllers.JoinRequestReject(groupService, logg))
				})
				r.Post("/invites", controllers.InviteCreate(groupService, logg))
				r.Post("/finalize", controllers.GroupFinalize(finalizeService, logg))
				r.Get("/order", controllers.GroupOrderGet(finalizeService, logg))
			})
		})

		r.Post("/invites/{token}/accept", controllers.InviteAccept(groupService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Post("/{productId}/group-ordering", controllers.ProductGroupOrderToggle(productService, logg))
			r.Put("/{productId}/discount-tiers", controllers.TiersPut(tierService, logg))
			r.Route("/bulk/discount-tiers", func(r chi.Router) {
				r.Post("/", controllers.BulkTiersApply(bulkApplier, logg))
				r.Post("/undo", controllers.BulkTiersUndo(bulkApplier, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/orders/{orderId}", controllers.OrderGet(finalizeService, logg))
	})

	return r
}
