package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codecuphq/codecup-backend/api/controllers"
	"github.com/codecuphq/codecup-backend/api/middleware"
	"github.com/codecuphq/codecup-backend/internal/auth"
	cartsvc "github.com/codecuphq/codecup-backend/internal/cart"
	"github.com/codecuphq/codecup-backend/internal/catalog"
	checkoutsvc "github.com/codecuphq/codecup-backend/internal/checkout"
	"github.com/codecuphq/codecup-backend/internal/loyalty"
	ordersvc "github.com/codecuphq/codecup-backend/internal/orders"
	rewardsvc "github.com/codecuphq/codecup-backend/internal/rewards"
	"github.com/codecuphq/codecup-backend/pkg/auth/session"
	"github.com/codecuphq/codecup-backend/pkg/config"
	"github.com/codecuphq/codecup-backend/pkg/logger"
	"github.com/codecuphq/codecup-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Services bundles the domain services mounted on the router.
type Services struct {
	Auth     auth.Service
	Catalog  catalog.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Rewards  rewardsvc.Service
	Orders   ordersvc.Service
	Loyalty  loyalty.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	gatherer prometheus.Gatherer,
	svcs Services,
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
		int(cfg.AuthRateLimit.LoginIPLimit),
		int(cfg.AuthRateLimit.LoginEmailLimit),
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		int(cfg.AuthRateLimit.RegisterIPLimit),
		int(cfg.AuthRateLimit.RegisterEmailLimit),
	)

	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/coffees", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(svcs.Catalog, logg))
			r.Get("/suggestions", controllers.CatalogSuggestions(svcs.Catalog, logg))
			r.Get("/{coffeeID}", controllers.CatalogGet(svcs.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(svcs.Cart, logg))
			r.Post("/", controllers.CartAdd(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Delete("/{itemID}", controllers.CartRemove(svcs.Cart, logg))
		})

		r.Post("/checkout", controllers.CheckoutExecute(svcs.Checkout, logg))

		r.Route("/rewards", func(r chi.Router) {
			r.Get("/", controllers.RewardsList(svcs.Rewards, logg))
			r.Post("/{offerID}/redeem", controllers.RewardsRedeem(svcs.Rewards, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Post("/{orderID}/complete", controllers.OrderComplete(svcs.Orders, logg))
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", controllers.AccountGet(svcs.Loyalty, logg))
			r.Put("/", controllers.AccountUpdate(svcs.Loyalty, logg))
			r.Post("/stamp-card/redeem", controllers.AccountRedeemCard(svcs.Loyalty, logg))
		})
	})

	return r
}
