package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/progarden/garden-crm/internal/auth"
	"github.com/progarden/garden-crm/internal/customers"
	"github.com/progarden/garden-crm/internal/dashboard"
	"github.com/progarden/garden-crm/internal/deliveries"
	"github.com/progarden/garden-crm/internal/finance"
	"github.com/progarden/garden-crm/internal/inventory"
	"github.com/progarden/garden-crm/internal/marketing"
	"github.com/progarden/garden-crm/internal/shared"
	"github.com/progarden/garden-crm/internal/suppliers"
	"github.com/progarden/garden-crm/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	TokenManager     *shared.TokenManager
	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	CustomersHandler *customers.Handler
	FinanceHandler   *finance.Handler
	InventoryHandler *inventory.Handler
	SuppliersHandler *suppliers.Handler
	DeliveryHandler  *deliveries.Handler
	MarketingHandler *marketing.Handler
	DashboardHandler *dashboard.Handler
}

// NewRouter constructs the chi.Router with Garden CRM defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Credential checks are rate limited per client IP.
	r.Group(func(r chi.Router) {
		limit, window := 10, time.Minute
		if params.Config != nil {
			if params.Config.TokenRateLimit > 0 {
				limit = params.Config.TokenRateLimit
			}
			if params.Config.TokenRateWindow > 0 {
				window = params.Config.TokenRateWindow
			}
		}
		r.Use(httprate.LimitByIP(limit, window))
		params.AuthHandler.MountPublicRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireToken(params.Logger, params.TokenManager))

		params.AuthHandler.MountProtectedRoutes(r)
		params.UsersHandler.MountRoutes(r)
		params.CustomersHandler.MountRoutes(r)
		params.FinanceHandler.MountRoutes(r)
		params.InventoryHandler.MountRoutes(r)
		params.SuppliersHandler.MountRoutes(r)
		params.DeliveryHandler.MountRoutes(r)
		params.MarketingHandler.MountRoutes(r)
		params.DashboardHandler.MountRoutes(r)
	})

	return r
}
