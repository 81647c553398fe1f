package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/listingdesk/backend/internal/auth"
	"github.com/listingdesk/backend/internal/clientip"
	"github.com/listingdesk/backend/internal/listing"
	"github.com/listingdesk/backend/internal/ratelimit"
	"github.com/listingdesk/backend/internal/subscription"
	"github.com/listingdesk/backend/internal/user"
	"github.com/listingdesk/backend/internal/webhook"
)

// API holds the handlers' dependencies.
type API struct {
	processor     *webhook.Processor
	subscriptions *subscription.Service
	auth          *auth.Service
	tokens        *auth.TokenService
	users         user.Store
	listings      listing.Store
	webhookLimit  *ratelimit.Limiter
	log           *slog.Logger
}

// Deps are the services the API routes over. All fields except
// WebhookLimit and Logger are required.
type Deps struct {
	Processor     *webhook.Processor
	Subscriptions *subscription.Service
	Auth          *auth.Service
	Tokens        *auth.TokenService
	Users         user.Store
	Listings      listing.Store
	WebhookLimit  *ratelimit.Limiter
	Logger        *slog.Logger
}

// New wires the API. Panics on missing required dependencies to fail fast
// during initialization.
func New(deps Deps) *API {
	if deps.Processor == nil {
		panic("api: webhook processor is required")
	}
	if deps.Subscriptions == nil {
		panic("api: subscription service is required")
	}
	if deps.Auth == nil || deps.Tokens == nil {
		panic("api: auth service and token service are required")
	}
	if deps.Users == nil {
		panic("api: user store is required")
	}
	if deps.Listings == nil {
		panic("api: listing store is required")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &API{
		processor:     deps.Processor,
		subscriptions: deps.Subscriptions,
		auth:          deps.Auth,
		tokens:        deps.Tokens,
		users:         deps.Users,
		listings:      deps.Listings,
		webhookLimit:  deps.WebhookLimit,
		log:           log,
	}
}

// Router builds the HTTP routing tree.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/webhook", func(r chi.Router) {
			r.Get("/webhook-health", a.handleWebhookHealth)

			r.Group(func(r chi.Router) {
				if a.webhookLimit != nil {
					r.Use(ratelimit.Middleware(a.webhookLimit, func(r *http.Request) string {
						return clientip.GetIP(r)
					}))
				}
				r.Post("/clickfunnels-webhook", a.handleClickFunnelsWebhook)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/sign-up", a.handleSignUp)
			r.Post("/sign-in", a.handleSignIn)
		})

		r.Route("/user", func(r chi.Router) {
			r.Post("/check-subscription", a.handleCheckSubscription)
			r.Post("/renew-subscription", a.handleRenewSubscription)
			r.Post("/expire-subscriptions", a.handleExpireSubscriptions)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(a.tokens))
				r.Get("/get-all-users", a.handleGetAllUsers)
				r.Get("/get-user-status", a.handleGetUserStatus)
				r.Post("/update-user-status", a.handleUpdateUserStatus)
			})
		})

		r.Route("/listing", func(r chi.Router) {
			r.Use(auth.Middleware(a.tokens))
			r.Post("/add-listing", a.handleAddListing)
			r.Get("/get-all-listing", a.handleGetAllListings)
			r.Get("/get-listing/{id}", a.handleGetListing)
			r.Delete("/delete-listing/{id}", a.handleDeleteListing)
		})
	})

	return r
}
