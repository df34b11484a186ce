// Package httptransport is the thin HTTP layer over the storefront
// services. Handlers decode, delegate, and render presentation values;
// business rules stay in the service packages.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopfront/internal/cart"
	catalogsvc "shopfront/internal/catalog/service"
	"shopfront/internal/order"
	"shopfront/internal/platform/audit"
	"shopfront/internal/session"
	"shopfront/internal/ticket"
	adminmw "shopfront/pkg/platform/middleware/admin"
)

// Handler wires storefront endpoints to the domain services.
type Handler struct {
	catalog *catalogsvc.Service
	carts   *cart.Engine
	tickets *ticket.Lifecycle
	orders  *order.Service
	table   session.Table
	trail   audit.Store
	logger  *slog.Logger
}

// New constructs the HTTP handler. The audit store may be nil; the audit
// listing endpoint then reports unavailable.
func New(
	catalog *catalogsvc.Service,
	carts *cart.Engine,
	tickets *ticket.Lifecycle,
	orders *order.Service,
	table session.Table,
	trail audit.Store,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		catalog: catalog,
		carts:   carts,
		tickets: tickets,
		orders:  orders,
		table:   table,
		trail:   trail,
		logger:  logger,
	}
}

// NewRouter mounts all endpoints. Shopper routes identify the caller via
// the X-User-ID header; admin routes additionally require the operator
// token.
func NewRouter(h *Handler, adminToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/shop", func(r chi.Router) {
		r.Get("/namespaces", h.HandleListNamespaces)
		r.Post("/tickets", h.HandleOpenTicket)
		r.Post("/tickets/close", h.HandleCloseOwnTicket)
		r.Get("/categories", h.HandleListCategories)
		r.Get("/items", h.HandleListItems)
		r.Get("/cart", h.HandleViewCart)
		r.Post("/cart", h.HandleAddToCart)
		r.Delete("/cart", h.HandleClearCart)
		r.Post("/orders", h.HandleConfirmOrder)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(adminToken, h.logger))
		r.Get("/catalog/{namespace}", h.HandleCatalogSnapshot)
		r.Put("/catalog/{namespace}/items", h.HandleUpsertItem)
		r.Patch("/catalog/{namespace}/items/{name}", h.HandleEditItem)
		r.Delete("/catalog/{namespace}/items/{name}", h.HandleDeleteItem)
		r.Get("/audit/{user}", h.HandleAuditTrail)
		r.Post("/tickets/close", h.HandleCloseTicket)
	})

	return r
}
