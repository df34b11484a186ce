package httptransport

import (
	"errors"
	"fmt"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"shopfront/internal/shop"
	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
	"shopfront/pkg/platform/httputil"
	"shopfront/pkg/platform/sentinel"
)

// callerID identifies the shopper from the X-User-ID header. The gateway
// adapter in front of this API is trusted to have authenticated the user.
func callerID(r *http.Request) (id.UserID, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "X-User-ID header required")
	}
	return id.ParseUserID(raw)
}

// HandleListNamespaces handles GET /shop/namespaces.
func (h *Handler) HandleListNamespaces(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, shop.NamespaceSelect(h.catalog.Namespaces()))
}

// HandleOpenTicket handles POST /shop/tickets. Opening a second ticket
// while one is live returns the existing channel with a conflict status.
func (h *Handler) HandleOpenTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[OpenTicketRequest](w, r)
	if !ok {
		return
	}
	ns, err := id.ParseNamespace(req.Namespace)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !h.catalog.Knows(ns) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown catalog"))
		return
	}

	ref, err := h.tickets.OpenShopping(ctx, userID, ns)
	if errors.Is(err, sentinel.ErrAlreadyOpen) {
		httputil.WriteJSON(w, http.StatusConflict, map[string]string{
			"error":             "ticket_already_open",
			"error_description": "you already have an open shop ticket",
			"channel":           string(ref),
		})
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to open shop ticket",
			"request_id", chimw.GetReqID(ctx),
			"user_id", userID,
			"namespace", ns,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"channel":      ref,
		"presentation": shop.Home(),
	})
}

// HandleCloseOwnTicket handles POST /shop/tickets/close. Shoppers may
// only close tickets they own; the admin twin has no such restriction.
func (h *Handler) HandleCloseOwnTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[CloseTicketRequest](w, r)
	if !ok {
		return
	}
	if req.Channel == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "channel is required"))
		return
	}

	if err := h.tickets.CloseOwned(ctx, userID, id.ChannelID(req.Channel)); err != nil {
		h.logger.InfoContext(ctx, "shopper close refused or failed",
			"request_id", chimw.GetReqID(ctx),
			"user_id", userID,
			"channel", req.Channel,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"closed": true})
}

// HandleCloseTicket handles POST /admin/tickets/close for operators, who
// may close any ticket.
func (h *Handler) HandleCloseTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[CloseTicketRequest](w, r)
	if !ok {
		return
	}
	if req.Channel == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "channel is required"))
		return
	}

	if err := h.tickets.Close(ctx, id.ChannelID(req.Channel)); err != nil {
		h.logger.ErrorContext(ctx, "failed to close ticket",
			"request_id", chimw.GetReqID(ctx),
			"channel", req.Channel,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"closed": true})
}

// HandleListCategories handles GET /shop/categories against the caller's
// selected catalog.
func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sess, err := h.table.GetOrCreate(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if sess.Namespace == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "open a shop ticket to select a catalog first"))
		return
	}

	categories, err := h.catalog.Categories(ctx, sess.Namespace)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, shop.CategoryList(categories))
}

// HandleListItems handles GET /shop/items?category=... and hides items
// that are out of stock.
func (h *Handler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "category is required"))
		return
	}

	sess, err := h.table.GetOrCreate(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if sess.Namespace == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "open a shop ticket to select a catalog first"))
		return
	}

	items, err := h.catalog.AvailableItems(ctx, sess.Namespace, category)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, shop.ItemCards(category, items))
}

// HandleAddToCart handles POST /shop/cart.
func (h *Handler) HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[AddToCartRequest](w, r)
	if !ok {
		return
	}

	if err := h.carts.Add(ctx, userID, req.Category, req.Name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, shop.Presentation{
		Text:      fmt.Sprintf("Added %s to your cart.", req.Name),
		Ephemeral: true,
	})
}

// HandleViewCart handles GET /shop/cart.
func (h *Handler) HandleViewCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.carts.ViewCart(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleClearCart handles DELETE /shop/cart.
func (h *Handler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.table.ClearCart(ctx, userID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleConfirmOrder handles POST /shop/orders.
func (h *Handler) HandleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := callerID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	receipt, err := h.orders.Confirm(ctx, userID)
	if err != nil {
		h.logger.InfoContext(ctx, "order not confirmed",
			"request_id", chimw.GetReqID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order confirmed",
		"request_id", chimw.GetReqID(ctx),
		"user_id", userID,
		"order_id", receipt.ID,
		"total", receipt.Total,
	)
	httputil.WriteJSON(w, http.StatusCreated, receipt)
}
