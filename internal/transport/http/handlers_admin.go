package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	id "shopfront/pkg/domain"
	dErrors "shopfront/pkg/domain-errors"
	"shopfront/pkg/platform/httputil"
)

// adminActor builds the acting identity for token-authenticated routes.
// The middleware already proved the capability; the header only names the
// operator for the audit trail.
func adminActor(r *http.Request) id.Actor {
	actorID := id.UserID("admin")
	if raw := r.Header.Get("X-User-ID"); raw != "" {
		if parsed, err := id.ParseUserID(raw); err == nil {
			actorID = parsed
		}
	}
	return id.Actor{ID: actorID, Admin: true}
}

func pathNamespace(r *http.Request) (id.Namespace, error) {
	return id.ParseNamespace(chi.URLParam(r, "namespace"))
}

// HandleCatalogSnapshot handles GET /admin/catalog/{namespace}. Unlike the
// shopper item listing, the snapshot includes out-of-stock items.
func (h *Handler) HandleCatalogSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ns, err := pathNamespace(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	snap, err := h.catalog.Snapshot(ctx, ns)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// HandleUpsertItem handles PUT /admin/catalog/{namespace}/items.
func (h *Handler) HandleUpsertItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ns, err := pathNamespace(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[UpsertItemRequest](w, r)
	if !ok {
		return
	}

	actor := adminActor(r)
	if err := h.catalog.UpsertItem(ctx, actor, ns, req.Category, req.Name, req.Price, req.Stock, req.Image); err != nil {
		h.logger.ErrorContext(ctx, "failed to upsert item",
			"request_id", chimw.GetReqID(ctx),
			"actor", actor.ID,
			"namespace", ns,
			"item", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// HandleEditItem handles PATCH /admin/catalog/{namespace}/items/{name}.
// A new_name in the body renames the item within the same write cycle.
func (h *Handler) HandleEditItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ns, err := pathNamespace(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	oldName := chi.URLParam(r, "name")
	req, ok := httputil.Decode[EditItemRequest](w, r)
	if !ok {
		return
	}
	newName := req.NewName
	if newName == "" {
		newName = oldName
	}

	actor := adminActor(r)
	if err := h.catalog.EditItem(ctx, actor, ns, req.Category, oldName, newName, req.Price, req.Stock, req.Image); err != nil {
		h.logger.ErrorContext(ctx, "failed to edit item",
			"request_id", chimw.GetReqID(ctx),
			"actor", actor.ID,
			"namespace", ns,
			"item", oldName,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// HandleDeleteItem handles DELETE /admin/catalog/{namespace}/items/{name}.
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ns, err := pathNamespace(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	name := chi.URLParam(r, "name")
	category := r.URL.Query().Get("category")
	if category == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "category is required"))
		return
	}

	actor := adminActor(r)
	if err := h.catalog.DeleteItem(ctx, actor, ns, category, name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAuditTrail handles GET /admin/audit/{user}.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.trail == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "audit trail not configured"))
		return
	}
	userID, err := id.ParseUserID(chi.URLParam(r, "user"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.trail.ListByUser(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}
