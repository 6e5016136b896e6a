package inventory

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stockroom-app/stockroom/internal/export"
	"github.com/stockroom-app/stockroom/internal/observability"
	"github.com/stockroom-app/stockroom/internal/platform/httpx"
	"github.com/stockroom-app/stockroom/internal/shared"
)

// Handler wires HTTP endpoints for the inventory module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	auth      shared.AuthMiddleware
	validator *validator.Validate
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics, auth shared.AuthMiddleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		auth:      auth,
		validator: validator.New(),
	}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAuth)
		r.Get("/items", h.List)
		r.Get("/items/export.csv", h.ExportCSV)
		r.Post("/items", h.Create)
		r.Patch("/items/{id}/quantity", h.UpdateQuantity)
		r.Delete("/items/{id}", h.Delete)
	})
}

// List returns the caller's items, optionally narrowed by ?search=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller := shared.IdentityFromContext(r.Context())
	items, err := h.service.List(r.Context(), caller.UserID)
	if err != nil {
		h.logger.Error("list items failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if term := r.URL.Query().Get("search"); term != "" {
		items = slices.Collect(Match(items, term))
	}
	httpx.JSON(w, http.StatusOK, NewItemListResponse(items))
}

// Create adds a new item owned by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := shared.IdentityFromContext(r.Context())

	var req CreateItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	item, err := h.service.Create(r.Context(), caller.UserID, req)
	h.metrics.RecordMutation("create", err)
	if err != nil {
		h.logger.Error("create item failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.Int64("owner_id", caller.UserID))
	httpx.JSON(w, http.StatusCreated, NewItemResponse(item))
}

// UpdateQuantity writes a new stock count for an item.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	caller := shared.IdentityFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Item ID", "item id must be a UUID")
		return
	}

	var req UpdateQuantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", "request body must be valid JSON")
		return
	}

	item, err := h.service.UpdateQuantity(r.Context(), caller.UserID, id, req.Quantity)
	h.metrics.RecordMutation("update_quantity", err)
	if err != nil {
		h.logger.Error("update quantity failed",
			slog.Any("error", err),
			slog.String("item_id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewItemResponse(item))
}

// Delete removes an item after the UI has confirmed the action with the user.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := shared.IdentityFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Item ID", "item id must be a UUID")
		return
	}

	err = h.service.Delete(r.Context(), caller.UserID, id)
	h.metrics.RecordMutation("delete", err)
	if err != nil {
		h.logger.Error("delete item failed",
			slog.Any("error", err),
			slog.String("item_id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV streams the caller's items as a CSV download.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	caller := shared.IdentityFromContext(r.Context())
	items, err := h.service.List(r.Context(), caller.UserID)
	if err != nil {
		h.logger.Error("export items failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	filename := "inventory-" + time.Now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := export.WriteCSV(w, csvHeader, csvRecords(items)); err != nil {
		h.logger.Error("write items csv", slog.Any("error", err))
	}
}

var csvHeader = []string{"Name", "SKU", "Category", "Description", "Quantity", "Unit Price", "Low Stock Threshold", "Created At", "Updated At"}

func csvRecords(items []Item) [][]string {
	records := make([][]string, 0, len(items))
	for _, item := range items {
		price := ""
		if item.UnitPrice != nil {
			price = export.FormatPrice(*item.UnitPrice)
		}
		threshold := ""
		if item.LowStockThreshold != nil {
			threshold = strconv.Itoa(*item.LowStockThreshold)
		}
		records = append(records, []string{
			item.Name,
			orEmpty(item.SKU),
			orEmpty(item.Category),
			orEmpty(item.Description),
			strconv.Itoa(item.Quantity),
			price,
			threshold,
			item.CreatedAt.UTC().Format(time.RFC3339),
			item.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return records
}

func orEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
