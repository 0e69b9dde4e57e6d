package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	authhttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/infrastructure/http"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/application"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/inventory/domain"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/authtoken"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	mw      *authhttp.Middleware
}

func NewHandler(log *slog.Logger, service *application.Service, mw *authhttp.Middleware) *Handler {
	return &Handler{log: log, service: service, mw: mw}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.mw.Authenticate)
	r.Get("/by-restaurant/{restaurantId}", h.byRestaurant)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireRole(authtoken.RoleEmployee, authtoken.RoleAdmin))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})
	return r
}

func actorFrom(r *http.Request) application.Actor {
	claims, _ := authtoken.FromContext(r.Context())
	return application.Actor{
		UserID:       claims.UserID,
		Role:         claims.Role,
		RestaurantID: claims.RestaurantID,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter *int64
	if raw := r.URL.Query().Get("restaurantId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid restaurantId")
			return
		}
		filter = &id
	}

	items, err := h.service.List(r.Context(), actorFrom(r), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	httpx.OK(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) byRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := strconv.ParseInt(chi.URLParam(r, "restaurantId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	items, err := h.service.ListByRestaurant(r.Context(), restaurantID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	httpx.OK(w, http.StatusOK, map[string]any{"items": items})
}

type itemReq struct {
	RestaurantID int64           `json:"restaurantId"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorderLevel"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req itemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	item, err := h.service.Create(r.Context(), actorFrom(r), domain.NewItem{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		SKU:          req.SKU,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, map[string]any{"item": item})
}

type patchReq struct {
	Name         *string          `json:"name"`
	SKU          *string          `json:"sku"`
	Unit         *string          `json:"unit"`
	Quantity     *decimal.Decimal `json:"quantity"`
	ReorderLevel *decimal.Decimal `json:"reorderLevel"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req patchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	item, err := h.service.Update(r.Context(), actorFrom(r), id, domain.Patch{
		Name:         req.Name,
		SKU:          req.SKU,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"item": item})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var inv *domain.InvalidError
	switch {
	case errors.As(err, &inv):
		httpx.Error(w, http.StatusBadRequest, inv.Reason)
	case errors.Is(err, domain.ErrForbidden):
		httpx.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("inventory request failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
