package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authhttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/infrastructure/http"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/application"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/order/domain"
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
	r.Get("/menu", h.menu)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Post("/", h.placeMenuOrder)
		r.Post("/from-inventory", h.placeInventoryOrder)
		r.Get("/mine", h.mine)

		r.Group(func(r chi.Router) {
			r.Use(h.mw.RequireRole(authtoken.RoleEmployee, authtoken.RoleAdmin))
			r.Get("/", h.list)
			r.Patch("/{id}/status", h.updateStatus)
		})
	})
	return r
}

func (h *Handler) menu(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Menu(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	httpx.OK(w, http.StatusOK, map[string]any{"menu": items})
}

type menuOrderReq struct {
	application.PlacementInput
	Items []application.MenuLineInput `json:"items"`
}

func (h *Handler) placeMenuOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	var req menuOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	orderID, err := h.service.PlaceMenuOrder(r.Context(), claims.UserID, req.PlacementInput, req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, map[string]any{"orderId": orderID})
}

type inventoryOrderReq struct {
	application.PlacementInput
	Lines []application.InventoryLineInput `json:"lines"`
}

func (h *Handler) placeInventoryOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	var req inventoryOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	orderID, err := h.service.PlaceInventoryOrder(r.Context(), claims.UserID, req.PlacementInput, req.Lines)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, map[string]any{"orderId": orderID})
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	orders, err := h.service.Mine(r.Context(), claims.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Detail{}
	}
	httpx.OK(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	if claims.RestaurantID == nil {
		httpx.Error(w, http.StatusBadRequest, "employee has no restaurant")
		return
	}

	orders, err := h.service.ListForRestaurant(r.Context(), *claims.RestaurantID, r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.StaffOrder{}
	}
	httpx.OK(w, http.StatusOK, map[string]any{"orders": orders})
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	if claims.RestaurantID == nil {
		httpx.Error(w, http.StatusBadRequest, "employee has no restaurant")
		return
	}
	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.service.UpdateStatus(r.Context(), *claims.RestaurantID, orderID, req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

// writeError maps the error taxonomy onto distinct response shapes: fix the
// input (400), not found (404), show unavailable items (400 + deficiencies),
// or retry the identical request (409).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var inv *domain.InvalidError
	var unknown *domain.UnknownItemError
	var short *domain.InsufficientStockError
	var badMove *domain.InvalidTransitionError
	switch {
	case errors.As(err, &inv):
		httpx.Error(w, http.StatusBadRequest, inv.Reason)
	case errors.As(err, &unknown):
		httpx.Error(w, http.StatusBadRequest, unknown.Error())
	case errors.As(err, &short):
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"status":       "Error",
			"message":      "insufficient stock",
			"deficiencies": short.Deficiencies,
		})
	case errors.As(err, &badMove):
		httpx.Error(w, http.StatusBadRequest, badMove.Error())
	case errors.Is(err, domain.ErrRestaurantNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httpx.Error(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("order request failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
