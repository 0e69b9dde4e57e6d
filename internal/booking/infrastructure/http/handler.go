package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authhttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/infrastructure/http"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/application"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/booking/domain"
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
	r.Get("/availability", h.availability)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Post("/", h.create)
		r.Get("/mine", h.mine)

		r.Group(func(r chi.Router) {
			r.Use(h.mw.RequireRole(authtoken.RoleEmployee, authtoken.RoleAdmin))
			r.Get("/", h.list)
			r.Patch("/{id}/status", h.updateStatus)
			r.Delete("/{id}", h.remove)
		})
	})
	return r
}

func (h *Handler) availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	restaurantID, err := strconv.ParseInt(q.Get("restaurantId"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid restaurantId")
		return
	}

	left, err := h.service.Availability(r.Context(), restaurantID, q.Get("date"), q.Get("time"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"capacityLeft": left})
}

type createReq struct {
	RestaurantID int64  `json:"restaurantId"`
	PartySize    int    `json:"partySize"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Notes        string `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	booking, err := h.service.Create(r.Context(), claims.UserID, domain.NewBooking{
		RestaurantID: req.RestaurantID,
		PartySize:    req.PartySize,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, map[string]any{"booking": booking})
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	bookings, err := h.service.Mine(r.Context(), claims.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	httpx.OK(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	if claims.RestaurantID == nil {
		httpx.Error(w, http.StatusBadRequest, "employee has no restaurant")
		return
	}

	bookings, err := h.service.ListForRestaurant(r.Context(), *claims.RestaurantID, r.URL.Query().Get("date"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	httpx.OK(w, http.StatusOK, map[string]any{"bookings": bookings})
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
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.service.UpdateStatus(r.Context(), *claims.RestaurantID, bookingID, req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	if claims.RestaurantID == nil {
		httpx.Error(w, http.StatusBadRequest, "employee has no restaurant")
		return
	}
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := h.service.Delete(r.Context(), *claims.RestaurantID, bookingID); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var inv *domain.InvalidError
	var full *domain.NoCapacityError
	switch {
	case errors.As(err, &inv):
		httpx.Error(w, http.StatusBadRequest, inv.Reason)
	case errors.As(err, &full):
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"status":       "Error",
			"message":      full.Error(),
			"capacityLeft": full.Left,
		})
	case errors.Is(err, domain.ErrRestaurantNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBookingNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httpx.Error(w, http.StatusForbidden, err.Error())
	default:
		h.log.Error("booking request failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
