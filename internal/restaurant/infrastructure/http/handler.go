package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	authhttp "github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/infrastructure/http"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/application"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/domain"
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
	r.Get("/search", h.search)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticate)
		r.Use(h.mw.RequireRole(authtoken.RoleEmployee, authtoken.RoleAdmin))
		r.Get("/mine", h.mine)
	})
	return r
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.log.Error("restaurant search failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"restaurants": restaurants})
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	claims, _ := authtoken.FromContext(r.Context())
	if claims.RestaurantID == nil {
		httpx.OK(w, http.StatusOK, map[string]any{"restaurant": nil})
		return
	}

	rest, err := h.service.Mine(r.Context(), *claims.RestaurantID)
	switch {
	case errors.Is(err, domain.ErrRestaurantNotFound):
		httpx.Error(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.log.Error("restaurant lookup failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	default:
		httpx.OK(w, http.StatusOK, map[string]any{"restaurant": rest})
	}
}
