package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/application"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/auth/domain"
	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in application.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	user, token, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

type loginReq struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid body")
		return
	}

	user, token, err := h.service.Login(r.Context(), in.User, in.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

// Logout acknowledges; the bearer credential is stateless and simply
// discarded by the client.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var inv *domain.InvalidError
	switch {
	case errors.As(err, &inv):
		httpx.Error(w, http.StatusBadRequest, inv.Reason)
	case errors.Is(err, domain.ErrUsernameTaken), errors.Is(err, domain.ErrEmailTaken):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		httpx.Error(w, http.StatusBadRequest, "invalid credentials")
	case errors.Is(err, domain.ErrTooManyAttempts):
		httpx.Error(w, http.StatusTooManyRequests, err.Error())
	default:
		h.log.Error("auth request failed", "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
