package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dentalops/leadflow/internal/http/apierror"
	"github.com/dentalops/leadflow/pkg/logging"
)

// Handler serves the token endpoints.
type Handler struct {
	users  UserRepository
	issuer *TokenIssuer
	logger *logging.Logger
}

// NewHandler creates an auth handler.
func NewHandler(users UserRepository, issuer *TokenIssuer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{users: users, issuer: issuer, logger: logger}
}

// Token handles POST /token/. A bad username and a bad password produce
// the same response so the endpoint does not leak which accounts exist.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			apierror.Detail(w, http.StatusUnauthorized, "Invalid Credentials")
			return
		}
		h.logger.Error("failed to load user", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !user.CheckPassword(req.Password) {
		apierror.Detail(w, http.StatusUnauthorized, "Invalid Credentials")
		return
	}

	pair, err := h.issuer.IssuePair(user.Username)
	if err != nil {
		h.logger.Error("failed to issue tokens", "error", err)
		apierror.Detail(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.logger.Info("login succeeded", "username", user.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pair)
}

// RefreshToken handles POST /token/refresh/.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Detail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	access, err := h.issuer.Refresh(req.Refresh)
	if err != nil {
		apierror.Detail(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"access": access})
}
