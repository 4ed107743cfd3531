package handlers

import (
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/RoGogDBD/inventory/internal/auth"
	"github.com/RoGogDBD/inventory/internal/logger"
	"github.com/RoGogDBD/inventory/internal/models"
)

// AuthResult - ответ регистрации и входа.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CurrentUser - ответ /auth/me.
type CurrentUser struct {
	User *models.User `json:"user"`
}

// Register создает учетную запись и выпускает токен.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterInput true "Credentials"
// @Success 201 {object} Response{data=AuthResult}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.Normalize()
	if err := h.validator.Struct(in); err != nil {
		writeError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(in.Password, h.opts.BcryptCost)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.DefaultRole,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("user registered", "user_id", user.ID)
	respondData(w, r, http.StatusCreated, AuthResult{Token: token, User: user}, "User registered successfully")
}

// Login проверяет учетные данные и выпускает токен.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginInput true "Credentials"
// @Success 200 {object} Response{data=AuthResult}
// @Failure 401 {object} Response
// @Failure 429 {object} Response
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.opts.Limiter != nil && !h.opts.Limiter.Allow(clientIP(r)) {
		writeError(w, r, errTooManyAttempts)
		return
	}

	var in models.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.Email = models.NormalizeEmail(in.Email)
	if err := h.validator.Struct(in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), in.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		writeError(w, r, errInvalidCredentials)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := auth.CheckPassword(user.PasswordHash, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, errInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, AuthResult{Token: token, User: user}, "")
}

// Me возвращает аутентифицированного пользователя.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=CurrentUser}
// @Failure 401 {object} Response
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, errUnauthorized)
		return
	}
	respondData(w, r, http.StatusOK, CurrentUser{User: user}, "")
}

// clientIP возвращает адрес клиента без порта. RemoteAddr уже исправлен middleware.RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
