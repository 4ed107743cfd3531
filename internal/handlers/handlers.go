// Package handlers содержит HTTP-обработчики API.
package handlers

import (
	"context"
	"net/http"

	"github.com/RoGogDBD/inventory/internal/auth"
	"github.com/RoGogDBD/inventory/internal/logger"
	"github.com/RoGogDBD/inventory/internal/models"
	"github.com/RoGogDBD/inventory/internal/repository"
	"github.com/RoGogDBD/inventory/internal/telemetry"
	"github.com/RoGogDBD/inventory/internal/validation"
)

// EventPublisher публикует события об изменении позиций.
type EventPublisher interface {
	Publish(ctx context.Context, ev models.ItemEvent) error
}

// Options содержит необязательные зависимости Handler.
type Options struct {
	Limiter     *auth.LoginLimiter
	Events      EventPublisher
	Metrics     *telemetry.Metrics
	MaxPageSize int
	BcryptCost  int
}

type Handler struct {
	items     repository.ItemStore
	users     repository.UserStore
	cache     repository.ItemCache
	tokens    *auth.TokenManager
	validator *validation.Validator
	opts      Options
}

func NewHandler(items repository.ItemStore, users repository.UserStore, cache repository.ItemCache, tokens *auth.TokenManager, opts Options) *Handler {
	if cache == nil {
		cache = repository.NoopCache{}
	}
	return &Handler{
		items:     items,
		users:     users,
		cache:     cache,
		tokens:    tokens,
		validator: validation.New(),
		opts:      opts,
	}
}

// RequireAuth пропускает только запросы с действительным bearer-токеном.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return auth.Middleware(h.tokens, h.users,
		func(w http.ResponseWriter, r *http.Request) { writeError(w, r, errUnauthorized) },
		func(w http.ResponseWriter, r *http.Request) { writeError(w, r, errInternal) },
	)(next)
}

// HealthHandler возвращает статус 200 OK и тело "OK" для проверки состояния сервера.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ReadyHandler проверяет доступность хранилища.
func (h *Handler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Ping(r.Context()); err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NotFoundHandler отвечает конвертом NOT_FOUND на неизвестные маршруты.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "Route not found"})
}

func (h *Handler) publish(ctx context.Context, ev models.ItemEvent) {
	if h.opts.Events == nil {
		return
	}
	if err := h.opts.Events.Publish(ctx, ev); err != nil {
		// событие теряется, запрос уже выполнен
		logger.FromContext(ctx).Warn("failed to publish item event", "type", ev.Type, "item_id", ev.Item.ID, "error", err)
	}
}
