package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/RoGogDBD/inventory/internal/logger"
	"github.com/RoGogDBD/inventory/internal/models"
)

type ctxKey struct{}

// UserLookup находит пользователя по идентификатору из токена.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// WithUser кладет пользователя в контекст.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext возвращает аутентифицированного пользователя.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}

// BearerToken извлекает токен из заголовка Authorization: Bearer <token>.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Middleware пропускает запрос дальше только с действительным токеном существующего пользователя.
// При отказе вызывается unauthorized; при сбое хранилища - internal.
func Middleware(tokens *TokenManager, users UserLookup, unauthorized, internal func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w, r)
				return
			}
			userID, err := tokens.Parse(token)
			if err != nil {
				log.Debug("rejected token", "path", r.URL.Path, "error", err)
				unauthorized(w, r)
				return
			}
			user, err := users.GetUserByID(r.Context(), userID)
			if errors.Is(err, models.ErrUserNotFound) {
				log.Warn("token for unknown user", "user_id", userID)
				unauthorized(w, r)
				return
			}
			if err != nil {
				log.Error("failed to load user for token", "user_id", userID, "error", err)
				internal(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
