// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// claimsKey — ключ контекста, под которым лежат claims проверенного токена.
const claimsKey ctxKey = "claims"

// TokenVerifier проверяет access-токен: подпись, срок жизни и отзыв.
//
// Ошибки:
//   - crypto.ErrTokenExpired — срок истёк;
//   - обёртка serr.ErrUnauthorized — токен невалиден или отозван;
//   - прочие — внутренняя ошибка (например, недоступен Redis).
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*crypto.Claims, error)
}

// JWTVerifier — middleware аутентификации поверх TokenVerifier.
type JWTVerifier struct {
	tokens TokenVerifier
	log    *logger.HTTPLogger
}

// NewJWTVerifier создаёт JWTVerifier. log может быть nil.
func NewJWTVerifier(tokens TokenVerifier, log *logger.HTTPLogger) *JWTVerifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &JWTVerifier{tokens: tokens, log: log}
}

// WithClaims кладёт claims в контекст.
func WithClaims(ctx context.Context, claims *crypto.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext достаёт claims, сохранённые AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*crypto.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return c, ok && c != nil
}

// IdentityFromContext возвращает пользователя, от имени которого выполняется запрос.
//
// Возвращает false, если запрос не прошёл через AuthMiddleware.
func IdentityFromContext(ctx context.Context) (crypto.Identity, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return crypto.Identity{}, false
	}
	id, err := c.Identity()
	if err != nil {
		return crypto.Identity{}, false
	}
	return id, true
}

// AuthMiddleware возвращает HTTP middleware для проверки access-токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - проверяет токен через TokenVerifier
//   - сохраняет claims в context.Context
//
// Ответы при ошибке (JSON {"error": ...}):
//   - 401 "missing bearer token" / "token expired" / "invalid token";
//   - 500 "internal error", если проверку не удалось выполнить.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := v.tokens.Verify(r.Context(), tokenStr)
			switch {
			case err == nil:
			case errors.Is(err, crypto.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, "token expired")
				return
			case errors.Is(err, serr.ErrUnauthorized):
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			default:
				v.log.Error("verify token failed",
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, serr.ErrInternal.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: msg})
}
