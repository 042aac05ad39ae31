// Package crypto содержит криптографические примитивы сервера.
//
// В частности, пакет отвечает за:
//   - генерацию, подпись и проверку JWT access-токенов;
//   - хэширование и проверку паролей (argon2id, bcrypt).
package crypto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
)

// ErrTokenExpired — токен подписан верно, но срок его жизни истёк.
var ErrTokenExpired = fmt.Errorf("%w: token expired", serr.ErrUnauthorized)

// JWTConfig описывает параметры генерации и проверки JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// Identity — кто сделал запрос. Восстанавливается из токена на каждом запросе.
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  string
}

// Claims — содержимое access-токена: данные пользователя и стандартные поля.
//
// jti (RegisteredClaims.ID) уникален для каждого токена и нужен для отзыва при logout.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity возвращает данные пользователя из claims.
func (c *Claims) Identity() (Identity, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Identity{}, serr.ErrUnauthorized
	}
	return Identity{ID: id, Email: c.Email, Name: c.Name, Role: c.Role}, nil
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит id, email, name, role и стандартные RegisteredClaims:
// iss, aud, sub (id пользователя), iat, exp, jti.
// Используется алгоритм подписи HS256.
func NewAccessToken(user Identity, cfg JWTConfig) (string, *Claims, error) {
	now := time.Now()

	claims := &Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Audience:  []string{cfg.Audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(cfg.SigningKey))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseAccessToken проверяет подпись, срок жизни, issuer и audience токена.
//
// Любая проблема с токеном возвращается как ошибка, оборачивающая serr.ErrUnauthorized.
// Для истёкшего токена возвращается ErrTokenExpired.
func ParseAccessToken(tokenStr string, cfg JWTConfig) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &Claims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: invalid token", serr.ErrUnauthorized)
	}

	if strings.TrimSpace(claims.Subject) == "" || claims.Subject != claims.UserID {
		return nil, fmt.Errorf("%w: invalid token subject", serr.ErrUnauthorized)
	}
	return claims, nil
}
