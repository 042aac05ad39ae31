package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/utils"
	validatorx "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/validator"
)

// AuthService реализует бизнес-логику аутентификации.
//
// Ответственность:
//   - регистрация пользователей
//   - аутентификация (логин) и выпуск access токена
//   - проверка токена и его отзыв при logout (если включено)
type AuthService struct {
	users   UsersRepo
	revoked TokenRevoker

	hasher *crypto.PasswordHasher
	jwt    crypto.JWTConfig
}

// RegisterInput — данные для регистрации.
type RegisterInput struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"notblank,max=256"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Location string `json:"location" validate:"omitempty,max=500"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer farmer"`
}

// LoginResult — результат успешного логина.
type LoginResult struct {
	AccessToken string
	User        crypto.Identity
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
// revoked == nil выключает отзыв токенов.
func NewAuthService(users UsersRepo, revoked TokenRevoker, cfg *config.Config) *AuthService {
	return &AuthService{
		users:   users,
		revoked: revoked,

		hasher: crypto.NewPasswordHasher(
			cfg.Password.Hasher,
			crypto.Argon2Params{
				Time:      cfg.Password.Argon2.Time,
				MemoryKiB: cfg.Password.Argon2.MemoryKiB,
				Threads:   cfg.Password.Argon2.Threads,
				KeyLen:    cfg.Password.Argon2.KeyLen,
				SaltLen:   cfg.Password.Argon2.SaltLen,
			},
			cfg.Password.Bcrypt.Cost,
		),
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},
	}
}

// Register регистрирует нового пользователя.
//
// Валидация:
//   - name, email, password обязательны
//   - email в корректном формате
//   - role: buyer (по умолчанию) или farmer
//
// Возвращает:
//   - id пользователя
//   - ErrInvalidInput при некорректных данных или ErrAlreadyExists если email уже зарегистрирован
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = utils.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Location = strings.TrimSpace(in.Location)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	if err := validatorx.ValidateStruct(in); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", serr.ErrInvalidInput, validatorx.Message(err))
	}
	if in.Role == "" {
		in.Role = models.RoleBuyer
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
	}

	u := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if in.Phone != "" {
		u.Phone = utils.StrPtr(in.Phone)
	}
	if in.Location != "" {
		u.Location = utils.StrPtr(in.Location)
	}
	return s.users.Create(ctx, u)
}

// Login аутентифицирует пользователя и выдаёт access токен.
//
// Поведение:
//   - не раскрывает факт существования email: и неизвестный email, и неверный пароль
//     дают ErrInvalidCredentials, а время ответа выравнивается проверкой фиктивного хэша
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, serr.ErrInvalidInput
	}
	// получаем юзера по email
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			s.hasher.VerifyDummy(password)
			return LoginResult{}, serr.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	// проверяем пароль
	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: verify password: %v", serr.ErrInternal, err)
	}
	if !ok {
		return LoginResult{}, serr.ErrInvalidCredentials
	}

	identity := crypto.Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
	access, _, err := crypto.NewAccessToken(identity, s.jwt)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: sign token: %v", serr.ErrInternal, err)
	}
	return LoginResult{AccessToken: access, User: identity}, nil
}

// Verify проверяет access токен: подпись, срок, issuer/audience и, если включено, отзыв.
func (s *AuthService) Verify(ctx context.Context, token string) (*crypto.Claims, error) {
	claims, err := crypto.ParseAccessToken(token, s.jwt)
	if err != nil {
		return nil, err
	}
	if s.revoked == nil {
		return claims, nil
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", serr.ErrUnauthorized)
	}
	return claims, nil
}

// Logout завершает сессию.
//
// Без хранилища отзыва токен продолжает жить до exp, клиент просто его забывает.
// С хранилищем jti помечается отозванным на оставшееся время жизни токена.
func (s *AuthService) Logout(ctx context.Context, claims *crypto.Claims) error {
	if s.revoked == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// RevocationEnabled сообщает, отзываются ли токены при logout.
func (s *AuthService) RevocationEnabled() bool {
	return s.revoked != nil
}
