// Package service содержит бизнес-логику приложения (livestock market).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/models"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/logger"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
//
// Revoked может быть nil: тогда logout не отзывает токены.
type Repositories struct {
	Users   UsersRepo
	Animals AnimalsRepo
	Revoked TokenRevoker
	Health  []HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth    *AuthService
	Animals *AnimalsService
	Health  *HealthService
}

// NewServices собирает все сервисы приложения.
func NewServices(repos Repositories, sink ImageSink, cfg *config.Config, log *logger.HTTPLogger) *Services {
	return &Services{
		Auth:    NewAuthService(repos.Users, repos.Revoked, cfg),
		Animals: NewAnimalsService(repos.Animals, sink, log),
		Health:  NewHealthService(repos.Health...),
	}
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей (нужен для auth/register/login).
type UsersRepo interface {
	Create(ctx context.Context, u models.User) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// AnimalsRepo — репозиторий объявлений.
//
// Update и Delete ограничены farmer_id: если строки нет, возвращается ErrListingNotFound.
// images == nil в Update означает «оставить прежние».
// Update возвращает изображения, которые были у строки до этой записи.
type AnimalsRepo interface {
	Create(ctx context.Context, farmerID uuid.UUID, f models.AnimalFields, images []string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Animal, error)
	Update(ctx context.Context, id, farmerID uuid.UUID, f models.AnimalFields, images []string) ([]string, error)
	Delete(ctx context.Context, id, farmerID uuid.UUID) ([]string, error)
	ListByOwner(ctx context.Context, farmerID uuid.UUID) ([]models.Animal, error)
}

// TokenRevoker — хранилище отозванных access-токенов.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ImageSink — хранилище изображений (реализации в internal/server/storage).
type ImageSink interface {
	Store(ctx context.Context, originalName, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}
