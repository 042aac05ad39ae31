// Серверные модели пользователя и объявления
package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей
const (
	RoleBuyer  = "buyer"
	RoleFarmer = "farmer"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	Location     *string
	Role         string
	CreatedAt    time.Time
}
