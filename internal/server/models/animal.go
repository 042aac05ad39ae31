package models

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// Статус нового объявления
const StatusAvailable = "available"

// AnimalFields — поля объявления, которые задаёт владелец при создании и обновлении.
type AnimalFields struct {
	Type        string
	Breed       string
	Age         int
	Price       float64
	Description string
}

// Animal — объявление в том виде, в котором оно лежит в БД.
type Animal struct {
	ID       uuid.UUID
	FarmerID uuid.UUID
	AnimalFields
	Images    []string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy сообщает, принадлежит ли объявление пользователю.
func (a Animal) OwnedBy(userID uuid.UUID) bool {
	return a.FarmerID == userID
}

// ToAPI проецирует объявление в ответ API (без farmer_id и временных меток).
func (a Animal) ToAPI() shared.Animal {
	images := a.Images
	if images == nil {
		images = []string{}
	}
	return shared.Animal{
		ID:          a.ID.String(),
		Type:        a.Type,
		Breed:       a.Breed,
		Age:         a.Age,
		Price:       a.Price,
		Description: a.Description,
		Images:      images,
		Status:      a.Status,
	}
}
