// Package models содержит модели HTTP API, общие для сервера и CLI-агента.
package models

// Animal — объявление о продаже животного в том виде, в котором его отдаёт API.
//
// Поля:
//   - ID: идентификатор объявления (UUID строкой)
//   - Type: вид животного (cow, sheep, goat ...)
//   - Breed: порода
//   - Age: возраст в годах
//   - Price: цена
//   - Description: описание
//   - Images: ссылки на загруженные изображения (путь на диске или public URL)
//   - Status: статус объявления, при создании "available"
type Animal struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Breed       string   `json:"breed"`
	Age         int      `json:"age"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
}

// UserInfo — публичные данные пользователя, которые возвращает логин.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// RegisterRequest — тело POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Role     string `json:"role,omitempty"`
}

// RegisterResponse — ответ на успешную регистрацию.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginRequest — тело POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse — ответ на успешный логин.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        UserInfo `json:"user"`
}

// MessageResponse — ответ, в котором есть только сообщение (logout, delete).
type MessageResponse struct {
	Message string `json:"message"`
}

// AnimalResponse — ответ на создание/обновление объявления.
//
// Animal содержит id объявления.
type AnimalResponse struct {
	Message string `json:"message"`
	Animal  string `json:"animal"`
}

// ErrorResponse — стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}
