// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверный email или пароль. Одна ошибка на оба случая
	ErrInvalidCredentials = errors.New("invalid email or password")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("email already registered")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// Ресурс принадлежит другому пользователю
	ErrForbidden = errors.New("forbidden")
)

// ErrListingNotFound — объявления нет. errors.Is(err, ErrNotFound) == true.
var ErrListingNotFound = fmt.Errorf("animal %w", ErrNotFound)

// только для загрузок
var (
	// тело запроса больше max_request_bytes
	ErrPayloadTooLarge = errors.New("payload too large")
	// ошибка записи/удаления файла в хранилище изображений
	ErrStorage = errors.New("storage error")
	// создание объявления без изображений
	ErrMissingImages = errors.New("missing data or images")
)

// только для агента
var (
	// объявления нет в локальном кэше
	ErrAnimalNotFound = errors.New("animal not found locally")
)
