// Package api реализует HTTP-слой сервера livestock market.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - разбор multipart-форм объявлений с изображениями;
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
//
// Маршруты регистрируются в internal/server/net/http.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// лимиты тела запроса по умолчанию
const (
	defaultMaxRequestBytes int64 = 32 << 20
	defaultMaxJSONBytes    int64 = 1 << 20
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации;
//   - MaxRequestBytes: лимит тела multipart-запроса с изображениями;
//   - MaxJSONBytes: лимит JSON-тела auth-запросов.
//
// Методы Handler используются роутером для обработки HTTP-запросов.
type Handler struct {
	Svc             *service.Services
	Log             *logger.HTTPLogger
	Verifier        *middleware.JWTVerifier
	MaxRequestBytes int64
	MaxJSONBytes    int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// svc — набор сервисов приложения,
// log — логгер,
// verifier — JWT-проверка и middleware авторизации,
// maxRequestBytes — лимит multipart-запроса (0 — 32 MiB).
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier, maxRequestBytes int64) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if maxRequestBytes <= 0 {
		maxRequestBytes = defaultMaxRequestBytes
	}
	return &Handler{
		Svc:             svc,
		Log:             log,
		Verifier:        verifier,
		MaxRequestBytes: maxRequestBytes,
		MaxJSONBytes:    defaultMaxJSONBytes,
	}
}

// WriteJSON пишет v как JSON с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteJSON(w, status, models.ErrorResponse{Error: err.Error()})
}

// StatusFor возвращает HTTP-статус для доменной ошибки.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, serr.ErrBadJSON),
		errors.Is(err, serr.ErrInvalidInput),
		errors.Is(err, serr.ErrAlreadyExists),
		errors.Is(err, serr.ErrMissingImages):
		return http.StatusBadRequest
	case errors.Is(err, serr.ErrInvalidCredentials),
		errors.Is(err, serr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, serr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, serr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serr.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// fail пишет ошибку клиенту.
// Для 5xx детали уходят только в лог, клиент видит "internal error".
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error(op+" failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		WriteError(w, status, serr.ErrInternal)
		return
	}
	WriteError(w, status, err)
}
