// HTTP-хендлеры регистрации, логина и выхода
package api

import (
	"encoding/json"
	"net/http"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// Register обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 201 Created: регистрация успешна;
//   - 400 Bad Request: неверный JSON, невалидные данные или email уже занят;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Register user
// @Description  Creates a user account. Role is buyer by default.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.RegisterRequest true "Register request"
// @Success      201 {object} models.RegisterResponse
// @Failure      400 {object} models.ErrorResponse "Invalid input, bad JSON or email already registered"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.MaxJSONBytes)).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	id, err := h.Svc.Auth.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Location: req.Location,
		Role:     req.Role,
	})
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	WriteJSON(w, http.StatusCreated, models.RegisterResponse{
		Message: "User registered successfully",
		UserID:  id.String(),
	})
}

// Login обрабатывает вход пользователя и выдачу access токена.
//
// Ответы:
//   - 200 OK: успешный вход;
//   - 400 Bad Request: неверный JSON или пустые поля;
//   - 401 Unauthorized: неверные учётные данные;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Login
// @Description  Authenticates by email and password and returns an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.LoginRequest true "Login request"
// @Success      200 {object} models.LoginResponse
// @Failure      400 {object} models.ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} models.ErrorResponse "Invalid email or password"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.MaxJSONBytes)).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	res, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	WriteJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: res.AccessToken,
		User: models.UserInfo{
			ID:    res.User.ID.String(),
			Email: res.User.Email,
			Name:  res.User.Name,
			Role:  res.User.Role,
		},
	})
}

// Logout завершает сессию. Если включён отзыв токенов, токен перестаёт приниматься сразу.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.MessageResponse
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	if err := h.Svc.Auth.Logout(r.Context(), claims); err != nil {
		h.fail(w, r, "logout", err)
		return
	}

	WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}
