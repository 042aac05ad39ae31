package api

import (
	"context"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// Register регистрирует пользователя: POST /api/auth/register.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	var resp models.RegisterResponse
	err := c.PostJSON(ctx, "/api/auth/register", req, &resp, "")
	return resp, err
}

// Login выполняет вход и возвращает access токен вместе с данными пользователя.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.PostJSON(ctx, "/api/auth/login", models.LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Logout сообщает серверу о выходе. Если на сервере включён отзыв токенов,
// accessToken после этого перестаёт приниматься.
func (c *Client) Logout(ctx context.Context, accessToken string) (models.MessageResponse, error) {
	var resp models.MessageResponse
	err := c.PostJSON(ctx, "/api/auth/logout", nil, &resp, accessToken)
	return resp, err
}
