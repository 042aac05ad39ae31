// Package api содержит HTTP-клиент CLI-агента для сервера Livestock Market.
//
// Клиент знает базовый URL сервера и отправляет JSON и multipart-запросы
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/");
//   - всегда отправляется Accept: application/json;
//   - пустое тело ответа и 204 No Content считаются успехом;
//   - ответ не 2xx превращается в *Error: статус и текст из {"error": "..."}
//     (если тела нет, используется res.Status).
//
// ВНИМАНИЕ: NewClient с insecure=true отключает проверку TLS-сертификата.
// Это допустимо только для локальной разработки с самоподписанным сертификатом.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

const defaultTimeout = 30 * time.Second

// Client реализует HTTP-клиент для общения с сервером.
type Client struct {
	baseURL string
	http    *http.Client
}

// Error — ошибка, которую вернул сервер.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// StatusOf возвращает HTTP-статус из ошибки сервера или 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// NewClient создаёт клиент с таймаутом 30 секунд.
func NewClient(baseURL string, insecure bool) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: tr,
		},
	}
}

// readAPIError читает тело ошибочного ответа.
//
// Если тело — {"error": "..."}, берётся сообщение, иначе текст целиком.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var body models.ErrorResponse
	msg := ""
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	} else {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = res.Status
	}
	return &Error{Status: res.StatusCode, Message: msg}
}

// decodeJSONOrOK декодирует JSON в resp. Пустое тело не ошибка.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do отправляет запрос и разбирает ответ.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, resp any, authToken string) error {
	r, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}
	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSONOrOK(res.Body, resp)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, req, resp any, authToken string) error {
	if req == nil {
		return c.do(ctx, method, path, nil, "", resp, authToken)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return err
	}
	return c.do(ctx, method, path, &buf, "application/json", resp, authToken)
}

// PostJSON выполняет POST с JSON-телом (req == nil — без тела).
func (c *Client) PostJSON(ctx context.Context, path string, req, resp any, authToken string) error {
	return c.sendJSON(ctx, http.MethodPost, path, req, resp, authToken)
}

// GetJSON выполняет GET и декодирует JSON-ответ в resp.
func (c *Client) GetJSON(ctx context.Context, path string, resp any, authToken string) error {
	return c.do(ctx, http.MethodGet, path, nil, "", resp, authToken)
}

// DeleteJSON выполняет DELETE и декодирует JSON-ответ в resp.
func (c *Client) DeleteJSON(ctx context.Context, path string, resp any, authToken string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", resp, authToken)
}
