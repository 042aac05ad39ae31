package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// AnimalForm — поля объявления и пути к локальным файлам изображений.
type AnimalForm struct {
	Type        string
	Breed       string
	Age         int
	Price       float64
	Description string
	Images      []string
}

// ListAnimals возвращает объявления текущего пользователя.
func (c *Client) ListAnimals(ctx context.Context, accessToken string) ([]models.Animal, error) {
	resp := make([]models.Animal, 0)
	err := c.GetJSON(ctx, "/api/animals", &resp, accessToken)
	return resp, err
}

// CreateAnimal отправляет объявление multipart-формой: POST /api/animals.
func (c *Client) CreateAnimal(ctx context.Context, accessToken string, form AnimalForm) (models.AnimalResponse, error) {
	var resp models.AnimalResponse
	err := c.sendForm(ctx, http.MethodPost, "/api/animals", form, &resp, accessToken)
	return resp, err
}

// UpdateAnimal перезаписывает объявление: PUT /api/animals/{id}.
// Без form.Images сервер оставляет прежние изображения.
func (c *Client) UpdateAnimal(ctx context.Context, accessToken, id string, form AnimalForm) (models.AnimalResponse, error) {
	var resp models.AnimalResponse
	err := c.sendForm(ctx, http.MethodPut, "/api/animals/"+url.PathEscape(id), form, &resp, accessToken)
	return resp, err
}

// DeleteAnimal удаляет объявление: DELETE /api/animals/{id}.
func (c *Client) DeleteAnimal(ctx context.Context, accessToken, id string) (models.MessageResponse, error) {
	var resp models.MessageResponse
	err := c.DeleteJSON(ctx, "/api/animals/"+url.PathEscape(id), &resp, accessToken)
	return resp, err
}

func (c *Client) sendForm(ctx context.Context, method, path string, form AnimalForm, resp any, accessToken string) error {
	body, contentType, err := encodeForm(form)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, body, contentType, resp, accessToken)
}

// encodeForm собирает multipart/form-data в памяти.
func encodeForm(form AnimalForm) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"type", form.Type},
		{"breed", form.Breed},
		{"age", strconv.Itoa(form.Age)},
		{"price", strconv.FormatFloat(form.Price, 'f', -1, 64)},
		{"description", form.Description},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	for _, path := range form.Images {
		if err := attachFile(mw, path); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func attachFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("images", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read image %s: %w", path, err)
	}
	return nil
}
