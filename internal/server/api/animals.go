package api

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

const (
	// имя multipart-поля с файлами
	imagesField = "images"
	// сколько multipart-данных держим в памяти, остальное во временных файлах
	multipartMemory = 8 << 20
)

// поля формы объявления
var animalFormFields = []string{"type", "breed", "age", "price", "description"}

// форма не multipart или в ней нет обязательных полей
var errMissingData = fmt.Errorf("%w: missing data", serr.ErrInvalidInput)

// CreateAnimal создаёт объявление аутентифицированного пользователя.
//
// Тело — multipart/form-data: поля type, breed, age, price, description
// и хотя бы один файл в поле images.
//
// @Summary      Create animal listing
// @Description  Creates a listing owned by the caller. At least one image is required.
// @Tags         animals
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        type        formData string true "Animal type"
// @Param        breed       formData string true "Breed"
// @Param        age         formData int    true "Age in years"
// @Param        price       formData number true "Price"
// @Param        description formData string true "Description"
// @Param        images      formData file   true "Images (repeatable)"
// @Success      201 {object} models.AnimalResponse
// @Failure      400 {object} models.ErrorResponse "Missing data or images"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      413 {object} models.ErrorResponse "Payload too large"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /api/animals [post]
func (h *Handler) CreateAnimal(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	form, err := h.parseAnimalForm(w, r)
	if err != nil {
		if errors.Is(err, errMissingData) {
			err = serr.ErrMissingImages
		}
		h.fail(w, r, "create animal", err)
		return
	}
	defer form.close()

	if len(form.images) == 0 {
		h.fail(w, r, "create animal", serr.ErrMissingImages)
		return
	}

	id, err := h.Svc.Animals.Create(r.Context(), user.ID, form.input, form.images)
	if err != nil {
		h.fail(w, r, "create animal", err)
		return
	}

	WriteJSON(w, http.StatusCreated, models.AnimalResponse{
		Message: "Animal created successfully",
		Animal:  id.String(),
	})
}

// UpdateAnimal перезаписывает поля объявления.
// Изображения заменяются, только если в запросе есть новые файлы.
//
// @Summary      Update animal listing
// @Description  Overwrites listing fields. Images are replaced only when new files are sent.
// @Tags         animals
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id          path     string true  "Animal ID"
// @Param        type        formData string true  "Animal type"
// @Param        breed       formData string true  "Breed"
// @Param        age         formData int    true  "Age in years"
// @Param        price       formData number true  "Price"
// @Param        description formData string true  "Description"
// @Param        images      formData file   false "New images (replace existing)"
// @Success      200 {object} models.AnimalResponse
// @Failure      400 {object} models.ErrorResponse "Missing data"
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      403 {object} models.ErrorResponse "Not the owner"
// @Failure      404 {object} models.ErrorResponse "Animal not found"
// @Failure      413 {object} models.ErrorResponse "Payload too large"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /api/animals/{id} [put]
func (h *Handler) UpdateAnimal(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.ownerRequest(w, r)
	if !ok {
		return
	}

	form, err := h.parseAnimalForm(w, r)
	if err != nil {
		h.fail(w, r, "update animal", err)
		return
	}
	defer form.close()

	if err := h.Svc.Animals.Update(r.Context(), id, user.ID, form.input, form.images); err != nil {
		h.fail(w, r, "update animal", err)
		return
	}

	WriteJSON(w, http.StatusOK, models.AnimalResponse{
		Message: "Animal updated successfully",
		Animal:  id.String(),
	})
}

// DeleteAnimal удаляет объявление владельца.
//
// @Summary      Delete animal listing
// @Tags         animals
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Animal ID"
// @Success      200 {object} models.MessageResponse
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      403 {object} models.ErrorResponse "Not the owner"
// @Failure      404 {object} models.ErrorResponse "Animal not found"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /api/animals/{id} [delete]
func (h *Handler) DeleteAnimal(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.ownerRequest(w, r)
	if !ok {
		return
	}

	if err := h.Svc.Animals.Delete(r.Context(), id, user.ID); err != nil {
		h.fail(w, r, "delete animal", err)
		return
	}

	WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Animal deleted successfully"})
}

// ListAnimals возвращает объявления вызывающего пользователя.
//
// @Summary      List own animal listings
// @Tags         animals
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array}  models.Animal
// @Failure      401 {object} models.ErrorResponse "Unauthorized"
// @Failure      500 {object} models.ErrorResponse "Internal server error"
// @Router       /api/animals [get]
func (h *Handler) ListAnimals(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	list, err := h.Svc.Animals.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, "list animals", err)
		return
	}

	resp := make([]models.Animal, 0, len(list))
	for _, a := range list {
		resp = append(resp, a.ToAPI())
	}
	WriteJSON(w, http.StatusOK, resp)
}

// ownerRequest достаёт пользователя и id объявления из пути.
// Id, который не является UUID, не может существовать: отвечаем 404.
func (h *Handler) ownerRequest(w http.ResponseWriter, r *http.Request) (crypto.Identity, uuid.UUID, bool) {
	user, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return crypto.Identity{}, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusNotFound, serr.ErrListingNotFound)
		return crypto.Identity{}, uuid.Nil, false
	}
	return user, id, true
}

// animalForm — разобранная multipart-форма объявления.
type animalForm struct {
	input  service.AnimalInput
	images []service.ImageUpload
	files  []multipart.File
	mf     *multipart.Form
}

func (f *animalForm) close() {
	for _, file := range f.files {
		_ = file.Close()
	}
	if f.mf != nil {
		_ = f.mf.RemoveAll()
	}
}

// parseAnimalForm разбирает multipart-запрос с ограничением размера.
//
// Ошибки:
//   - ErrPayloadTooLarge — тело больше MaxRequestBytes;
//   - ErrInvalidInput — не multipart, нет полей или age/price не числа.
func (h *Handler) parseAnimalForm(w http.ResponseWriter, r *http.Request) (*animalForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxRequestBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, serr.ErrPayloadTooLarge
		}
		return nil, errMissingData
	}

	form := &animalForm{mf: r.MultipartForm}

	values := make(map[string]string, len(animalFormFields))
	for _, name := range animalFormFields {
		v, ok := r.MultipartForm.Value[name]
		if !ok || len(v) == 0 {
			form.close()
			return nil, errMissingData
		}
		values[name] = strings.TrimSpace(v[0])
	}

	age, err := strconv.Atoi(values["age"])
	if err != nil {
		form.close()
		return nil, fmt.Errorf("%w: age must be an integer", serr.ErrInvalidInput)
	}
	price, err := strconv.ParseFloat(values["price"], 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		form.close()
		return nil, fmt.Errorf("%w: price must be a number", serr.ErrInvalidInput)
	}

	form.input = service.AnimalInput{
		Type:        values["type"],
		Breed:       values["breed"],
		Age:         age,
		Price:       price,
		Description: values["description"],
	}

	for _, fh := range r.MultipartForm.File[imagesField] {
		file, err := fh.Open()
		if err != nil {
			form.close()
			return nil, fmt.Errorf("%w: open upload: %v", serr.ErrInternal, err)
		}
		form.files = append(form.files, file)
		form.images = append(form.images, service.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        file,
		})
	}
	return form, nil
}
