package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/logger"
	validatorx "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/validator"
)

// максимум одновременных загрузок в хранилище на один запрос
const uploadConcurrency = 4

// AnimalsService реализует бизнес-логику работы с объявлениями.
// Сервис:
//   - валидирует входные данные;
//   - проверяет владельца объявления до любой записи;
//   - сохраняет изображения в ImageSink и убирает те, что больше не нужны;
//   - не знает о HTTP и БД напрямую.
type AnimalsService struct {
	repo AnimalsRepo
	sink ImageSink
	log  *logger.HTTPLogger
}

// AnimalInput — поля объявления от владельца.
type AnimalInput struct {
	Type        string  `json:"type" validate:"notblank,max=50"`
	Breed       string  `json:"breed" validate:"notblank,max=50"`
	Age         int     `json:"age" validate:"gte=0,lte=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"notblank"`
}

// ImageUpload — один загруженный файл.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// NewAnimalsService создаёт новый AnimalsService.
func NewAnimalsService(repo AnimalsRepo, sink ImageSink, log *logger.HTTPLogger) *AnimalsService {
	if log == nil {
		log = logger.NewNop()
	}
	return &AnimalsService{repo: repo, sink: sink, log: log}
}

func (in AnimalInput) fields() (models.AnimalFields, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Description = strings.TrimSpace(in.Description)

	if err := validatorx.ValidateStruct(in); err != nil {
		return models.AnimalFields{}, fmt.Errorf("%w: %s", serr.ErrInvalidInput, validatorx.Message(err))
	}
	return models.AnimalFields{
		Type:        in.Type,
		Breed:       in.Breed,
		Age:         in.Age,
		Price:       in.Price,
		Description: in.Description,
	}, nil
}

// Create создаёт объявление со статусом available.
//
// Нужно хотя бы одно изображение. Если запись в БД не удалась,
// уже сохранённые файлы удаляются.
//
// Ошибки:
//   - ErrInvalidInput — невалидные поля;
//   - ErrMissingImages — нет изображений;
//   - ErrStorage — не удалось сохранить файл;
//   - ErrInternal — ошибка хранилища.
func (s *AnimalsService) Create(ctx context.Context, farmerID uuid.UUID, in AnimalInput, images []ImageUpload) (uuid.UUID, error) {
	if len(images) == 0 {
		return uuid.Nil, serr.ErrMissingImages
	}
	f, err := in.fields()
	if err != nil {
		return uuid.Nil, err
	}

	refs, err := s.storeAll(ctx, images)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.Create(ctx, farmerID, f, refs)
	if err != nil {
		s.removeAll(ctx, refs)
		return uuid.Nil, err
	}
	return id, nil
}

// Update перезаписывает поля объявления.
//
// Изображения заменяются только если пришли новые, старые файлы при этом удаляются.
// Порядок проверок: поля (400), существование (404), владелец (403).
func (s *AnimalsService) Update(ctx context.Context, id, requesterID uuid.UUID, in AnimalInput, images []ImageUpload) error {
	f, err := in.fields()
	if err != nil {
		return err
	}

	if _, err := s.owned(ctx, id, requesterID); err != nil {
		return err
	}

	var refs []string
	if len(images) > 0 {
		if refs, err = s.storeAll(ctx, images); err != nil {
			return err
		}
	}

	replaced, err := s.repo.Update(ctx, id, requesterID, f, refs)
	if err != nil {
		s.removeAll(ctx, refs)
		return err
	}

	// только изображения, заменённые этой записью
	if refs != nil {
		s.removeAll(ctx, replaced)
	}
	return nil
}

// Delete удаляет объявление владельца вместе с его изображениями.
func (s *AnimalsService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	if _, err := s.owned(ctx, id, requesterID); err != nil {
		return err
	}

	images, err := s.repo.Delete(ctx, id, requesterID)
	if err != nil {
		return err
	}
	s.removeAll(ctx, images)
	return nil
}

// ListByOwner возвращает объявления пользователя.
func (s *AnimalsService) ListByOwner(ctx context.Context, requesterID uuid.UUID) ([]models.Animal, error) {
	list, err := s.repo.ListByOwner(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Animal{}
	}
	return list, nil
}

// owned загружает объявление и проверяет, что им владеет requesterID.
func (s *AnimalsService) owned(ctx context.Context, id, requesterID uuid.UUID) (models.Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Animal{}, err
	}
	if !a.OwnedBy(requesterID) {
		return models.Animal{}, serr.ErrForbidden
	}
	return a, nil
}

// storeAll сохраняет файлы параллельно, порядок ссылок совпадает с порядком файлов.
// При ошибке уже сохранённые файлы удаляются.
func (s *AnimalsService) storeAll(ctx context.Context, images []ImageUpload) ([]string, error) {
	refs := make([]string, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, img := range images {
		g.Go(func() error {
			ref, err := s.sink.Store(gctx, img.Filename, img.ContentType, img.Body)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		stored := make([]string, 0, len(refs))
		for _, r := range refs {
			if r != "" {
				stored = append(stored, r)
			}
		}
		s.removeAll(ctx, stored)
		return nil, err
	}
	return refs, nil
}

// removeAll удаляет файлы, ошибки только логируются.
func (s *AnimalsService) removeAll(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.sink.Remove(context.WithoutCancel(ctx), ref); err != nil {
			s.log.Warn("failed to remove image", zap.String("ref", ref), zap.Error(err))
		}
	}
}
