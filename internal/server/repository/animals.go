package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
)

// AnimalsRepository реализует доступ к объявлениям (PostgreSQL).
//
// Все изменяющие запросы дополнительно ограничены farmer_id,
// так что чужое объявление не изменится даже при гонке с проверкой владельца.
type AnimalsRepository struct {
	db *sql.DB
}

// NewAnimalsRepository создаёт новый экземпляр AnimalsRepository.
func NewAnimalsRepository(db *sql.DB) *AnimalsRepository {
	return &AnimalsRepository{db: db}
}

const animalColumns = `id, farmer_id, type, breed, age, price, description, images, status, created_at, updated_at`

// Create сохраняет новое объявление со статусом available.
//
// Ошибки:
//   - ErrUnauthorized — farmer_id не существует (foreign_key_violation);
//   - ErrInternal — прочие ошибки БД.
func (r *AnimalsRepository) Create(ctx context.Context, farmerID uuid.UUID, f models.AnimalFields, images []string) (uuid.UUID, error) {
	var id uuid.UUID

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO animals (type, breed, age, price, description, images, farmer_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		f.Type, f.Breed, f.Age, f.Price, f.Description,
		toTextArray(images),
		farmerID,
		models.StatusAvailable,
	).Scan(&id)

	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return uuid.Nil, serr.ErrUnauthorized
		}
		return uuid.Nil, dbErr("create animal", err)
	}
	return id, nil
}

// GetByID возвращает объявление или ErrListingNotFound.
func (r *AnimalsRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Animal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Animal{}, serr.ErrListingNotFound
		}
		return models.Animal{}, dbErr("get animal", err)
	}
	return a, nil
}

// Update перезаписывает поля объявления владельца и возвращает
// изображения, которые были у строки до записи.
//
// images == nil означает «изображения не менять»: COALESCE оставляет прежний массив.
// Прежние изображения читаются под FOR UPDATE в том же запросе, поэтому
// при конкурирующих обновлениях каждый запрос получает именно те файлы,
// которые заменил он сам.
// Если строки с таким id и farmer_id нет — ErrListingNotFound.
func (r *AnimalsRepository) Update(ctx context.Context, id, farmerID uuid.UUID, f models.AnimalFields, images []string) ([]string, error) {
	var old pgtype.TextArray

	err := r.db.QueryRowContext(ctx, `
		UPDATE animals a
		   SET type = $3,
		       breed = $4,
		       age = $5,
		       price = $6,
		       description = $7,
		       images = COALESCE($8::text[], a.images),
		       updated_at = now()
		  FROM (
		        SELECT images
		          FROM animals
		         WHERE id = $1
		           AND farmer_id = $2
		           FOR UPDATE
		       ) old
		 WHERE a.id = $1
		   AND a.farmer_id = $2
		RETURNING old.images
	`,
		id, farmerID,
		f.Type, f.Breed, f.Age, f.Price, f.Description,
		toTextArray(images),
	).Scan(&old)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serr.ErrListingNotFound
		}
		return nil, dbErr("update animal", err)
	}
	return fromTextArray(old), nil
}

// Delete удаляет объявление владельца и возвращает его изображения,
// чтобы их можно было убрать из хранилища.
func (r *AnimalsRepository) Delete(ctx context.Context, id, farmerID uuid.UUID) ([]string, error) {
	var images pgtype.TextArray

	err := r.db.QueryRowContext(ctx, `
		DELETE FROM animals
		 WHERE id = $1
		   AND farmer_id = $2
		RETURNING images
	`, id, farmerID).Scan(&images)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serr.ErrListingNotFound
		}
		return nil, dbErr("delete animal", err)
	}
	return fromTextArray(images), nil
}

// ListByOwner возвращает объявления пользователя в порядке создания.
// Пустой результат — пустой слайс, не nil.
func (r *AnimalsRepository) ListByOwner(ctx context.Context, farmerID uuid.UUID) ([]models.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		  FROM animals
		 WHERE farmer_id = $1
		 ORDER BY created_at, id
	`, farmerID)
	if err != nil {
		return nil, dbErr("list animals", err)
	}
	defer rows.Close()

	result := make([]models.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, dbErr("scan animal", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("iterate animals", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (models.Animal, error) {
	var (
		a      models.Animal
		images pgtype.TextArray
	)
	err := s.Scan(
		&a.ID, &a.FarmerID,
		&a.Type, &a.Breed, &a.Age, &a.Price, &a.Description,
		&images, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return models.Animal{}, err
	}
	a.Images = fromTextArray(images)
	return a, nil
}

// toTextArray: nil -> NULL, пустой слайс -> '{}'.
func toTextArray(values []string) pgtype.TextArray {
	if values == nil {
		return pgtype.TextArray{Status: pgtype.Null}
	}
	var arr pgtype.TextArray
	_ = arr.Set(values)
	return arr
}

func fromTextArray(arr pgtype.TextArray) []string {
	out := make([]string, 0, len(arr.Elements))
	for _, e := range arr.Elements {
		if e.Status == pgtype.Present {
			out = append(out, e.String)
		}
	}
	return out
}
