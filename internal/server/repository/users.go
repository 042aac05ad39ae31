// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
)

// коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func dbErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", serr.ErrInternal, op, err)
}

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет пользователя. Email должен быть уже нормализован.
//
// Ошибки:
//   - ErrAlreadyExists, если email занят (unique_violation)
//   - ErrInternal при других ошибках БД
func (r *UsersRepository) Create(ctx context.Context, u models.User) (uuid.UUID, error) {
	var id uuid.UUID

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, phone, location, role)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.Phone, u.Location, u.Role,
	).Scan(&id)

	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return uuid.Nil, serr.ErrAlreadyExists
		}
		return uuid.Nil, dbErr("create user", err)
	}

	return id, nil
}

// GetByEmail возвращает пользователя по email или ErrNotFound.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u        models.User
		phone    sql.NullString
		location sql.NullString
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, phone, location, role, created_at
		   FROM users
		  WHERE email=$1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &phone, &location, &u.Role, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, dbErr("get user", err)
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if location.Valid {
		u.Location = &location.String
	}
	return u, nil
}
