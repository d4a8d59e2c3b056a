package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightcatalog/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

const userColumns = `id, username, email, password_hash, display_name, birth_date, phone`

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM app_user WHERE username=$1`, username)
	var u domain.User
	var phone *string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.BirthDate, &phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if phone != nil {
		u.Phone = *phone
	}
	return &u, nil
}

func (r *PGUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM app_user WHERE username=$1)`, username).Scan(&exists)
	return exists, err
}

func (r *PGUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM app_user WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (r *PGUserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO app_user (id, username, email, password_hash, display_name, birth_date, phone)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.DisplayName, u.BirthDate, u.Phone)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PGUserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM app_user ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		var phone *string
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DisplayName, &u.BirthDate, &phone); err != nil {
			return nil, err
		}
		if phone != nil {
			u.Phone = *phone
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ UserRepository = (*PGUserRepository)(nil)
