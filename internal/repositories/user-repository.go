package repositories

import (
	"context"
	"errors"
	"fmt"

	"inspection-system/internal/entities"
	apperrors "inspection-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userTable = "users"

var userFields = []string{"id::text", "username", "password_hash", "cargo", "role", "created_at"}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Create(ctx context.Context, u entities.User) (string, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

type userRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &userRepository{storage: storage}
}

func (r *userRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	query, args, err := psql().Select(userFields...).From(userTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao montar consulta de usuário: %w", err)
	}
	var u entities.User
	err = r.storage.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Cargo, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("erro ao ler users: %w", err)
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"username": username})
}

func (r *userRepository) Create(ctx context.Context, u entities.User) (string, error) {
	query, args, err := psql().Insert(userTable).
		Columns("username", "password_hash", "cargo", "role").
		Values(u.Username, u.PasswordHash, u.Cargo, u.Role).
		Suffix("RETURNING id::text").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao montar Create: %w", err)
	}
	var id string
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return "", fmt.Errorf("usuário %s: %w", u.Username, apperrors.ErrConflict)
		}
		return "", fmt.Errorf("erro ao criar usuário: %w", err)
	}
	return id, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int, error) {
	query, args, err := psql().Select("COUNT(*)").From(userTable).Where(sq.Eq{"role": role}).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = r.storage.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}
