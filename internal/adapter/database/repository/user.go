package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"todoapi/internal/adapter/database"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
)

var userColumns = []string{"id", "uuid", "email", "encrypted_password", "is_active", "created_at", "updated_at"}

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1)

	return ur.getOne(ctx, query)
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		Limit(1)

	return ur.getOne(ctx, query)
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "email", "encrypted_password", "is_active", "created_at", "updated_at").
		Values(user.UUID, user.Email, user.EncryptedPassword, user.IsActive, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id")

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var id int

	if err := ur.db.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	return ur.GetByID(ctx, id)
}

func (ur *UserRepository) getOne(ctx context.Context, query sq.SelectBuilder) (domain.User, error) {
	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var user domain.User

	err = ur.db.QueryRowContext(ctx, stmt, args...).Scan(
		&user.ID,
		&user.UUID,
		&user.Email,
		&user.EncryptedPassword,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		slog.Error("Error getting user", "error", err)
		return domain.User{}, err
	}

	return user, nil
}
