package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/dberrors"
)

var userColumns = []string{
	"id", "username", "name", "email", "password_hash", "auth_provider",
	"profile_photo", "summary", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *db.PostgresDB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{db: database}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &u.AuthProvider,
		&u.ProfilePhoto, &u.Summary, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Duplicate usernames or emails yield a Conflict error.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Username, user.Name, user.Email, user.PasswordHash, user.AuthProvider,
			user.ProfilePhoto, user.Summary, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "uq_users_username"):
			return apperrors.NewConflictError("Username is already taken")
		case dberrors.IsDuplicateConstraintError(err, "uq_users_email"):
			return apperrors.NewConflictError("Email is already registered")
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	user, err := scanUser(r.db.Querier(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByUsername retrieves a user by username, ignoring case
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Expr("lower(username) = ?", strings.ToLower(username)))
}

// FindByEmailOrUsername retrieves a user by either login identifier, ignoring case
func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	value := strings.ToLower(strings.TrimSpace(identifier))
	return r.findOne(ctx, squirrel.Or{
		squirrel.Expr("lower(email) = ?", value),
		squirrel.Expr("lower(username) = ?", value),
	})
}

// FindByIDs retrieves the users with the given ids; missing ids are simply absent
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	users := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	sql, args, err := psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		users[user.ID] = user
	}
	return users, rows.Err()
}
