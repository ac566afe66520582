package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
)

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("user_uid", "username", "email", "password_hash", "role").
		Values(uuid.New(), user.Username, user.Email, user.PasswordHash, user.Role).
		Suffix("returning id, user_uid, username, email, password_hash, role").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := sqlx.GetContext(ctx, r.ext(ctx), &created, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && isUniqueViolation(err) {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return model.User{}, errs.ErrEmailTaken
			}
			return model.User{}, errs.ErrUsernameTaken
		}
		r.log.Error("CreateUser", zap.String("q", query))
		return model.User{}, errors.Wrap(err, "create user")
	}

	return created, nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"username": username})
}

func (r *repository) getUser(ctx context.Context, pred sq.Eq) (model.User, error) {
	query, args, err := qb.Select("id", "user_uid", "username", "email", "password_hash", "role").
		From(usersTableName).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := sqlx.GetContext(ctx, r.ext(ctx), &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, err
	}

	return user, nil
}
