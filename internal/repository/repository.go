package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	ListBooks(ctx context.Context, q model.ListBooksQuery) ([]model.Book, error)
	GetBook(ctx context.Context, bookUid string, forUpdate bool) (model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) error
	DeleteBook(ctx context.Context, bookUid string) error
	BookTitleExists(ctx context.Context, title string) (bool, error)

	LatestBorrowByUserAndBook(ctx context.Context, userUid, bookUid string) (model.BorrowRecord, bool, error)
	CreateBorrow(ctx context.Context, rec model.BorrowRecord) (model.BorrowRecord, error)
	ListBorrowsByUser(ctx context.Context, userUid string) ([]model.BorrowedBook, error)

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName   = `books`
	borrowsTableName = `borrow_records`
	usersTableName   = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type txKey struct{}

// WithinTransaction runs fn with a transaction scoped to the context. Every
// repository call made with that context shares the transaction; an error
// from fn rolls everything back. Nested calls reuse the outer transaction.
func (r *repository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.log.Error("tx rollback", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

// ext returns the context transaction when present, the pool otherwise.
func (r *repository) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
