package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
)

// availableExpr derives availability: a book is available unless it has an
// active (non-expired) borrow record.
const availableExpr = `not exists (
	select 1 from borrow_records br
	where br.book_uid = b.book_uid and br.return_date > now()
) as available`

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("book_uid", "title", "author", "genre", "published_year").
		Values(uuid.New(), book.Title, book.Author, book.Genre, book.PublishedYear).
		Suffix("returning id, book_uid, title, author, genre, published_year").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := sqlx.GetContext(ctx, r.ext(ctx), &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errs.ErrDuplicateBook
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, errors.Wrap(err, "create book")
	}
	created.Available = true

	return created, nil
}

var orderColumns = map[string]string{
	"title":         "title",
	"author":        "author",
	"genre":         "genre",
	"publishedYear": "published_year",
}

func (r *repository) ListBooks(ctx context.Context, p model.ListBooksQuery) ([]model.Book, error) {
	q := qb.Select("id", "book_uid", "title", "author", "genre", "published_year", availableExpr).
		From(booksTableName + " b")

	if p.Filter != "" {
		q = q.Where(sq.ILike{"title": "%" + p.Filter + "%"})
	}
	orderBy := "title"
	if col, ok := orderColumns[p.OrderBy]; ok {
		orderBy = col
	}
	dir := "asc"
	if p.Direction == model.Descending {
		dir = "desc"
	}
	q = q.OrderBy(orderBy + " " + dir)
	if p.Skip > 0 {
		q = q.Offset(uint64(p.Skip))
	}
	if p.Take > 0 {
		q = q.Limit(uint64(p.Take))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &books, query, args...); err != nil {
		return nil, err
	}

	return books, nil
}

func (r *repository) GetBook(ctx context.Context, bookUid string, forUpdate bool) (model.Book, error) {
	q := qb.Select("id", "book_uid", "title", "author", "genre", "published_year", availableExpr).
		From(booksTableName + " b").
		Where(sq.Eq{"book_uid": bookUid}).
		Limit(1)
	if forUpdate {
		q = q.Suffix("for update of b")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, r.ext(ctx), &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}

	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) error {
	query, args, err := qb.Update(booksTableName).
		Set("title", book.Title).
		Set("author", book.Author).
		Set("genre", book.Genre).
		Set("published_year", book.PublishedYear).
		Where(sq.Eq{"book_uid": book.BookUid}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrDuplicateBook
		}
		return errors.Wrap(err, "update book")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrBookNotFound
	}

	return nil
}

func (r *repository) DeleteBook(ctx context.Context, bookUid string) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete book")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrBookNotFound
	}

	return nil
}

func (r *repository) BookTitleExists(ctx context.Context, title string) (bool, error) {
	query, args, err := qb.Select("1").
		From(booksTableName).
		Where(sq.Expr("lower(title) = lower(?)", title)).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	var one int
	if err := sqlx.GetContext(ctx, r.ext(ctx), &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
