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

// LatestBorrowByUserAndBook returns the most recent borrow record for the
// (user, book) pair ordered by return date descending. Absence is not an
// error.
func (r *repository) LatestBorrowByUserAndBook(ctx context.Context, userUid, bookUid string) (model.BorrowRecord, bool, error) {
	query, args, err := qb.Select("id", "borrow_uid", "book_uid", "user_uid", "borrowed_date", "return_date").
		From(borrowsTableName).
		Where(sq.Eq{"user_uid": userUid}).
		Where(sq.Eq{"book_uid": bookUid}).
		OrderBy("return_date desc").
		Limit(1).
		ToSql()
	if err != nil {
		return model.BorrowRecord{}, false, err
	}

	var rec model.BorrowRecord
	if err := sqlx.GetContext(ctx, r.ext(ctx), &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRecord{}, false, nil
		}
		return model.BorrowRecord{}, false, err
	}

	return rec, true, nil
}

func (r *repository) CreateBorrow(ctx context.Context, rec model.BorrowRecord) (model.BorrowRecord, error) {
	query, args, err := qb.Insert(borrowsTableName).
		Columns("borrow_uid", "book_uid", "user_uid", "borrowed_date", "return_date").
		Values(uuid.New(), rec.BookUid, rec.UserUid, rec.BorrowedDate, rec.ReturnDate).
		Suffix("returning id, borrow_uid, book_uid, user_uid, borrowed_date, return_date").
		ToSql()
	if err != nil {
		return model.BorrowRecord{}, err
	}

	var created model.BorrowRecord
	if err := sqlx.GetContext(ctx, r.ext(ctx), &created, query, args...); err != nil {
		// the (user_uid, book_uid) unique index backstops the pair rule
		// against concurrent borrows
		if isUniqueViolation(err) {
			return model.BorrowRecord{}, errs.ErrAlreadyBorrowed
		}
		r.log.Error("CreateBorrow", zap.String("q", query), zap.Any("args", args))
		return model.BorrowRecord{}, errors.Wrap(err, "create borrow")
	}

	return created, nil
}

func (r *repository) ListBorrowsByUser(ctx context.Context, userUid string) ([]model.BorrowedBook, error) {
	query, args, err := qb.Select("br.borrow_uid", "b.title as book_name", "u.username", "br.borrowed_date", "br.return_date").
		From(borrowsTableName + " br").
		Join("books b on b.book_uid = br.book_uid").
		Join("users u on u.user_uid = br.user_uid").
		Where(sq.Eq{"br.user_uid": userUid}).
		OrderBy("br.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.BorrowedBook, 0)
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &items, query, args...); err != nil {
		return nil, err
	}

	return items, nil
}
