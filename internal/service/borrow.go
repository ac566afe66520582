package service

import (
	"context"
	"time"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
)

const maxBorrowDays = 14

// BorrowBook runs the borrow workflow in a single transaction. The book row
// is locked for the span of the checks, so competing borrows of the same
// book serialize; failure at any step leaves no record behind.
func (s *Service) BorrowBook(ctx context.Context, req model.BorrowRequest) (model.BorrowRecord, error) {
	var created model.BorrowRecord
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		book, err := s.repo.GetBook(ctx, req.BookUid, true)
		if err != nil {
			return err
		}
		last, found, err := s.repo.LatestBorrowByUserAndBook(ctx, req.UserUid, req.BookUid)
		if err != nil {
			return err
		}
		if !book.Available {
			return errs.ErrNotAvailable
		}
		// a prior record for this pair, however old, blocks re-borrowing
		if found && last.BookUid == book.BookUid {
			return errs.ErrAlreadyBorrowed
		}
		if req.ReturnDate.Sub(req.BorrowedDate.Time) > maxBorrowDays*24*time.Hour {
			return errs.ErrReturnWindow
		}
		created, err = s.repo.CreateBorrow(ctx, model.BorrowRecord{
			BookUid:      book.BookUid,
			UserUid:      req.UserUid,
			BorrowedDate: req.BorrowedDate.Time,
			ReturnDate:   req.ReturnDate.Time,
		})
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return created, nil
}

func (s *Service) GetBorrowedBooksByUser(ctx context.Context, userUid string) ([]model.BorrowedBook, error) {
	return s.repo.ListBorrowsByUser(ctx, userUid)
}
