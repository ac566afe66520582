package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
)

// AddBook persists a new book unless another one already carries the same
// title, compared case-insensitively.
func (s *Service) AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	var created model.Book
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.BookTitleExists(ctx, req.Title)
		if err != nil {
			return err
		}
		if exists {
			return errs.ErrDuplicateBook
		}
		created, err = s.repo.CreateBook(ctx, model.Book{
			Title:         req.Title,
			Author:        req.Author,
			Genre:         req.Genre,
			PublishedYear: req.PublishedYear,
		})
		if err != nil {
			return errors.Wrap(err, "An error occured while creating the book")
		}
		return nil
	})
	if err != nil {
		return model.Book{}, err
	}
	return created, nil
}

func (s *Service) GetAllBooks(ctx context.Context, q model.ListBooksQuery) ([]model.Book, error) {
	if q.Direction == "" {
		q.Direction = model.Ascending
	}
	return s.repo.ListBooks(ctx, q)
}

func (s *Service) GetBookById(ctx context.Context, bookUid string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookUid, false)
}

// EditBook overlays the provided fields onto the existing record.
func (s *Service) EditBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error) {
	var updated model.Book
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		book, err := s.repo.GetBook(ctx, bookUid, true)
		if err != nil {
			return err
		}
		if req.Title != "" {
			book.Title = req.Title
		}
		if req.Author != "" {
			book.Author = req.Author
		}
		if req.Genre != "" {
			book.Genre = req.Genre
		}
		if req.PublishedYear != 0 {
			book.PublishedYear = req.PublishedYear
		}
		if err := s.repo.UpdateBook(ctx, book); err != nil {
			return err
		}
		updated = book
		return nil
	})
	if err != nil {
		return model.Book{}, err
	}
	return updated, nil
}

func (s *Service) DeleteBookById(ctx context.Context, bookUid string) error {
	return s.repo.DeleteBook(ctx, bookUid)
}
