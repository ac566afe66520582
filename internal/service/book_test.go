package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
	mock_repository "github.com/libris/library-service/internal/repository/mocks"
)

func TestAddBook(t *testing.T) {
	req := model.CreateBookRequest{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		PublishedYear: 1965,
	}

	tests := []struct {
		name    string
		prepare func(repo *mock_repository.MockRepository)
		wantErr error
	}{
		{
			name: "ok",
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().BookTitleExists(gomock.Any(), req.Title).Return(false, nil)
				repo.EXPECT().CreateBook(gomock.Any(), model.Book{
					Title:         req.Title,
					Author:        req.Author,
					Genre:         req.Genre,
					PublishedYear: req.PublishedYear,
				}).DoAndReturn(func(_ context.Context, book model.Book) (model.Book, error) {
					book.BookUid = "f2e70eee-5f7e-4f27-a233-6a7a47d4e1f5"
					book.Available = true
					return book, nil
				})
			},
		},
		{
			name: "duplicate title",
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().BookTitleExists(gomock.Any(), req.Title).Return(true, nil)
			},
			wantErr: errs.ErrDuplicateBook,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			tt.prepare(repo)

			book, err := svc.AddBook(context.Background(), req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, book.BookUid)
			require.Equal(t, req.Title, book.Title)
			require.True(t, book.Available)
		})
	}
}

func TestGetAllBooks(t *testing.T) {
	t.Run("defaults direction to ascending", func(t *testing.T) {
		svc, repo := newTestService(t)
		want := []model.Book{{BookUid: "f2e70eee-5f7e-4f27-a233-6a7a47d4e1f5", Title: "Dune", Available: true}}
		repo.EXPECT().ListBooks(gomock.Any(), model.ListBooksQuery{Direction: model.Ascending}).
			Return(want, nil)

		got, err := svc.GetAllBooks(context.Background(), model.ListBooksQuery{})
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("passes query through", func(t *testing.T) {
		svc, repo := newTestService(t)
		q := model.ListBooksQuery{Filter: "dune", Skip: 5, Take: 10, OrderBy: "author", Direction: model.Descending}
		repo.EXPECT().ListBooks(gomock.Any(), q).Return([]model.Book{}, nil)

		got, err := svc.GetAllBooks(context.Background(), q)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestEditBook(t *testing.T) {
	const bookUid = "f2e70eee-5f7e-4f27-a233-6a7a47d4e1f5"

	t.Run("overlays provided fields", func(t *testing.T) {
		svc, repo := newTestService(t)
		passThroughTx(repo)
		repo.EXPECT().GetBook(gomock.Any(), bookUid, true).Return(model.Book{
			BookUid:       bookUid,
			Title:         "Dune",
			Author:        "Frank Herbert",
			Genre:         "Science Fiction",
			PublishedYear: 1965,
			Available:     true,
		}, nil)
		repo.EXPECT().UpdateBook(gomock.Any(), model.Book{
			BookUid:       bookUid,
			Title:         "Dune Messiah",
			Author:        "Frank Herbert",
			Genre:         "Science Fiction",
			PublishedYear: 1969,
			Available:     true,
		}).Return(nil)

		book, err := svc.EditBook(context.Background(), bookUid, model.UpdateBookRequest{
			Title:         "Dune Messiah",
			PublishedYear: 1969,
		})
		require.NoError(t, err)
		require.Equal(t, "Dune Messiah", book.Title)
		require.Equal(t, "Frank Herbert", book.Author)
		require.Equal(t, 1969, book.PublishedYear)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := newTestService(t)
		passThroughTx(repo)
		repo.EXPECT().GetBook(gomock.Any(), bookUid, true).Return(model.Book{}, errs.ErrBookNotFound)

		_, err := svc.EditBook(context.Background(), bookUid, model.UpdateBookRequest{Title: "x"})
		require.ErrorIs(t, err, errs.ErrBookNotFound)
	})
}

func TestDeleteBookById(t *testing.T) {
	const bookUid = "f2e70eee-5f7e-4f27-a233-6a7a47d4e1f5"

	t.Run("ok", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().DeleteBook(gomock.Any(), bookUid).Return(nil)
		require.NoError(t, svc.DeleteBookById(context.Background(), bookUid))
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().DeleteBook(gomock.Any(), bookUid).Return(errs.ErrBookNotFound)
		require.ErrorIs(t, svc.DeleteBookById(context.Background(), bookUid), errs.ErrBookNotFound)
	})
}
