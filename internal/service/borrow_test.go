package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
	mock_repository "github.com/libris/library-service/internal/repository/mocks"
	"github.com/libris/library-service/internal/service"
)

func newTestService(t *testing.T) (*service.Service, *mock_repository.MockRepository) {
	t.Helper()
	c := gomock.NewController(t)
	repo := mock_repository.NewMockRepository(c)
	svc := service.NewService(repo, service.AuthConfig{
		Key:      []byte("test-key"),
		TokenTTL: time.Hour,
	}, zap.NewNop())
	return svc, repo
}

func passThroughTx(repo *mock_repository.MockRepository) {
	repo.EXPECT().WithinTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func date(s string) model.Date {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return model.Date{Time: d}
}

func TestBorrowBook(t *testing.T) {
	const (
		bookUid = "f2e70eee-5f7e-4f27-a233-6a7a47d4e1f5"
		userUid = "9a53c814-91f0-4a4e-9b52-41b0fbe9f7f0"
	)

	tests := []struct {
		name    string
		req     model.BorrowRequest
		prepare func(repo *mock_repository.MockRepository)
		wantErr error
	}{
		{
			name: "ok",
			req: model.BorrowRequest{
				BookUid:      bookUid,
				UserUid:      userUid,
				BorrowedDate: date("2024-03-01"),
				ReturnDate:   date("2024-03-10"),
			},
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().GetBook(gomock.Any(), bookUid, true).
					Return(model.Book{BookUid: bookUid, Title: "Dune", Available: true}, nil)
				repo.EXPECT().LatestBorrowByUserAndBook(gomock.Any(), userUid, bookUid).
					Return(model.BorrowRecord{}, false, nil)
				repo.EXPECT().CreateBorrow(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec model.BorrowRecord) (model.BorrowRecord, error) {
						rec.BorrowUid = "b0a2e1a8-7c80-4d5e-8f5f-0b8f4b0a0a01"
						return rec, nil
					})
			},
		},
		{
			name: "exactly fourteen days ok",
			req: model.BorrowRequest{
				BookUid:      bookUid,
				UserUid:      userUid,
				BorrowedDate: date("2024-03-01"),
				ReturnDate:   date("2024-03-15"),
			},
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().GetBook(gomock.Any(), bookUid, true).
					Return(model.Book{BookUid: bookUid, Available: true}, nil)
				repo.EXPECT().LatestBorrowByUserAndBook(gomock.Any(), userUid, bookUid).
					Return(model.BorrowRecord{}, false, nil)
				repo.EXPECT().CreateBorrow(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec model.BorrowRecord) (model.BorrowRecord, error) {
						return rec, nil
					})
			},
		},
		{
			name: "book not found",
			req: model.BorrowRequest{
				BookUid:      bookUid,
				UserUid:      userUid,
				BorrowedDate: date("2024-03-01"),
				ReturnDate:   date("2024-03-10"),
			},
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().GetBook(gomock.Any(), bookUid, true).
					Return(model.Book{}, errs.ErrBookNotFound)
			},
			wantErr: errs.ErrBookNotFound,
		},
		{
			name: "not available",
			req: model.BorrowRequest{
				BookUid:      bookUid,
				UserUid:      userUid,
				BorrowedDate: date("2024-03-01"),
				ReturnDate:   date("2024-03-10"),
			},
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().GetBook(gomock.Any(), bookUid, true).
					Return(model.Book{BookUid: bookUid, Available: false}, nil)
				repo.EXPECT().LatestBorrowByUserAndBook(gomock.Any(), userUid, bookUid).
					Return(model.BorrowRecord{}, false, nil)
			},
			wantErr: errs.ErrNotAvailable,
		},
		{
			name: "already borrowed once",
			req: model.BorrowRequest{
				BookUid:      bookUid,
				UserUid:      userUid,
				BorrowedDate: date("2024-03-01"),
				ReturnDate:   date("2024-03-10"),
			},
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().GetBook(gomock.Any(), bookUid, true).
					Return(model.Book{BookUid: bookUid, Available: true}, nil)
				repo.EXPECT().LatestBorrowByUserAndBook(gomock.Any(), userUid, bookUid).
					Return(model.BorrowRecord{
						BookUid:      bookUid,
						UserUid:      userUid,
						BorrowedDate: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
						ReturnDate:   time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC),
					}, true, nil)
			},
			wantErr: errs.ErrAlreadyBorrowed,
		},
		{
			name: "return window exceeded",
			req: model.BorrowRequest{
				BookUid:      bookUid,
				UserUid:      userUid,
				BorrowedDate: date("2024-03-01"),
				ReturnDate:   date("2024-03-16"),
			},
			prepare: func(repo *mock_repository.MockRepository) {
				passThroughTx(repo)
				repo.EXPECT().GetBook(gomock.Any(), bookUid, true).
					Return(model.Book{BookUid: bookUid, Available: true}, nil)
				repo.EXPECT().LatestBorrowByUserAndBook(gomock.Any(), userUid, bookUid).
					Return(model.BorrowRecord{}, false, nil)
			},
			wantErr: errs.ErrReturnWindow,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			tt.prepare(repo)

			rec, err := svc.BorrowBook(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, bookUid, rec.BookUid)
			require.Equal(t, userUid, rec.UserUid)
			require.Equal(t, tt.req.BorrowedDate.Time, rec.BorrowedDate)
			require.Equal(t, tt.req.ReturnDate.Time, rec.ReturnDate)
		})
	}
}

func TestGetBorrowedBooksByUser(t *testing.T) {
	const userUid = "9a53c814-91f0-4a4e-9b52-41b0fbe9f7f0"

	t.Run("ok", func(t *testing.T) {
		svc, repo := newTestService(t)
		want := []model.BorrowedBook{
			{
				BorrowUid:    "b0a2e1a8-7c80-4d5e-8f5f-0b8f4b0a0a01",
				BookName:     "Dune",
				Username:     "frank",
				BorrowedDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				ReturnDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			},
		}
		repo.EXPECT().ListBorrowsByUser(gomock.Any(), userUid).Return(want, nil)

		got, err := svc.GetBorrowedBooksByUser(context.Background(), userUid)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("empty history", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.EXPECT().ListBorrowsByUser(gomock.Any(), userUid).Return([]model.BorrowedBook{}, nil)

		got, err := svc.GetBorrowedBooksByUser(context.Background(), userUid)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
