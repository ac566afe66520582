package handler

import (
	"context"

	"github.com/libris/library-service/internal/model"
	"github.com/libris/library-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	AddBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetAllBooks(ctx context.Context, q model.ListBooksQuery) ([]model.Book, error)
	GetBookById(ctx context.Context, bookUid string) (model.Book, error)
	EditBook(ctx context.Context, bookUid string, req model.UpdateBookRequest) (model.Book, error)
	DeleteBookById(ctx context.Context, bookUid string) error
}

type BorrowService interface {
	BorrowBook(ctx context.Context, req model.BorrowRequest) (model.BorrowRecord, error)
	GetBorrowedBooksByUser(ctx context.Context, userUid string) ([]model.BorrowedBook, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
}

var (
	_ BookService   = (*service.Service)(nil)
	_ BorrowService = (*service.Service)(nil)
	_ AuthService   = (*service.Service)(nil)
)
