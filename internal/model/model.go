package model

import (
	"strings"
	"time"
)

type Book struct {
	ID            int    `json:"-" db:"id"`
	BookUid       string `json:"bookUid" db:"book_uid"`
	Title         string `json:"title" db:"title"`
	Author        string `json:"author" db:"author"`
	Genre         string `json:"genre" db:"genre"`
	PublishedYear int    `json:"publishedYear" db:"published_year"`
	Available     bool   `json:"available" db:"available"`
}

type CreateBookRequest struct {
	Title         string `json:"title" validate:"required,max=30"`
	Author        string `json:"author" validate:"required,max=30"`
	Genre         string `json:"genre" validate:"required,max=30"`
	PublishedYear int    `json:"publishedYear"`
}

// UpdateBookRequest overlays non-empty fields onto an existing book.
type UpdateBookRequest struct {
	Title         string `json:"title" validate:"omitempty,max=30"`
	Author        string `json:"author" validate:"omitempty,max=30"`
	Genre         string `json:"genre" validate:"omitempty,max=30"`
	PublishedYear int    `json:"publishedYear"`
}

type Direction string

const (
	Ascending  Direction = "Ascending"
	Descending Direction = "Descending"
)

type ListBooksQuery struct {
	Filter    string
	Skip      int
	Take      int
	OrderBy   string
	Direction Direction
}

type Date struct {
	time.Time `json:",inline"`
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = date
	return
}

type BorrowRequest struct {
	BookUid      string `json:"-" validate:"required"`
	UserUid      string `json:"-" validate:"required"`
	BorrowedDate Date   `json:"borrowedDate"`
	ReturnDate   Date   `json:"returnDate"`
}

// BorrowRecord is a persisted fact that a user borrowed a book over a date
// range. Records are never mutated; a loan closes when its return date
// elapses.
type BorrowRecord struct {
	ID           int       `json:"-" db:"id"`
	BorrowUid    string    `json:"borrowUid" db:"borrow_uid"`
	BookUid      string    `json:"bookUid" db:"book_uid"`
	UserUid      string    `json:"userUid" db:"user_uid"`
	BorrowedDate time.Time `json:"borrowedDate" db:"borrowed_date"`
	ReturnDate   time.Time `json:"returnDate" db:"return_date"`
}

// IsActiveAt reports whether the loan is still open at now.
func (r BorrowRecord) IsActiveAt(now time.Time) bool {
	return r.ReturnDate.After(now)
}

// IsAvailableAt reports whether a book with the given borrow history is
// available at now: true unless some record is an active loan.
func IsAvailableAt(records []BorrowRecord, now time.Time) bool {
	for _, r := range records {
		if r.IsActiveAt(now) {
			return false
		}
	}
	return true
}

// BorrowedBook is a borrow record resolved against the book and user it
// references.
type BorrowedBook struct {
	BorrowUid    string    `json:"borrowUid" db:"borrow_uid"`
	BookName     string    `json:"bookName" db:"book_name"`
	Username     string    `json:"username" db:"username"`
	BorrowedDate time.Time `json:"borrowedDate" db:"borrowed_date"`
	ReturnDate   time.Time `json:"returnDate" db:"return_date"`
}

type User struct {
	ID           int    `json:"-" db:"id"`
	UserUid      string `json:"userUid" db:"user_uid"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Roles     []string  `json:"roles"`
	UserEmail string    `json:"userEmail"`
	UserName  string    `json:"userName"`
	Token     string    `json:"token"`
	ExpiresOn time.Time `json:"expiresOn"`
}

type BorrowEvent struct {
	BorrowUid    string    `json:"borrowUid"`
	BookUid      string    `json:"bookUid"`
	UserUid      string    `json:"userUid"`
	BorrowedDate time.Time `json:"borrowedDate"`
	ReturnDate   time.Time `json:"returnDate"`
}
