package errs

import (
	"errors"
)

var (
	ErrBookNotFound    = errors.New("Book not found")
	ErrDuplicateBook   = errors.New("Book already exists in database")
	ErrNotAvailable    = errors.New("Book is not available")
	ErrAlreadyBorrowed = errors.New("The same book cannot be borrowed twice")
	ErrReturnWindow    = errors.New("The return date must be within 14 days from the borrowed date")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("Email is already registered!")
	ErrUsernameTaken      = errors.New("Username is already registered!")
	ErrInvalidCredentials = errors.New("Email or Password is incorrect!")
)

// IsBadRequest reports whether err maps to a 400 at the API boundary.
func IsBadRequest(err error) bool {
	for _, e := range []error{
		ErrDuplicateBook,
		ErrNotAvailable,
		ErrAlreadyBorrowed,
		ErrReturnWindow,
		ErrEmailTaken,
		ErrUsernameTaken,
		ErrInvalidCredentials,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
