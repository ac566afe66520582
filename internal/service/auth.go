package service

import (
	"context"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/libris/library-service/internal/errs"
	"github.com/libris/library-service/internal/model"
	"github.com/libris/library-service/pkg/auth"
)

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return model.AuthResponse{}, errs.ErrEmailTaken
	} else if !errors.Is(err, errs.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}
	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return model.AuthResponse{}, errs.ErrUsernameTaken
	} else if !errors.Is(err, errs.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResponse{}, err
	}
	user, err := s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         auth.RoleUser,
	})
	if err != nil {
		return model.AuthResponse{}, err
	}

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// EnsureAdmin creates the administrator account on first start.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrUserNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = s.repo.CreateUser(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         auth.RoleAdmin,
	})
	return err
}

func (s *Service) issueToken(user model.User) (model.AuthResponse, error) {
	expiresOn := time.Now().Add(s.auth.TokenTTL)
	claims := &auth.Claims{
		UID:      user.UserUid,
		Username: user.Username,
		Email:    user.Email,
		Roles:    []string{user.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresOn),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.auth.Key)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Roles:     []string{user.Role},
		UserEmail: user.Email,
		UserName:  user.Username,
		Token:     signed,
		ExpiresOn: expiresOn,
	}, nil
}
