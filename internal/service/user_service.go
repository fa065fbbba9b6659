package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/model"
	"hoodrentals/internal/repository"
)

// UserService resolves identities and exposes the admin user surface.
type UserService interface {
	// ResolveOrCreate finds the user for an email, lazily creating one with a
	// synthesized username and a throwaway password. The email must already be
	// trimmed and lower-cased by the caller.
	ResolveOrCreate(ctx context.Context, email string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService over the user repository.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ResolveOrCreate(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}

	// Concurrent first-touch requests for the same email may both reach the
	// insert; the unique constraint decides the winner and the loser re-reads.
	// A second loop pass only happens on a username suffix collision.
	for range 2 {
		suffix, err := randomSuffix()
		if err != nil {
			return nil, fmt.Errorf("generate username suffix: %w", err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash throwaway password: %w", err)
		}

		user = &model.User{
			Username: fmt.Sprintf("%s_%d", local, suffix),
			Email:    email,
			Password: string(hashed),
		}
		err = s.repo.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, findErr := s.repo.FindByEmail(ctx, email); findErr == nil {
				return existing, nil
			}
			continue
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return nil, fmt.Errorf("allocate username for %s: exhausted retries", email)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// randomSuffix returns a uniform value in [0, 999].
func randomSuffix() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
