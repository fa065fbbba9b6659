package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hoodrentals/internal/auth"
	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/model"
	"hoodrentals/internal/repository"
)

const bcryptCost = 10

// GoogleTokenVerifier validates a Google ID token and returns its claims.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*auth.GoogleClaims, error)
}

// AuthService handles password and Google authentication.
type AuthService interface {
	Signup(ctx context.Context, username, email, password string) (*model.User, string, error)
	Login(ctx context.Context, login, password string) (*model.User, string, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*model.User, string, error)
}

type authService struct {
	repo     repository.UserRepository
	resolver UserService
	jwt      *auth.JWTService
	google   GoogleTokenVerifier
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, resolver UserService, jwt *auth.JWTService, google GoogleTokenVerifier) AuthService {
	return &authService{
		repo:     repo,
		resolver: resolver,
		jwt:      jwt,
		google:   google,
	}
}

// Signup registers a new user. Username and email are normalized to lower
// case so later logins round-trip regardless of the case they were typed in.
func (s *authService) Signup(ctx context.Context, username, email, password string) (*model.User, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err == nil && existing != nil {
		if existing.Username == username {
			return nil, "", apperrors.ErrUsernameTaken
		}
		return nil, "", apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent signup for the same identifier.
			if _, findErr := s.repo.FindByLogin(ctx, username); findErr == nil {
				return nil, "", apperrors.ErrUsernameTaken
			}
			return nil, "", apperrors.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates by username or email plus password.
func (s *authService) Login(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	password = strings.TrimSpace(password)

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// LoginWithGoogle verifies a Google ID token, resolving or creating the user
// bound to its email.
func (s *authService) LoginWithGoogle(ctx context.Context, idToken string) (*model.User, string, error) {
	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrInvalidCredentials, err)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	user, err := s.resolver.ResolveOrCreate(ctx, email)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}
