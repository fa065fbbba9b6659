package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hoodrentals/internal/auth"
	apperrors "hoodrentals/internal/errors"
	"hoodrentals/internal/model"
)

func newAuthFixture() (AuthService, *MockUserRepository, *MockUserService, *MockGoogleVerifier) {
	repo := new(MockUserRepository)
	resolver := new(MockUserService)
	google := new(MockGoogleVerifier)
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(repo, resolver, jwtService, google), repo, resolver, google
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		setupMock func(repo *MockUserRepository)
		wantErr   error
	}{
		{
			name:     "success normalizes case",
			username: "  Bob ",
			email:    "Bob@Example.COM",
			password: "hunter22",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsernameOrEmail", mock.Anything, "bob", "bob@example.com").
					Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Username == "bob" && u.Email == "bob@example.com"
				})).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*model.User).ID = 1
				})
			},
		},
		{
			name:     "username taken",
			username: "bob",
			email:    "other@example.com",
			password: "hunter22",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsernameOrEmail", mock.Anything, "bob", "other@example.com").
					Return(&model.User{Username: "bob", Email: "bob@example.com"}, nil)
			},
			wantErr: apperrors.ErrUsernameTaken,
		},
		{
			name:     "email taken",
			username: "newname",
			email:    "bob@example.com",
			password: "hunter22",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsernameOrEmail", mock.Anything, "newname", "bob@example.com").
					Return(&model.User{Username: "bob", Email: "bob@example.com"}, nil)
			},
			wantErr: apperrors.ErrEmailTaken,
		},
		{
			name:     "lost insert race maps to conflict",
			username: "bob",
			email:    "bob@example.com",
			password: "hunter22",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsernameOrEmail", mock.Anything, "bob", "bob@example.com").
					Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
				repo.On("FindByLogin", mock.Anything, "bob").
					Return(&model.User{Username: "bob"}, nil)
			},
			wantErr: apperrors.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newAuthFixture()
			tt.setupMock(repo)

			user, token, err := svc.Signup(context.Background(), tt.username, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "bob", user.Username)
			assert.NotEmpty(t, token)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")))
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcryptCost)
	assert.NoError(t, err)
	stored := &model.User{ID: 1, Username: "bob", Email: "bob@example.com", Password: string(hashed)}

	tests := []struct {
		name      string
		login     string
		password  string
		setupMock func(repo *MockUserRepository)
		wantErr   error
	}{
		{
			name:     "by username",
			login:    "bob",
			password: "hunter22",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByLogin", mock.Anything, "bob").Return(stored, nil)
			},
		},
		{
			name:     "identifier case folded before lookup",
			login:    " BOB@Example.com ",
			password: "hunter22",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByLogin", mock.Anything, "bob@example.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			login:    "bob",
			password: "nope",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByLogin", mock.Anything, "bob").Return(stored, nil)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown identifier",
			login:    "nobody",
			password: "hunter22",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByLogin", mock.Anything, "nobody").
					Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newAuthFixture()
			tt.setupMock(repo)

			user, token, err := svc.Login(context.Background(), tt.login, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, uint(1), user.ID)
			assert.NotEmpty(t, token)
		})
	}
}

func TestAuthService_LoginWithGoogle(t *testing.T) {
	t.Run("valid token resolves user", func(t *testing.T) {
		svc, _, resolver, google := newAuthFixture()
		google.On("Verify", mock.Anything, "good-token").
			Return(&auth.GoogleClaims{Email: "Ama@Example.com", EmailVerified: "true"}, nil)
		resolver.On("ResolveOrCreate", mock.Anything, "ama@example.com").
			Return(&model.User{ID: 4, Email: "ama@example.com"}, nil)

		user, token, err := svc.LoginWithGoogle(context.Background(), "good-token")
		assert.NoError(t, err)
		assert.Equal(t, uint(4), user.ID)
		assert.NotEmpty(t, token)
		resolver.AssertExpectations(t)
	})

	t.Run("rejected token maps to invalid credentials", func(t *testing.T) {
		svc, _, _, google := newAuthFixture()
		google.On("Verify", mock.Anything, "bad-token").
			Return(nil, errors.New("aud mismatch"))

		_, _, err := svc.LoginWithGoogle(context.Background(), "bad-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestUserService_ResolveOrCreate(t *testing.T) {
	t.Run("existing user returned as-is", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "ama@example.com").
			Return(&model.User{ID: 9, Email: "ama@example.com"}, nil)

		user, err := NewUserService(repo).ResolveOrCreate(context.Background(), "ama@example.com")
		assert.NoError(t, err)
		assert.Equal(t, uint(9), user.ID)
	})

	t.Run("creates user with synthesized username", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "ama@example.com").
			Return(nil, gorm.ErrRecordNotFound).Once()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "ama@example.com" && u.Username != "" && u.Password != ""
		})).Return(nil)

		user, err := NewUserService(repo).ResolveOrCreate(context.Background(), "ama@example.com")
		assert.NoError(t, err)
		assert.Regexp(t, `^ama_\d+$`, user.Username)
		repo.AssertExpectations(t)
	})

	t.Run("lost race re-reads the winner", func(t *testing.T) {
		repo := new(MockUserRepository)
		winner := &model.User{ID: 12, Email: "ama@example.com"}
		repo.On("FindByEmail", mock.Anything, "ama@example.com").
			Return(nil, gorm.ErrRecordNotFound).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
		repo.On("FindByEmail", mock.Anything, "ama@example.com").Return(winner, nil)

		user, err := NewUserService(repo).ResolveOrCreate(context.Background(), "ama@example.com")
		assert.NoError(t, err)
		assert.Equal(t, uint(12), user.ID)
	})
}
