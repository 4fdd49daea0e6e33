package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"teslo/internal/models"
	"teslo/internal/repositories"
	"teslo/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, zap.NewNop(),
		services.WithBcryptCost(bcrypt.MinCost))
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = "user-123" }).
		Return(nil).Once()

	resp, err := authService.Register(ctx, services.RegisterRequest{
		Email:    "  Test@Example.COM ",
		Password: "Abc12345!",
		FullName: " Test User ",
	})
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.Equal(t, "Test User", resp.User.FullName)
	assert.True(t, resp.User.IsActive)
	assert.Equal(t, []string{models.RoleUser}, resp.User.Roles)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(resp.User.Password), []byte("Abc12345!")))
	assert.NotEmpty(t, resp.Token)
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("failed to create user: %w", repositories.ErrDuplicateKey)).Once()
	_, err = authService.Register(ctx, services.RegisterRequest{
		Email:    "test@example.com",
		Password: "Abc12345!",
		FullName: "Test User",
	})
	var dup *services.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email test@example.com is already registered", dup.Detail)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	tests := []struct {
		name  string
		req   services.RegisterRequest
		field string
	}{
		{"bad email", services.RegisterRequest{Email: "nope", Password: "Abc12345!", FullName: "A"}, "email"},
		{"short password", services.RegisterRequest{Email: "a@b.co", Password: "Ab1", FullName: "A"}, "password"},
		{"weak password", services.RegisterRequest{Email: "a@b.co", Password: "abcdefgh1", FullName: "A"}, "password"},
		{"password without symbol", services.RegisterRequest{Email: "a@b.co", Password: "Abcdefgh1", FullName: "A"}, "password"},
		{"blank name", services.RegisterRequest{Email: "a@b.co", Password: "Abc12345!", FullName: "   "}, "full_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(context.Background(), tt.req)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: hashed(t, "Abc12345!"),
		IsActive: true,
	}

	// Test successful login
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	resp, err := authService.Login(ctx, services.LoginRequest{Email: "TEST@example.com", Password: "Abc12345!"})
	require.NoError(t, err)
	assert.Equal(t, user, resp.User)

	parsedToken, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims["id"])
	assert.Contains(t, claims, "iat")
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	_, err = authService.Login(ctx, services.LoginRequest{Email: "test@example.com", Password: "Wrong12345"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Login(ctx, services.LoginRequest{Email: "ghost@example.com", Password: "Abc12345!"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Inactive user
	inactive := *user
	inactive.IsActive = false
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&inactive, nil).Once()
	_, err = authService.Login(ctx, services.LoginRequest{Email: "test@example.com", Password: "Abc12345!"})
	assert.ErrorIs(t, err, services.ErrInactiveUser)

	// Store failure is opaque
	mockRepo.On("GetByEmail", ctx, "down@example.com").Return(nil, errors.New("connection refused")).Once()
	_, err = authService.Login(ctx, services.LoginRequest{Email: "down@example.com", Password: "Abc12345!"})
	var internal *services.InternalError
	require.ErrorAs(t, err, &internal)
	assert.Equal(t, "internal server error", err.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))

	// Generate a valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-123",
		"exp": jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["id"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-123",
		"exp": jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "user-123"})
	foreignString, _ := foreign.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(foreignString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	user := &models.User{ID: "user-123", IsActive: true}
	token, err := authService.GenerateToken(user.ID)
	require.NoError(t, err)

	mockRepo.On("GetByID", ctx, "user-123").Return(user, nil).Once()
	got, err := authService.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	mockRepo.On("GetByID", ctx, "user-123").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	mockRepo.On("GetByID", ctx, "user-123").Return(&models.User{ID: "user-123"}, nil).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.ErrorIs(t, err, services.ErrInactiveUser)

	short := services.NewAuthService(mockRepo, testJWTSecret, zap.NewNop(), services.WithTokenTTL(-time.Minute))
	expired, err := short.GenerateToken(user.ID)
	require.NoError(t, err)
	_, err = authService.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_CheckAuthStatus(t *testing.T) {
	authService := newAuthService(new(MockUserRepository))
	user := &models.User{ID: "user-123"}

	resp, err := authService.CheckAuthStatus(user)
	require.NoError(t, err)
	assert.Same(t, user, resp.User)

	claims, err := authService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["id"])
}
