package identity

import (
	"context"
	"testing"
	"time"

	appaudit "github.com/apex/backoffice/internal/application/audit"
	"github.com/apex/backoffice/internal/domain/audit"
	"github.com/apex/backoffice/internal/domain/identity"
	"github.com/apex/backoffice/internal/domain/shared"
	"github.com/apex/backoffice/internal/infrastructure/auth"
	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type noopEntryRepo struct{}

func (noopEntryRepo) Save(ctx context.Context, entry *audit.Entry) error { return nil }
func (noopEntryRepo) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	return nil, nil
}
func (noopEntryRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return 0, nil
}

func newTestAuthService(userRepo *MockUserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-that-is-long-enough",
		TokenExpiration: time.Hour,
		Issuer:          "apex-test",
	})
	recorder := appaudit.NewRecorder(noopEntryRepo{}, zap.NewNop(), 16)
	return NewAuthService(userRepo, jwtService, recorder, zap.NewNop())
}

func newTestUser(t *testing.T, password string) *identity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	user, err := identity.NewUser("admin", string(hash), "Administrador", identity.RoleAdmin)
	assert.NoError(t, err)
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newTestAuthService(userRepo)

	ctx := context.Background()
	user := newTestUser(t, "correct-horse")

	userRepo.On("FindByUsername", ctx, "admin").Return(user, nil)

	result, err := service.Login(ctx, LoginRequest{Username: "admin", Password: "correct-horse"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "admin", result.User.Username)
	assert.Equal(t, "ADMIN", result.User.Role)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newTestAuthService(userRepo)

	ctx := context.Background()
	user := newTestUser(t, "correct-horse")

	userRepo.On("FindByUsername", ctx, "admin").Return(user, nil)

	result, err := service.Login(ctx, LoginRequest{Username: "admin", Password: "wrong"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newTestAuthService(userRepo)

	ctx := context.Background()
	userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)

	result, err := service.Login(ctx, LoginRequest{Username: "ghost", Password: "whatever"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	// same error as a wrong password, on purpose
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_DeactivatedUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newTestAuthService(userRepo)

	ctx := context.Background()
	user := newTestUser(t, "correct-horse")
	user.Deactivate()

	userRepo.On("FindByUsername", ctx, "admin").Return(user, nil)

	result, err := service.Login(ctx, LoginRequest{Username: "admin", Password: "correct-horse"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
}

func TestAuthService_Me(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newTestAuthService(userRepo)

	ctx := context.Background()
	user := newTestUser(t, "correct-horse")

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	result, err := service.Me(ctx, user.ID)

	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.ID)
	assert.Equal(t, "admin", result.Username)
}
