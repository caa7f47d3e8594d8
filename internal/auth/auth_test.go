package auth_test

import (
	"errors"
	"testing"

	"pontotaxi/backend/internal/auth"
	"pontotaxi/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore is a testify mock of the auth.UserStore interface.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Name:         "Carlos",
		Email:        "carlos@pontotaxi.com.br",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
}

// TestLoginAndAuthenticate covers the token round trip: a login token passed
// back to Authenticate resolves to the same account.
func TestLoginAndAuthenticate(t *testing.T) {
	// Arrange
	usersMock := new(MockUserStore)
	svc := auth.NewService([]byte("test-secret"), usersMock, nil)
	user := testUser(t, "senha-forte")

	usersMock.On("GetUserByEmail", user.Email).Return(user, nil)
	usersMock.On("GetUserByID", user.ID).Return(user, nil)

	// Act
	token, loggedIn, err := svc.Login(user.Email, "senha-forte")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	resolved, err := svc.Authenticate(token)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.Email, resolved.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	usersMock := new(MockUserStore)
	svc := auth.NewService([]byte("test-secret"), usersMock, nil)
	user := testUser(t, "senha-forte")

	usersMock.On("GetUserByEmail", user.Email).Return(user, nil)

	token, loggedIn, err := svc.Login(user.Email, "senha-errada")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Nil(t, loggedIn)
}

func TestLogin_UnknownEmail(t *testing.T) {
	usersMock := new(MockUserStore)
	svc := auth.NewService([]byte("test-secret"), usersMock, nil)

	usersMock.On("GetUserByEmail", "ninguem@example.com").Return(nil, errors.New("record not found"))

	_, _, err := svc.Login("ninguem@example.com", "qualquer")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_BadToken(t *testing.T) {
	usersMock := new(MockUserStore)
	svc := auth.NewService([]byte("test-secret"), usersMock, nil)

	_, err := svc.Authenticate("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// TestAuthenticate_WrongSecret verifies a token signed with another secret is
// rejected.
func TestAuthenticate_WrongSecret(t *testing.T) {
	usersMock := new(MockUserStore)
	user := testUser(t, "senha-forte")
	usersMock.On("GetUserByEmail", user.Email).Return(user, nil)

	issuer := auth.NewService([]byte("secret-a"), usersMock, nil)
	token, _, err := issuer.Login(user.Email, "senha-forte")
	assert.NoError(t, err)

	verifier := auth.NewService([]byte("secret-b"), usersMock, nil)
	_, err = verifier.Authenticate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// TestAuthenticate_ReloadsAccount verifies permission changes take effect on
// the next request, not at token expiry.
func TestAuthenticate_ReloadsAccount(t *testing.T) {
	usersMock := new(MockUserStore)
	svc := auth.NewService([]byte("test-secret"), usersMock, nil)
	user := testUser(t, "senha-forte")

	usersMock.On("GetUserByEmail", user.Email).Return(user, nil)
	promoted := *user
	promoted.Role = models.RoleAdmin
	usersMock.On("GetUserByID", user.ID).Return(&promoted, nil)

	token, _, err := svc.Login(user.Email, "senha-forte")
	assert.NoError(t, err)

	resolved, err := svc.Authenticate(token)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resolved.Role)
}
