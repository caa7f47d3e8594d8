// Package auth issues and validates back-office JWTs and enforces the
// permission model: admin and dev roles bypass checks, everyone else is
// denied unless the exact permission string is in their allow-list.
package auth

import (
	"errors"
	"time"

	"pontotaxi/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserStore is what auth needs from persistence.
type UserStore interface {
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
}

// Service issues and validates tokens.
type Service struct {
	Secret []byte
	Users  UserStore
	Log    *zap.Logger
}

func NewService(secret []byte, users UserStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Secret: secret, Users: users, Log: log}
}

// Login verifies the password and returns a signed token plus the account.
func (s *Service) Login(email, password string) (string, *models.User, error) {
	user, err := s.Users.GetUserByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.Log.Warn("failed login", zap.String("email", email))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Service) issue(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
		"iss":  "pontotaxi-backend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Authenticate parses a token and loads the account behind it. The account
// is reloaded on every request so role or permission changes take effect
// immediately, not at token expiry.
func (s *Service) Authenticate(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.Users.GetUserByID(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}
