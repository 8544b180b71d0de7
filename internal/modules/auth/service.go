package auth

import (
	"errors"
	"time"

	"github.com/inkpot-blog/core/internal/config"
	jwtpkg "github.com/inkpot-blog/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the admin session lifetime.
const TokenTTL = 24 * time.Hour

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service validates admin credentials and issues session tokens. The admin
// identity is injected from configuration rather than read from globals.
type Service struct {
	admin config.AdminConfig
}

func NewService(admin config.AdminConfig) *Service {
	return &Service{admin: admin}
}

// Login verifies the username and bcrypt-hashed password and signs a JWT.
func (s *Service) Login(username, password string) (string, error) {
	if username != s.admin.Username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordBcrypt), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return jwtpkg.Sign(username, TokenTTL)
}
