package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/dto"
	"github.com/headstoneworld/orders-api/internal/repository"
)

// ErrInvalidCredentials indicates a failed login of either kind.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenTTL = 24 * time.Hour

// AuthService handles the shared-secret login and the user store login.
type AuthService interface {
	PasswordLogin(ctx context.Context, req dto.PasswordLoginRequest) error
	CredentialLogin(ctx context.Context, req dto.CredentialLoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users     repository.UserRepository
	passwords map[string]struct{}
	jwtSecret string
	validate  *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service over the shared
// password list and the tabular user store.
func NewAuthService(users repository.UserRepository, sharedPasswords []string, jwtSecret string, validate *validator.Validate, logger zerolog.Logger) AuthService {
	passwords := make(map[string]struct{}, len(sharedPasswords))
	for _, password := range sharedPasswords {
		passwords[password] = struct{}{}
	}
	return &authService{
		users:     users,
		passwords: passwords,
		jwtSecret: jwtSecret,
		validate:  validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) PasswordLogin(ctx context.Context, req dto.PasswordLoginRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	if _, ok := s.passwords[req.Password]; !ok {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *authService) CredentialLogin(ctx context.Context, req dto.CredentialLoginRequest) (dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.FindByCredentials(req.Username, req.Password)
	if errors.Is(err, repository.ErrUserNotFound) {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return dto.LoginResponse{}, err
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.Name,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return dto.LoginResponse{Token: signed, User: user.Name, Role: user.Role}, nil
}
