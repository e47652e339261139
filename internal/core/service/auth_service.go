package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

// ValidatePassword enforces the password policy: at least 8 characters, one
// digit, one lowercase letter, one uppercase letter, one special character,
// and no whitespace.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password must not be blank", domain.ErrInvalidPassword)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidPassword)
	}

	var digit, lower, upper, special bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return fmt.Errorf("%w: password must not contain whitespace", domain.ErrInvalidPassword)
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		default:
			special = true
		}
	}
	if !digit || !lower || !upper || !special {
		return fmt.Errorf("%w: password must contain a number, an uppercase letter, a lowercase letter, and a special character", domain.ErrInvalidPassword)
	}
	return nil
}

// AuthService implements registration, login, and logout. It is the identity
// side of the system; all authorization decisions live in the Guard.
type AuthService struct {
	repo      ports.AccountRepository
	accounts  ports.AccountService
	tokens    ports.TokenStore
	hasher    ports.PasswordHasher
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewAuthService builds an AuthService. A non-positive tokenTTL falls back to
// 24 hours.
func NewAuthService(
	repo ports.AccountRepository,
	accounts ports.AccountService,
	tokens ports.TokenStore,
	hasher ports.PasswordHasher,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		accounts:  accounts,
		tokens:    tokens,
		hasher:    hasher,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates a guest account from self-service registration and returns
// a session token for it.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if exists, err := s.repo.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, domain.ErrEmailTaken
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	account, err := s.accounts.Create(ctx, ports.CreateAccountInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      domain.RoleGuest,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Msg("account registered")
	return &ports.AuthResult{Token: token, Account: account, Permissions: account.Permissions.Kinds()}, nil
}

// Login verifies the credentials and returns a session token plus the
// account's materialized permission set.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{Token: token, Account: account, Permissions: account.Permissions.Kinds()}, nil
}

// Logout revokes the token id; the revocation entry outlives the token itself.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return fmt.Errorf("%w: missing token id", domain.ErrValidation)
	}
	return s.tokens.Revoke(ctx, tokenID, s.tokenTTL)
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"role":  string(account.Role),
		"jti":   newTokenID(),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// newTokenID returns a random 128-bit hex token id for revocation tracking.
func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%032x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
