package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"qkart/internal/domain"
	userrepo "qkart/internal/repository/user"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already taken")
)

// Service handles registration, login and token lookups.
type Service struct {
	repo          userrepo.Repository
	tokens        *tokenManager
	accessTTL     time.Duration
	defaultWallet int64
	passwordMin   int
}

// Config carries the settings Service needs from the environment.
type Config struct {
	Secret        string
	AccessTTL     time.Duration
	DefaultWallet int64
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, cfg Config) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &Service{
		repo:          repo,
		tokens:        newTokenManager(cfg.Secret),
		accessTTL:     ttl,
		defaultWallet: cfg.DefaultWallet,
		passwordMin:   8,
	}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is a signed bearer token and the moment it stops being valid.
type Token struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// AuthTokens groups the tokens returned on register and login.
type AuthTokens struct {
	Access Token `json:"access"`
}

// Register creates a new user with the default wallet and an unset address.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, domain.Invalid("email required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name required")
	}
	if err := validatePassword(in.Password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		WalletMoney:  s.defaultWallet,
		Address:      domain.DefaultAddress,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login validates credentials and returns the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GenerateAuthTokens issues an access token for u.
func (s *Service) GenerateAuthTokens(u *domain.User) (AuthTokens, error) {
	token, expires, err := s.tokens.Issue(u.ID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{Access: Token{Token: token, Expires: expires.UTC()}}, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, meta.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return domain.Invalid(fmt.Sprintf("password must be at least %d characters", min))
	}
	hasLetter := false
	hasDigit := false
	for _, r := range p {
		switch {
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.Invalid("password must contain at least 1 letter and 1 number")
	}
	return nil
}
