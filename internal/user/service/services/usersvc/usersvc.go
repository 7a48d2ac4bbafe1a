package usersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickmart/backend/internal/user/dal/interfaces/iuserrepo"
	"github.com/quickmart/backend/internal/user/service/models/user"
)

const tokenTTL = time.Hour

// UserService issues and verifies bearer credentials.
type UserService struct {
	repo   iuserrepo.Repository
	secret []byte
}

// option is a function that configures the UserService.
type option func(*UserService)

// MustNewUserService creates a new UserService. The signing secret comes from
// JWT_SECRET unless overridden by an option.
func MustNewUserService(opts ...option) *UserService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "devsecret"
	}

	s := &UserService{secret: []byte(secret)}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(repo iuserrepo.Repository) option {
	return func(s *UserService) {
		s.repo = repo
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithSecret(secret string) option {
	return func(s *UserService) {
		s.secret = []byte(secret)
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, email string, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.repo.Create(ctx, email, string(hash))
	if err != nil {
		return err
	}

	slog.Info("user registered", "user_id", id)

	return nil
}

// Login verifies the password and issues a signed bearer token.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrInvalidCredentials) {
		return "", user.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", user.ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

// Introspect validates a token and returns the caller identity. Every
// failure mode (bad signature, malformed, expired) collapses to
// user.ErrInvalidToken.
func (s *UserService) Introspect(_ context.Context, token string) (*user.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, user.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, user.ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, user.ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	exp, _ := claims["exp"].(float64)

	return &user.Identity{
		UserID: int64(sub),
		Email:  email,
		Exp:    int64(exp),
	}, nil
}
