package user

import "errors"

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// User is an account row. The password hash never leaves the service.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

// Identity is what introspection reveals about a valid credential.
type Identity struct {
	UserID int64
	Email  string
	Exp    int64
}
