package usersvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quickmart/backend/internal/user/dal/repositories/user/memory"
	"github.com/quickmart/backend/internal/user/service/models/user"
)

const testSecret = "test-secret"

func newService() *UserService {
	return MustNewUserService(
		WithUserRepository(memory.NewUserRepository()),
		WithSecret(testSecret),
	)
}

func TestRegisterLoginIntrospectRoundTrip(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if err := svc.Register(ctx, "a@b.c", "hunter2"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	token, err := svc.Login(ctx, "a@b.c", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	identity, err := svc.Introspect(ctx, token)
	if err != nil {
		t.Fatalf("Introspect failed: %v", err)
	}
	if identity.Email != "a@b.c" {
		t.Fatalf("email = %s, want a@b.c", identity.Email)
	}
	if identity.UserID == 0 {
		t.Fatal("expected a non-zero user id")
	}
	if identity.Exp <= time.Now().Unix() {
		t.Fatalf("exp = %d, want a future timestamp", identity.Exp)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if err := svc.Register(ctx, "a@b.c", "hunter2"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := svc.Register(ctx, "a@b.c", "other")
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if err := svc.Register(ctx, "a@b.c", "hunter2"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(ctx, "a@b.c", "wrong")
	if !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newService()

	_, err := svc.Login(context.Background(), "nobody@b.c", "hunter2")
	if !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestIntrospectRejectsGarbage(t *testing.T) {
	svc := newService()

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Introspect(context.Background(), token)
		if !errors.Is(err, user.ErrInvalidToken) {
			t.Fatalf("token %q: err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestIntrospectRejectsWrongSecret(t *testing.T) {
	issuer := newService()
	ctx := context.Background()

	if err := issuer.Register(ctx, "a@b.c", "hunter2"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token, err := issuer.Login(ctx, "a@b.c", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	verifier := MustNewUserService(
		WithUserRepository(memory.NewUserRepository()),
		WithSecret("another-secret"),
	)

	_, err = verifier.Introspect(ctx, token)
	if !errors.Is(err, user.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestIntrospectRejectsExpiredToken(t *testing.T) {
	svc := newService()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   int64(1),
		"email": "a@b.c",
		"iat":   now.Add(-2 * time.Hour).Unix(),
		"exp":   now.Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, err = svc.Introspect(context.Background(), token)
	if !errors.Is(err, user.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestIntrospectRejectsUnsignedToken(t *testing.T) {
	svc := newService()

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": int64(1),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	_, err = svc.Introspect(context.Background(), token)
	if !errors.Is(err, user.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}
