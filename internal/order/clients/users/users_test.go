package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quickmart/backend/pkg/httpx"
)

func TestIntrospect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			http.Error(w, "Invalid token", http.StatusUnauthorized)

			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"active": true, "user_id": 7, "email": "a@b.c", "exp": 1_900_000_000,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, httpx.NewClient(time.Second))
	ctx := context.Background()

	identity, err := client.Introspect(ctx, "Bearer good")
	if err != nil {
		t.Fatalf("Introspect failed: %v", err)
	}
	if !identity.Active || identity.UserID != 7 || identity.Email != "a@b.c" {
		t.Fatalf("identity = %+v, want active user 7 a@b.c", identity)
	}

	_, err = client.Introspect(ctx, "Bearer bad")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
