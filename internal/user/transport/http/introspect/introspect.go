package introspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quickmart/backend/internal/user/service/models/user"
)

type service interface {
	Introspect(ctx context.Context, token string) (*user.Identity, error)
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
}

// Introspect handles the credential introspection request.
func Introspect(w http.ResponseWriter, r *http.Request, service service) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" || !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
		http.Error(w, "Missing token", http.StatusUnauthorized)

		return
	}

	token := strings.SplitN(authorization, " ", 2)[1]

	identity, err := service.Introspect(r.Context(), token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)

		return
	}

	response := introspectResponse{
		Active: true,
		UserID: identity.UserID,
		Email:  identity.Email,
		Exp:    identity.Exp,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response for introspect", "error", err)
	}
}
