package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/quickmart/backend/internal/user/service/models/user"
)

type service interface {
	Register(ctx context.Context, email string, password string) error
}

// registerRequest represents a registration request.
type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the registration request.
func (r *registerRequest) Validate() error {
	return validator.New().Struct(r)
}

// Register handles the account registration request.
func Register(w http.ResponseWriter, r *http.Request, service service) {
	req := registerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for register", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for register", "error", err)

		return
	}

	err := service.Register(r.Context(), req.Email, req.Password)
	if errors.Is(err, user.ErrEmailTaken) {
		http.Error(w, "Email already exists", http.StatusConflict)

		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error registering user", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"registered":true}`)); err != nil {
		slog.Error("Error sending response for register", "error", err)
	}
}
