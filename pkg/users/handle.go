package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/octoidm/keycloak-user-admin/pkg/authn"
)

// CreateUserRequest is the request body for creating a user. The client-side
// ID is accepted for compatibility but never forwarded to the provider, which
// assigns its own id. Username is likewise accepted on update bodies and
// ignored there.
type CreateUserRequest struct {
	ID        *int64   `json:"id,omitempty"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Password  string   `json:"password"`
	Roles     []string `json:"roles,omitempty"`
	Enabled   *bool    `json:"enabled,omitempty"`
}

// Handle handles HTTP requests for user administration.
type Handle struct {
	userService *UserService
}

// NewHandle creates a user administration handler.
func NewHandle(userService *UserService) Handle {
	return Handle{
		userService: userService,
	}
}

// RegisterRoutes registers the user administration routes.
func (h Handle) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/{username}", h.GetUserByUsername)
	r.Put("/{userId}", h.UpdateUser)
	r.Delete("/{userId}", h.DeleteUser)
}

// ListUsers returns all users except the caller's own account. An explicit
// exclude query parameter overrides the authenticated principal.
// (GET /)
func (h Handle) ListUsers(w http.ResponseWriter, r *http.Request) {
	excludeID := r.URL.Query().Get("exclude")
	if excludeID == "" {
		if principal, ok := authn.PrincipalFromContext(r.Context()); ok {
			excludeID = principal.Name
		}
	}

	result, err := h.userService.FindUsers(r.Context(), excludeID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetUserByUsername returns a single user by exact username match.
// (GET /{username})
func (h Handle) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.FindUserByUsername(r.Context(), username)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

// CreateUser creates a user and responds with the provider-assigned id.
// (POST /)
func (h Handle) CreateUser(w http.ResponseWriter, r *http.Request) {
	data := CreateUserRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		http.Error(w, "unable to parse body", http.StatusBadRequest)
		return
	}
	if data.Username == "" || data.Email == "" || data.Password == "" {
		http.Error(w, "username, email and password are required", http.StatusBadRequest)
		return
	}

	params := CreateUserParams{}
	copier.Copy(&params, data)

	userID, err := h.userService.CreateUser(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.PlainText(w, r, userID)
}

// UpdateUser replaces a user's profile fields and credential.
// (PUT /{userId})
func (h Handle) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(userID); err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	data := CreateUserRequest{}
	if err := render.DecodeJSON(r.Body, &data); err != nil {
		http.Error(w, "unable to parse body", http.StatusBadRequest)
		return
	}

	params := UpdateUserParams{}
	copier.Copy(&params, data)

	if err := h.userService.UpdateUser(r.Context(), userID, params); err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, true)
}

// DeleteUser removes a user by id.
// (DELETE /{userId})
func (h Handle) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(userID); err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, true)
}

// respondError maps the service error taxonomy onto response statuses:
// not-found and duplicate are caller mistakes (400), everything reaching the
// provider and failing is 409.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var duplicateErr ErrUsernameAlreadyExists
	var incompleteErr ErrProvisioningIncomplete

	switch {
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusBadRequest)
	case errors.As(err, &duplicateErr):
		http.Error(w, duplicateErr.Error(), http.StatusBadRequest)
	case errors.As(err, &incompleteErr):
		slog.Error("provisioning incomplete", "userID", incompleteErr.UserID, "err", err)
		http.Error(w, incompleteErr.Error(), http.StatusConflict)
	default:
		slog.Error("identity provider error", "err", err)
		http.Error(w, "identity provider error", http.StatusConflict)
	}
}
