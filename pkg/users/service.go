package users

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/octoidm/keycloak-user-admin/pkg/keycloak"
	"github.com/octoidm/keycloak-user-admin/pkg/roles"
)

// DefaultRole is the realm role assigned when a create request names none.
const DefaultRole = "USER"

// AdminClient is the slice of the Keycloak Admin API the service depends on.
// *keycloak.Client satisfies it; tests substitute a fake. Implementations must
// be safe for concurrent use.
type AdminClient interface {
	ListUsers(ctx context.Context) ([]keycloak.UserRepresentation, error)
	SearchUsersByUsername(ctx context.Context, username string) ([]keycloak.UserRepresentation, error)
	CreateUser(ctx context.Context, user keycloak.UserRepresentation) (keycloak.CreateUserResult, error)
	UpdateUser(ctx context.Context, userID string, user keycloak.UserRepresentation) error
	DeleteUser(ctx context.Context, userID string) error
	ResetPassword(ctx context.Context, userID string, credential keycloak.CredentialRepresentation) error
	ListRealmRoles(ctx context.Context) ([]keycloak.RoleRepresentation, error)
	GetRealmRole(ctx context.Context, name string) (keycloak.RoleRepresentation, error)
	AssignRealmRoles(ctx context.Context, userID string, realmRoles []keycloak.RoleRepresentation) error
	GetEffectiveRealmRoles(ctx context.Context, userID string) ([]keycloak.RoleRepresentation, error)
}

// UserService orchestrates administrative user operations against the
// identity provider. It holds no per-request state.
type UserService struct {
	kc          AdminClient
	defaultRole string
}

// Option configures a UserService.
type Option func(*UserService)

// WithDefaultRole overrides the realm role assigned to users created without
// explicit roles.
func WithDefaultRole(name string) Option {
	return func(s *UserService) {
		s.defaultRole = name
	}
}

// NewUserService creates a user service backed by the given admin client.
func NewUserService(kc AdminClient, opts ...Option) *UserService {
	s := &UserService{
		kc:          kc,
		defaultRole: DefaultRole,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindUsers lists all provider users except the one with excludeID, enriching
// each with its whitelisted roles. excludeID may be empty.
func (s *UserService) FindUsers(ctx context.Context, excludeID string) ([]User, error) {
	reps, err := s.kc.ListUsers(ctx)
	if err != nil {
		return nil, ErrProviderFailure{Op: "list users", Err: err}
	}

	result := []User{}
	for _, rep := range reps {
		if rep.ID == excludeID {
			continue
		}
		userRoles, err := s.getUserRoles(ctx, rep.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, fromRepresentation(rep, userRoles))
	}
	return result, nil
}

// FindUserByUsername returns the user matching username exactly. When the
// provider reports several matches only the first is used.
func (s *UserService) FindUserByUsername(ctx context.Context, username string) (User, error) {
	reps, err := s.kc.SearchUsersByUsername(ctx, username)
	if err != nil {
		return User{}, ErrProviderFailure{Op: "search users", Err: err}
	}
	if len(reps) == 0 {
		return User{}, ErrUserNotFound
	}

	rep := reps[0]
	userRoles, err := s.getUserRoles(ctx, rep.ID)
	if err != nil {
		return User{}, err
	}
	return fromRepresentation(rep, userRoles), nil
}

// CreateUser creates the account, sets its credential, and assigns realm
// roles. The three calls are independent; if a step after creation fails the
// account remains and the error carries its id.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (string, error) {
	result, err := s.kc.CreateUser(ctx, keycloak.UserRepresentation{
		Username:      params.Username,
		Email:         params.Email,
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Enabled:       true,
		EmailVerified: true,
	})
	if err != nil {
		return "", ErrProviderFailure{Op: "create user", Err: err}
	}

	switch result.StatusCode {
	case http.StatusCreated:
		// fall through to provisioning below
	case http.StatusConflict:
		return "", ErrUsernameAlreadyExists{Username: params.Username}
	default:
		return "", ErrProviderFailure{Op: "create user", Err: fmt.Errorf("unexpected status %d", result.StatusCode)}
	}

	userID := result.UserID()
	if userID == "" {
		return "", ErrProviderFailure{Op: "create user", Err: fmt.Errorf("created response carried no location")}
	}

	if err := s.provision(ctx, userID, params); err != nil {
		slog.Error("user created but provisioning failed", "userID", userID, "err", err)
		return "", ErrProvisioningIncomplete{UserID: userID, Err: err}
	}

	slog.Info("user created", "userID", userID, "username", params.Username)
	return userID, nil
}

// provision sets the initial credential and assigns realm roles to a freshly
// created account.
func (s *UserService) provision(ctx context.Context, userID string, params CreateUserParams) error {
	if err := s.kc.ResetPassword(ctx, userID, keycloak.PasswordCredential(params.Password)); err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}

	realmRoles, err := s.resolveRealmRoles(ctx, params.Roles)
	if err != nil {
		return err
	}
	if err := s.kc.AssignRealmRoles(ctx, userID, realmRoles); err != nil {
		return fmt.Errorf("failed to assign roles: %w", err)
	}
	return nil
}

// resolveRealmRoles maps requested role names to realm roles. Without a
// request, the default role is assigned. Requested names are matched
// case-insensitively against the realm catalog; unmatched names are dropped.
func (s *UserService) resolveRealmRoles(ctx context.Context, requested []string) ([]keycloak.RoleRepresentation, error) {
	if len(requested) == 0 {
		role, err := s.kc.GetRealmRole(ctx, s.defaultRole)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch default role: %w", err)
		}
		return []keycloak.RoleRepresentation{role}, nil
	}

	catalog, err := s.kc.ListRealmRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list realm roles: %w", err)
	}

	matched := []keycloak.RoleRepresentation{}
	for _, role := range catalog {
		for _, name := range requested {
			if strings.EqualFold(role.Name, name) {
				matched = append(matched, role)
				break
			}
		}
	}
	return matched, nil
}

// UpdateUser replaces the user's profile fields and credential. The username
// is immutable; no username is forwarded to the provider.
func (s *UserService) UpdateUser(ctx context.Context, userID string, params UpdateUserParams) error {
	err := s.kc.UpdateUser(ctx, userID, keycloak.UserRepresentation{
		Email:         params.Email,
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Enabled:       true,
		EmailVerified: true,
		Credentials:   []keycloak.CredentialRepresentation{keycloak.PasswordCredential(params.Password)},
	})
	if err != nil {
		return ErrProviderFailure{Op: "update user", Err: err}
	}
	return nil
}

// DeleteUser removes the account by id. The provider does not distinguish an
// already-absent account from other failures at this layer.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.kc.DeleteUser(ctx, userID); err != nil {
		return ErrProviderFailure{Op: "delete user", Err: err}
	}
	return nil
}

// getUserRoles fetches the user's effective realm roles and keeps only the
// whitelisted context roles.
func (s *UserService) getUserRoles(ctx context.Context, userID string) ([]string, error) {
	realmRoles, err := s.kc.GetEffectiveRealmRoles(ctx, userID)
	if err != nil {
		return nil, ErrProviderFailure{Op: "get user roles", Err: err}
	}

	names := make([]string, 0, len(realmRoles))
	for _, role := range realmRoles {
		names = append(names, role.Name)
	}
	return roles.Filter(names), nil
}
