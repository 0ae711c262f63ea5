package users

import "github.com/octoidm/keycloak-user-admin/pkg/keycloak"

// User is a provider user as surfaced by this service. Roles holds only
// whitelisted context roles, in the order the provider reported them.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
	Enabled   bool     `json:"enabled"`
}

// CreateUserParams carries the fields submitted when creating a user.
// Roles is optional; when empty the default role is assigned.
type CreateUserParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Roles     []string
}

// UpdateUserParams carries the replacement profile and credential fields for
// an update. Usernames are immutable and have no field here.
type UpdateUserParams struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func fromRepresentation(rep keycloak.UserRepresentation, userRoles []string) User {
	return User{
		ID:        rep.ID,
		Username:  rep.Username,
		Email:     rep.Email,
		FirstName: rep.FirstName,
		LastName:  rep.LastName,
		Roles:     userRoles,
		Enabled:   rep.Enabled,
	}
}
