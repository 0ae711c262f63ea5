package keycloak

import "strings"

// UserRepresentation mirrors the Keycloak Admin API user resource, limited to
// the fields this service reads and writes.
type UserRepresentation struct {
	ID            string                     `json:"id,omitempty"`
	Username      string                     `json:"username,omitempty"`
	Email         string                     `json:"email,omitempty"`
	FirstName     string                     `json:"firstName,omitempty"`
	LastName      string                     `json:"lastName,omitempty"`
	Enabled       bool                       `json:"enabled"`
	EmailVerified bool                       `json:"emailVerified"`
	Credentials   []CredentialRepresentation `json:"credentials,omitempty"`
}

// CredentialRepresentation is a user credential as accepted by the Admin API.
type CredentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// PasswordCredential builds a non-temporary password credential.
func PasswordCredential(password string) CredentialRepresentation {
	return CredentialRepresentation{
		Type:      "password",
		Value:     password,
		Temporary: false,
	}
}

// RoleRepresentation is a realm-level role as reported by the Admin API.
type RoleRepresentation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CreateUserResult is the raw outcome of a create-user call. The Admin API
// signals duplicates with a 409 status rather than an error body this client
// can interpret, so the status is handed to the caller to branch on.
type CreateUserResult struct {
	StatusCode int
	Location   string
}

// UserID extracts the provider-assigned user id from the Location header of a
// successful create. Empty when the location is absent or malformed.
func (r CreateUserResult) UserID() string {
	if r.Location == "" {
		return ""
	}
	location := strings.TrimSuffix(r.Location, "/")
	return location[strings.LastIndex(location, "/")+1:]
}
