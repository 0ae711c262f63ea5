// Package config holds the env-driven configuration shared by the service
// binaries.
package config

// JwtConfig configures verification of inbound bearer tokens.
type JwtConfig struct {
	Secret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
}

// KeycloakConfig identifies the Keycloak deployment and the service-account
// client used for admin calls.
type KeycloakConfig struct {
	BaseURL      string `env:"KEYCLOAK_BASE_URL" env-default:"http://localhost:8080"`
	Realm        string `env:"KEYCLOAK_REALM" env-default:"master"`
	ClientID     string `env:"KEYCLOAK_CLIENT_ID" env-default:"user-admin"`
	ClientSecret string `env:"KEYCLOAK_CLIENT_SECRET"`
}

// AuthConfig configures claim resolution and the role names guarding the
// administrative surface.
type AuthConfig struct {
	// PrincipalClaim overrides the claim the principal name is read from;
	// empty means the subject claim.
	PrincipalClaim string `env:"JWT_PRINCIPAL_CLAIM" env-default:""`
	// ResourceID selects the resource_access block contributing authorities.
	ResourceID string `env:"JWT_RESOURCE_ID" env-default:""`
	AdminRole  string `env:"ADMIN_ROLE" env-default:"admin_client_role"`
	UserRole   string `env:"USER_ROLE" env-default:"user_client_role"`
}
