// Package keycloak implements a client for the Keycloak Admin REST API,
// covering the user and realm-role operations the provisioning service needs.
//
// The client authenticates as a service account via the OAuth2
// client-credentials flow; the token source refreshes itself and the client is
// safe for concurrent use. Construct one explicitly and inject it — there is
// no package-level instance.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config identifies the Keycloak deployment and the service-account client
// used for admin calls.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
}

// APIError is a non-success response from the Admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("keycloak admin api returned status %d: %s", e.StatusCode, e.Body)
}

// Client calls the Keycloak Admin REST API for a single realm.
type Client struct {
	baseURL    string
	realm      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseHTTPClient *http.Client
}

// WithHTTPClient sets the HTTP client used for token and admin calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.baseHTTPClient = httpClient
	}
}

// NewClient creates an admin client for the realm in cfg.
func NewClient(cfg Config, opts ...Option) *Client {
	options := &clientOptions{
		baseHTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(options)
	}

	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", cfg.BaseURL, cfg.Realm),
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, options.baseHTTPClient)

	return &Client{
		baseURL:    cfg.BaseURL,
		realm:      cfg.Realm,
		httpClient: credentials.Client(ctx),
	}
}

// ListUsers returns all users of the realm.
func (c *Client) ListUsers(ctx context.Context) ([]UserRepresentation, error) {
	var users []UserRepresentation
	if err := c.doJSON(ctx, http.MethodGet, c.adminURL("/users"), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SearchUsersByUsername performs an exact-match username search.
func (c *Client) SearchUsersByUsername(ctx context.Context, username string) ([]UserRepresentation, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("exact", "true")

	var users []UserRepresentation
	if err := c.doJSON(ctx, http.MethodGet, c.adminURL("/users")+"?"+query.Encode(), nil, &users); err != nil {
		return nil, fmt.Errorf("failed to search users by username: %w", err)
	}
	return users, nil
}

// CreateUser submits a new user and returns the raw status and created-resource
// location. Statuses like 409 are data for the caller, not errors; only a
// transport failure returns a non-nil error.
func (c *Client) CreateUser(ctx context.Context, user UserRepresentation) (CreateUserResult, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return CreateUserResult{}, fmt.Errorf("failed to encode user: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.adminURL("/users"), bytes.NewReader(body))
	if err != nil {
		return CreateUserResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CreateUserResult{}, fmt.Errorf("failed to call create user: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return CreateUserResult{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
	}, nil
}

// UpdateUser replaces the given fields of an existing user.
func (c *Client) UpdateUser(ctx context.Context, userID string, user UserRepresentation) error {
	if err := c.doJSON(ctx, http.MethodPut, c.adminURL("/users/"+userID), user, nil); err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return nil
}

// DeleteUser removes a user by id.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, c.adminURL("/users/"+userID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

// ResetPassword sets a user's credential.
func (c *Client) ResetPassword(ctx context.Context, userID string, credential CredentialRepresentation) error {
	if err := c.doJSON(ctx, http.MethodPut, c.adminURL("/users/"+userID+"/reset-password"), credential, nil); err != nil {
		return fmt.Errorf("failed to reset password for user %s: %w", userID, err)
	}
	return nil
}

// ListRealmRoles returns the realm's full role catalog.
func (c *Client) ListRealmRoles(ctx context.Context) ([]RoleRepresentation, error) {
	var realmRoles []RoleRepresentation
	if err := c.doJSON(ctx, http.MethodGet, c.adminURL("/roles"), nil, &realmRoles); err != nil {
		return nil, fmt.Errorf("failed to list realm roles: %w", err)
	}
	return realmRoles, nil
}

// GetRealmRole fetches a single realm role by name.
func (c *Client) GetRealmRole(ctx context.Context, name string) (RoleRepresentation, error) {
	var role RoleRepresentation
	if err := c.doJSON(ctx, http.MethodGet, c.adminURL("/roles/"+url.PathEscape(name)), nil, &role); err != nil {
		return RoleRepresentation{}, fmt.Errorf("failed to get realm role %q: %w", name, err)
	}
	return role, nil
}

// AssignRealmRoles adds realm-level role mappings to a user.
func (c *Client) AssignRealmRoles(ctx context.Context, userID string, realmRoles []RoleRepresentation) error {
	if err := c.doJSON(ctx, http.MethodPost, c.adminURL("/users/"+userID+"/role-mappings/realm"), realmRoles, nil); err != nil {
		return fmt.Errorf("failed to assign realm roles to user %s: %w", userID, err)
	}
	return nil
}

// GetEffectiveRealmRoles returns a user's effective realm-level roles,
// including those inherited through composites.
func (c *Client) GetEffectiveRealmRoles(ctx context.Context, userID string) ([]RoleRepresentation, error) {
	var realmRoles []RoleRepresentation
	if err := c.doJSON(ctx, http.MethodGet, c.adminURL("/users/"+userID+"/role-mappings/realm/composite"), nil, &realmRoles); err != nil {
		return nil, fmt.Errorf("failed to get effective realm roles for user %s: %w", userID, err)
	}
	return realmRoles, nil
}

func (c *Client) adminURL(path string) string {
	return fmt.Sprintf("%s/admin/realms/%s%s", c.baseURL, c.realm, path)
}

// doJSON performs a request with an optional JSON body and decodes a JSON
// response into out when out is non-nil. Non-2xx responses become *APIError.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(responseBody)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
