// Package authn converts verified bearer-token claims into an AuthPrincipal
// carrying the principal name and its authorities.
//
// Token signature and expiry verification happen upstream (go-chi/jwtauth);
// this package only navigates the claim structure. Authorities come from two
// places: the flat roles claim, and the resource-scoped block
// resource_access[<resource id>].roles. Every role name is surfaced with the
// "ROLE_" prefix so the guard middleware treats both origins uniformly.
package authn

import (
	"errors"
	"log/slog"

	"golang.org/x/exp/slices"
)

// AuthorityPrefix is prepended to every role name when it becomes an authority.
const AuthorityPrefix = "ROLE_"

const (
	subjectClaim        = "sub"
	resourceAccessClaim = "resource_access"
	rolesClaimKey       = "roles"
)

// ErrMissingPrincipalClaim is returned when neither the configured principal
// claim nor the subject claim resolves to a value. Upstream token validation
// should make this unreachable for well-formed tokens.
var ErrMissingPrincipalClaim = errors.New("token has no resolvable principal claim")

// AuthPrincipal is the authenticated identity attached to a request.
type AuthPrincipal struct {
	Name        string   `json:"name"`
	Authorities []string `json:"authorities"`
}

func (p AuthPrincipal) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("principal", p.Name),
		slog.Any("authorities", p.Authorities),
	)
}

// HasAuthority reports whether the principal holds the given authority.
func (p AuthPrincipal) HasAuthority(authority string) bool {
	return slices.Contains(p.Authorities, authority)
}

// HasAnyAuthority reports whether the principal holds at least one of the
// given authorities.
func (p AuthPrincipal) HasAnyAuthority(authorities ...string) bool {
	for _, authority := range authorities {
		if p.HasAuthority(authority) {
			return true
		}
	}
	return false
}

// Converter turns a verified token's claims into an AuthPrincipal.
// The zero value resolves the principal from the subject claim and skips the
// resource-scoped contribution.
type Converter struct {
	principalClaim string
	resourceID     string
	rolesClaim     string
}

// Option configures a Converter.
type Option func(*Converter)

// WithPrincipalClaim sets the claim the principal name is read from.
// When unset, or when the claim is absent, the subject claim is used.
func WithPrincipalClaim(claim string) Option {
	return func(c *Converter) {
		c.principalClaim = claim
	}
}

// WithResourceID sets the resource_access key whose roles contribute
// authorities. When unset, the resource-scoped contribution is empty.
func WithResourceID(resourceID string) Option {
	return func(c *Converter) {
		c.resourceID = resourceID
	}
}

// WithRolesClaim overrides the flat roles claim name, "roles" by default.
func WithRolesClaim(claim string) Option {
	return func(c *Converter) {
		c.rolesClaim = claim
	}
}

// NewConverter creates a Converter with the given options.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		rolesClaim: rolesClaimKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert resolves the principal name and the union of flat and
// resource-scoped authorities from the claims map. The returned authorities
// are deduplicated and sorted. Convert has no side effects.
func (c *Converter) Convert(claims map[string]interface{}) (AuthPrincipal, error) {
	name, err := c.principalName(claims)
	if err != nil {
		return AuthPrincipal{}, err
	}

	seen := make(map[string]struct{})
	authorities := []string{}
	for _, role := range append(c.flatRoles(claims), c.resourceRoles(claims)...) {
		authority := AuthorityPrefix + role
		if _, ok := seen[authority]; ok {
			continue
		}
		seen[authority] = struct{}{}
		authorities = append(authorities, authority)
	}
	slices.Sort(authorities)

	return AuthPrincipal{Name: name, Authorities: authorities}, nil
}

func (c *Converter) principalName(claims map[string]interface{}) (string, error) {
	if c.principalClaim != "" {
		if name, ok := stringClaim(claims, c.principalClaim); ok {
			return name, nil
		}
	}
	if name, ok := stringClaim(claims, subjectClaim); ok {
		return name, nil
	}
	return "", ErrMissingPrincipalClaim
}

func (c *Converter) flatRoles(claims map[string]interface{}) []string {
	return stringSlice(claims[c.rolesClaim])
}

// resourceRoles walks resource_access[resourceID].roles. Each missing level
// short-circuits to an empty contribution.
func (c *Converter) resourceRoles(claims map[string]interface{}) []string {
	if c.resourceID == "" {
		return nil
	}
	resourceAccess, ok := mapClaim(claims, resourceAccessClaim)
	if !ok {
		return nil
	}
	resource, ok := mapClaim(resourceAccess, c.resourceID)
	if !ok {
		return nil
	}
	return stringSlice(resource[rolesClaimKey])
}

func stringClaim(claims map[string]interface{}, key string) (string, bool) {
	value, ok := claims[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func mapClaim(claims map[string]interface{}, key string) (map[string]interface{}, bool) {
	value, ok := claims[key].(map[string]interface{})
	return value, ok
}

// stringSlice normalizes a claim value into a list of role names. Decoded JSON
// yields []interface{}; tokens built in-process may carry []string directly.
func stringSlice(value interface{}) []string {
	switch values := value.(type) {
	case []string:
		return values
	case []interface{}:
		names := make([]string, 0, len(values))
		for _, v := range values {
			if name, ok := v.(string); ok {
				names = append(names, name)
			}
		}
		return names
	default:
		return nil
	}
}
