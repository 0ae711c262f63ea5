// Package roles defines the fixed set of context roles this service recognizes.
//
// Keycloak reports a number of built-in realm roles (offline_access,
// uma_authorization, default-roles-*) on every user. Only the roles listed here
// are part of this system's authorization model; everything else is filtered
// out before a user record is returned to a caller.
package roles

import "strings"

// Context role names, matched case-insensitively.
const (
	User       = "user"
	Admin      = "admin"
	Developer  = "developer"
	Supervisor = "supervisor"
)

var contextRoles = map[string]struct{}{
	User:       {},
	Admin:      {},
	Developer:  {},
	Supervisor: {},
}

// IsAllowed reports whether name matches one of the context roles,
// ignoring case.
func IsAllowed(name string) bool {
	_, ok := contextRoles[strings.ToLower(name)]
	return ok
}

// Filter returns the subset of names recognized by IsAllowed, preserving
// the input order.
func Filter(names []string) []string {
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if IsAllowed(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}
