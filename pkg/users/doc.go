// Package users provides administrative user management delegated to a
// Keycloak realm.
//
// The package owns no user store: Keycloak is authoritative. The service
// orchestrates multi-step remote calls (create account, set credential,
// assign roles) without a distributed transaction; its partial-failure
// behavior is part of the error taxonomy below.
//
// # Overview
//
// The users package provides:
//   - Listing realm users, excluding the caller's own account
//   - Exact-match lookup by username
//   - User creation with credential and realm-role provisioning
//   - Profile and credential updates (usernames are immutable)
//   - User deletion
//   - HTTP handlers for the administrative API
//
// # Basic Usage
//
//	import (
//		"github.com/octoidm/keycloak-user-admin/pkg/keycloak"
//		"github.com/octoidm/keycloak-user-admin/pkg/users"
//	)
//
//	kc := keycloak.NewClient(keycloak.Config{
//		BaseURL:      "http://localhost:8080",
//		Realm:        "master",
//		ClientID:     "user-admin",
//		ClientSecret: "secret",
//	})
//	service := users.NewUserService(kc)
//
//	userID, err := service.CreateUser(ctx, users.CreateUserParams{
//		Username:  "johndoe",
//		Email:     "john@example.com",
//		FirstName: "John",
//		LastName:  "Doe",
//		Password:  "SecurePass123!",
//		Roles:     []string{"developer"},
//	})
//
// # Error Taxonomy
//
//   - ErrUserNotFound: username lookup yielded no match
//   - ErrUsernameAlreadyExists: the provider rejected a duplicate username
//   - ErrProvisioningIncomplete: the account exists but credential or role
//     setup failed; carries the created user id so the caller can retry or
//     clean up
//   - ErrProviderFailure: any other provider error
//
// # Related Packages
//
//   - pkg/keycloak - the Admin API client this service drives
//   - pkg/roles - the context-role whitelist applied to reported roles
//   - pkg/authn - bearer-token authorities guarding the HTTP surface
package users
