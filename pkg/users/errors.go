package users

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when a username search yields no match.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameAlreadyExists is returned when the provider reports a conflicting
// username at creation.
type ErrUsernameAlreadyExists struct {
	Username string
}

func (e ErrUsernameAlreadyExists) Error() string {
	return fmt.Sprintf("username already exists: %s", e.Username)
}

// ErrProviderFailure wraps any non-success provider response or transport
// failure outside the cases above.
type ErrProviderFailure struct {
	Op  string
	Err error
}

func (e ErrProviderFailure) Error() string {
	return fmt.Sprintf("identity provider failure during %s: %v", e.Op, e.Err)
}

func (e ErrProviderFailure) Unwrap() error {
	return e.Err
}

// ErrProvisioningIncomplete is returned when the account was created but a
// later provisioning step (credential set or role assignment) failed. UserID
// identifies the half-provisioned account; the remote account is not deleted.
type ErrProvisioningIncomplete struct {
	UserID string
	Err    error
}

func (e ErrProvisioningIncomplete) Error() string {
	return fmt.Sprintf("user %s created but provisioning incomplete: %v", e.UserID, e.Err)
}

func (e ErrProvisioningIncomplete) Unwrap() error {
	return e.Err
}
