package services

import "errors"

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// unusable tokens alike so callers cannot probe which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDisabled is returned when the credentials are correct but
	// the account has been deactivated.
	ErrAccountDisabled = errors.New("account is disabled")
)
