// Package common defines shared constants and sentinel errors used across
// the Patronly service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrorForbidden = errors.New("forbidden")

	// Authentication errors. Invalid credentials covers both an unknown
	// email and a wrong password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignature   = errors.New("invalid signature")

	// Session token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrIdentityGone = errors.New("identity no longer exists")

	// Ledger errors.
	ErrTransactionFailed = errors.New("transaction failed on chain")
	ErrContentNotFound   = errors.New("content not found")
	ErrAlreadySubscribed = errors.New("already subscribed")
)
