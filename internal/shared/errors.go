package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session & account errors
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrEmailTaken         = fmt.Errorf("a user with this email already exists")

	// Record errors
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrReleaseNotFound = fmt.Errorf("release not found")
	ErrTicketNotFound  = fmt.Errorf("ticket not found")
	ErrForbidden       = fmt.Errorf("record belongs to another user")
	ErrDuplicateID     = fmt.Errorf("record id already exists")

	// Storage errors
	ErrKeyNotFound    = fmt.Errorf("key not found")
	ErrReadOnly       = fmt.Errorf("write in read-only transaction")
	ErrUnknownBackend = fmt.Errorf("unknown storage backend")
	ErrConflict       = fmt.Errorf("concurrent modification")
	ErrMalformed      = fmt.Errorf("malformed document")

	// Workflow errors
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
	ErrIncompleteStep    = fmt.Errorf("fill all fields")
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
