package feed

import "errors"

var (
	// ErrAuthRequired is surfaced for any write without an authenticated
	// actor. Clients treat it specially by offering a login affordance.
	ErrAuthRequired = errors.New("you must be logged in to do this")

	// ErrInternal hides storage failure detail from the client; the full
	// error is logged server-side.
	ErrInternal = errors.New("something went wrong, please try again")
)

// ValidationError carries a specific, user-facing reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Invalid(reason string) error { return &ValidationError{Reason: reason} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AuthorizationError means the actor is known but not allowed.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

func Unauthorized(reason string) error { return &AuthorizationError{Reason: reason} }

func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// ErrInsufficientSeeds blocks a super like when the actor's seed inventory
// is empty.
var ErrInsufficientSeeds = &ValidationError{Reason: "not enough seeds left for a super like"}
