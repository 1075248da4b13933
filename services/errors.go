package services

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the signup and social services. Controllers map
// these onto HTTP statuses; none of them is fatal to the process.
var (
	ErrDuplicateAccount   = errors.New("an account with this email already exists")
	ErrNoPendingSignup    = errors.New("no pending signup found for this email")
	ErrAttemptsExceeded   = errors.New("maximum verification attempts exceeded, please sign up again")
	ErrUsernameExhausted  = errors.New("could not derive a unique username")
	ErrNotificationFailed = errors.New("failed to send verification email")
	ErrSelfFollow         = errors.New("you cannot follow yourself")
	ErrAccountNotFound    = errors.New("user not found")
)

// InvalidCodeError reports a wrong verification code along with how many
// attempts the pending signup has left
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid OTP, %d attempts remaining", e.Remaining)
}
