package models

import (
	"time"
)

// SignupOTP holds the verification code and captured registration data for
// an email address while the account is pending. At most one document exists
// per email; the TTL index on expiresAt evicts stale ones.
type SignupOTP struct {
	Email      string         `bson:"email"`
	OTP        string         `bson:"otp"`
	SignupData *SignupRequest `bson:"signupData,omitempty"`
	ExpiresAt  time.Time      `bson:"expiresAt"`
	Attempts   int            `bson:"attempts"`
	CreatedAt  time.Time      `bson:"createdAt"`
}
