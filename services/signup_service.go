package services

import (
	"context"
	"errors"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
	"github.com/SufiyaaanShaikh/ExploreMates-Backend/utils"
)

const (
	otpLength         = 4
	otpTTL            = 5 * time.Minute
	maxVerifyAttempts = 5
	maxUsernameLength = 15
	maxUsernameProbes = 1000
)

// AccountStore is the slice of the user store the signup flow needs.
// Lookups that match nothing return mongo.ErrNoDocuments.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// PendingSignupStore persists at most one pending signup per email
type PendingSignupStore interface {
	FindByEmail(ctx context.Context, email string) (*models.SignupOTP, error)
	Replace(ctx context.Context, doc *models.SignupOTP) error
	IncrementAttempts(ctx context.Context, email string) (int, error)
	Delete(ctx context.Context, email string) error
}

// NotificationSender delivers the verification email
type NotificationSender interface {
	Send(to, subject, body string) error
}

// SignupService mediates the unverified-claim to verified-account
// transition. Accounts are only ever created through VerifySignup.
type SignupService struct {
	accounts AccountStore
	pending  PendingSignupStore
	sender   NotificationSender
	logger   *log.Logger

	// injectable for deterministic tests
	generateCode func() (string, error)
	now          func() time.Time
}

func NewSignupService(accounts AccountStore, pending PendingSignupStore, sender NotificationSender) *SignupService {
	return &SignupService{
		accounts:     accounts,
		pending:      pending,
		sender:       sender,
		logger:       log.New(os.Stdout, "[SIGNUP] ", log.LstdFlags),
		generateCode: func() (string, error) { return utils.GenerateNumericOTP(otpLength) },
		now:          time.Now,
	}
}

// StartSignup captures the registration claim behind a fresh OTP. Any prior
// pending signup for the email is superseded. The code is never returned to
// the caller; it only travels by email.
func (s *SignupService) StartSignup(ctx context.Context, req *models.SignupRequest) (string, error) {
	_, err := s.accounts.FindByEmail(ctx, req.Email)
	if err == nil {
		return "", ErrDuplicateAccount
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return "", err
	}

	code, err := s.generateCode()
	if err != nil {
		return "", err
	}

	now := s.now()
	doc := &models.SignupOTP{
		Email:      req.Email,
		OTP:        code,
		SignupData: req,
		ExpiresAt:  now.Add(otpTTL),
		Attempts:   0,
		CreatedAt:  now,
	}

	if err := s.pending.Replace(ctx, doc); err != nil {
		return "", err
	}

	subject, body := utils.SignupOTPEmail(req.Name, code)
	if err := s.sender.Send(req.Email, subject, body); err != nil {
		// The pending signup stays persisted so the user can resend
		s.logger.Printf("OTP email failed for %s: %v", req.Email, err)
		return "", ErrNotificationFailed
	}

	return req.Email, nil
}

// VerifySignup checks the supplied code against the pending signup. The
// attempt counter is persisted before the code is evaluated, so a crash
// mid-check still counts the attempt.
func (s *SignupService) VerifySignup(ctx context.Context, email, suppliedCode string) (*models.User, error) {
	doc, err := s.pending.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoPendingSignup
		}
		return nil, err
	}

	// The TTL monitor sweeps periodically, so an expired record can still
	// be observed here; treat it the same as an evicted one.
	if s.now().After(doc.ExpiresAt) {
		s.pending.Delete(ctx, email)
		return nil, ErrNoPendingSignup
	}

	attempts, err := s.pending.IncrementAttempts(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoPendingSignup
		}
		return nil, err
	}

	if attempts > maxVerifyAttempts {
		// Terminates this signup cycle; the user must start over
		if err := s.pending.Delete(ctx, email); err != nil {
			s.logger.Printf("failed to delete exhausted pending signup for %s: %v", email, err)
		}
		return nil, ErrAttemptsExceeded
	}

	if doc.OTP != suppliedCode {
		return nil, &InvalidCodeError{Remaining: maxVerifyAttempts - attempts}
	}

	signupData := doc.SignupData
	if signupData == nil {
		return nil, ErrNoPendingSignup
	}

	username, err := s.deriveUniqueUsername(ctx, signupData.Name)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signupData.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userType := signupData.UserType
	if userType == "" {
		userType = "user"
	}

	now := s.now()
	user := &models.User{
		ID:          primitive.NewObjectID(),
		Name:        signupData.Name,
		Email:       signupData.Email,
		Username:    username,
		Password:    string(hashedPassword),
		UserType:    userType,
		DateOfBirth: signupData.DateOfBirth,
		Followers:   []primitive.ObjectID{},
		Following:   []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.accounts.Create(ctx, user); err != nil {
		// The pending signup is left in place; the user can resend and
		// try again once the store recovers
		return nil, err
	}

	// Account create and pending delete are two steps; once the delete
	// lands, a repeated verify reports no pending signup
	if err := s.pending.Delete(ctx, email); err != nil {
		s.logger.Printf("failed to delete verified pending signup for %s: %v", email, err)
	}

	user.Password = ""
	return user, nil
}

// ResendSignup refreshes the pending signup with a new code, a reset
// attempt counter and a fresh expiry, then re-sends the email. The new
// state is persisted first and is not rolled back if the send fails.
func (s *SignupService) ResendSignup(ctx context.Context, email string) (string, error) {
	doc, err := s.pending.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNoPendingSignup
		}
		return "", err
	}

	if s.now().After(doc.ExpiresAt) {
		s.pending.Delete(ctx, email)
		return "", ErrNoPendingSignup
	}

	code, err := s.generateCode()
	if err != nil {
		return "", err
	}

	doc.OTP = code
	doc.Attempts = 0
	doc.ExpiresAt = s.now().Add(otpTTL)

	if err := s.pending.Replace(ctx, doc); err != nil {
		return "", err
	}

	name := email
	if doc.SignupData != nil {
		name = doc.SignupData.Name
	}
	subject, body := utils.SignupOTPEmail(name, code)
	if err := s.sender.Send(email, subject, body); err != nil {
		s.logger.Printf("OTP resend failed for %s: %v", email, err)
		return "", ErrNotificationFailed
	}

	return email, nil
}

var usernameStripRegex = regexp.MustCompile(`[^a-z0-9]`)

// deriveUniqueUsername lowercases the name, strips non-alphanumerics,
// truncates to 15 characters and probes for a free username, appending an
// incrementing suffix on collision. The probe bound is a safety stop, not
// something expected to trigger.
func (s *SignupService) deriveUniqueUsername(ctx context.Context, name string) (string, error) {
	base := usernameStripRegex.ReplaceAllString(strings.ToLower(name), "")
	if len(base) > maxUsernameLength {
		base = base[:maxUsernameLength]
	}
	if base == "" {
		base = "user"
	}

	for i := 0; i < maxUsernameProbes; i++ {
		candidate := base
		if i > 0 {
			candidate = base + strconv.Itoa(i)
		}

		_, err := s.accounts.FindByUsername(ctx, candidate)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", ErrUsernameExhausted
}
