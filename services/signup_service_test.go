package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
)

type fakeAccountStore struct {
	byEmail    map[string]*models.User
	byUsername map[string]*models.User
	createErr  error
	usernames  []string // FindByUsername probe log
	taken      bool     // when set, every username probe reports a collision
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		byEmail:    make(map[string]*models.User),
		byUsername: make(map[string]*models.User),
	}
}

func (f *fakeAccountStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAccountStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	f.usernames = append(f.usernames, username)
	if f.taken {
		return &models.User{Username: username}, nil
	}
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeAccountStore) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byEmail[user.Email] = user
	f.byUsername[user.Username] = user
	return nil
}

type fakePendingStore struct {
	docs map[string]*models.SignupOTP
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{docs: make(map[string]*models.SignupOTP)}
}

func (f *fakePendingStore) FindByEmail(_ context.Context, email string) (*models.SignupOTP, error) {
	if d, ok := f.docs[email]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakePendingStore) Replace(_ context.Context, doc *models.SignupOTP) error {
	copied := *doc
	f.docs[doc.Email] = &copied
	return nil
}

func (f *fakePendingStore) IncrementAttempts(_ context.Context, email string) (int, error) {
	d, ok := f.docs[email]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	d.Attempts++
	return d.Attempts, nil
}

func (f *fakePendingStore) Delete(_ context.Context, email string) error {
	delete(f.docs, email)
	return nil
}

type fakeSender struct {
	sent    []string // recipient addresses
	bodies  []string
	sendErr error
}

func (f *fakeSender) Send(to, _, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to)
	f.bodies = append(f.bodies, body)
	return nil
}

func newTestSignupService(accounts *fakeAccountStore, pending *fakePendingStore, sender *fakeSender) *SignupService {
	svc := NewSignupService(accounts, pending, sender)
	svc.generateCode = func() (string, error) { return "1234", nil }
	return svc
}

func signupReq() *models.SignupRequest {
	return &models.SignupRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Password: "supersecret1",
	}
}

func TestStartSignupStoresPendingAndSendsCode(t *testing.T) {
	accounts := newFakeAccountStore()
	pending := newFakePendingStore()
	sender := &fakeSender{}
	svc := newTestSignupService(accounts, pending, sender)

	email, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)

	doc, err := pending.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1234", doc.OTP)
	assert.Equal(t, 0, doc.Attempts)
	require.NotNil(t, doc.SignupData)
	assert.Equal(t, "Jane Doe", doc.SignupData.Name)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@example.com", sender.sent[0])
	assert.Contains(t, sender.bodies[0], "1234")

	// No account yet
	_, err = accounts.FindByEmail(context.Background(), "jane@example.com")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestStartSignupRejectsExistingAccount(t *testing.T) {
	accounts := newFakeAccountStore()
	accounts.byEmail["jane@example.com"] = &models.User{Email: "jane@example.com"}
	svc := newTestSignupService(accounts, newFakePendingStore(), &fakeSender{})

	_, err := svc.StartSignup(context.Background(), signupReq())
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestStartSignupSupersedesPriorPending(t *testing.T) {
	accounts := newFakeAccountStore()
	pending := newFakePendingStore()
	sender := &fakeSender{}
	svc := newTestSignupService(accounts, pending, sender)

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	// Burn a few attempts on the first code
	pending.docs["jane@example.com"].Attempts = 3

	svc.generateCode = func() (string, error) { return "9999", nil }
	_, err = svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	doc := pending.docs["jane@example.com"]
	assert.Equal(t, "9999", doc.OTP)
	assert.Equal(t, 0, doc.Attempts)
	assert.Len(t, pending.docs, 1)
}

func TestStartSignupKeepsPendingWhenEmailFails(t *testing.T) {
	pending := newFakePendingStore()
	sender := &fakeSender{sendErr: errors.New("smtp down")}
	svc := newTestSignupService(newFakeAccountStore(), pending, sender)

	_, err := svc.StartSignup(context.Background(), signupReq())
	assert.ErrorIs(t, err, ErrNotificationFailed)

	_, err = pending.FindByEmail(context.Background(), "jane@example.com")
	assert.NoError(t, err)
}

func TestVerifySignupCreatesAccount(t *testing.T) {
	accounts := newFakeAccountStore()
	pending := newFakePendingStore()
	svc := newTestSignupService(accounts, pending, &fakeSender{})

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	user, err := svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", user.Username)
	assert.Equal(t, "user", user.UserType)
	assert.Empty(t, user.Password)

	stored := accounts.byEmail["jane@example.com"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("supersecret1")))
	assert.NotNil(t, stored.Followers)
	assert.NotNil(t, stored.Following)

	// Verification is terminal
	_, err = svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	assert.ErrorIs(t, err, ErrNoPendingSignup)
}

func TestVerifySignupWrongCodeLadder(t *testing.T) {
	accounts := newFakeAccountStore()
	pending := newFakePendingStore()
	svc := newTestSignupService(accounts, pending, &fakeSender{})

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	for _, remaining := range []int{4, 3, 2, 1, 0} {
		_, err := svc.VerifySignup(context.Background(), "jane@example.com", "0000")
		var invalid *InvalidCodeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, remaining, invalid.Remaining)
	}

	// Sixth wrong attempt ends the cycle
	_, err = svc.VerifySignup(context.Background(), "jane@example.com", "0000")
	assert.ErrorIs(t, err, ErrAttemptsExceeded)

	// The pending record is gone, even the right code no longer works
	_, err = svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	assert.ErrorIs(t, err, ErrNoPendingSignup)
}

func TestVerifySignupNoPending(t *testing.T) {
	svc := newTestSignupService(newFakeAccountStore(), newFakePendingStore(), &fakeSender{})

	_, err := svc.VerifySignup(context.Background(), "nobody@example.com", "1234")
	assert.ErrorIs(t, err, ErrNoPendingSignup)
}

func TestVerifySignupExpiredPending(t *testing.T) {
	pending := newFakePendingStore()
	svc := newTestSignupService(newFakeAccountStore(), pending, &fakeSender{})

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	_, err = svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	assert.ErrorIs(t, err, ErrNoPendingSignup)
	assert.Empty(t, pending.docs)
}

func TestUsernameCollisionSuffix(t *testing.T) {
	accounts := newFakeAccountStore()
	accounts.byUsername["janedoe"] = &models.User{Username: "janedoe"}
	accounts.byUsername["janedoe1"] = &models.User{Username: "janedoe1"}
	pending := newFakePendingStore()
	svc := newTestSignupService(accounts, pending, &fakeSender{})

	req := signupReq()
	req.Name = "Jane!!Doe"
	_, err := svc.StartSignup(context.Background(), req)
	require.NoError(t, err)

	user, err := svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	require.NoError(t, err)
	assert.Equal(t, "janedoe2", user.Username)
}

func TestUsernameTruncation(t *testing.T) {
	accounts := newFakeAccountStore()
	svc := newTestSignupService(accounts, newFakePendingStore(), &fakeSender{})

	req := signupReq()
	req.Name = "Bartholomew Montgomery Fitzgerald"
	_, err := svc.StartSignup(context.Background(), req)
	require.NoError(t, err)

	user, err := svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	require.NoError(t, err)
	assert.Len(t, user.Username, 15)
	assert.Equal(t, "bartholomewmont", user.Username)
}

func TestUsernameExhausted(t *testing.T) {
	accounts := newFakeAccountStore()
	accounts.taken = true
	svc := newTestSignupService(accounts, newFakePendingStore(), &fakeSender{})

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	assert.ErrorIs(t, err, ErrUsernameExhausted)
	assert.Len(t, accounts.usernames, 1000)
	assert.Equal(t, "janedoe", accounts.usernames[0])
	assert.Equal(t, "janedoe999", accounts.usernames[999])
}

func TestResendResetsAttemptsAndCode(t *testing.T) {
	pending := newFakePendingStore()
	sender := &fakeSender{}
	svc := newTestSignupService(newFakeAccountStore(), pending, sender)

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)
	pending.docs["jane@example.com"].Attempts = 4

	svc.generateCode = func() (string, error) { return "5678", nil }
	_, err = svc.ResendSignup(context.Background(), "jane@example.com")
	require.NoError(t, err)

	doc := pending.docs["jane@example.com"]
	assert.Equal(t, "5678", doc.OTP)
	assert.Equal(t, 0, doc.Attempts)
	assert.True(t, doc.ExpiresAt.After(time.Now().Add(4*time.Minute)))

	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.bodies[1], "5678")
}

func TestResendWithoutPending(t *testing.T) {
	svc := newTestSignupService(newFakeAccountStore(), newFakePendingStore(), &fakeSender{})

	_, err := svc.ResendSignup(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNoPendingSignup)
}

func TestResendKeepsNewCodeWhenEmailFails(t *testing.T) {
	pending := newFakePendingStore()
	sender := &fakeSender{}
	svc := newTestSignupService(newFakeAccountStore(), pending, sender)

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	sender.sendErr = errors.New("smtp down")
	svc.generateCode = func() (string, error) { return "5678", nil }
	_, err = svc.ResendSignup(context.Background(), "jane@example.com")
	assert.ErrorIs(t, err, ErrNotificationFailed)

	// The refreshed code is already persisted
	assert.Equal(t, "5678", pending.docs["jane@example.com"].OTP)
}

func TestVerifySignupCreateFailureKeepsPending(t *testing.T) {
	accounts := newFakeAccountStore()
	accounts.createErr = fmt.Errorf("write concern error")
	pending := newFakePendingStore()
	svc := newTestSignupService(accounts, pending, &fakeSender{})

	_, err := svc.StartSignup(context.Background(), signupReq())
	require.NoError(t, err)

	_, err = svc.VerifySignup(context.Background(), "jane@example.com", "1234")
	require.Error(t, err)

	_, err = pending.FindByEmail(context.Background(), "jane@example.com")
	assert.NoError(t, err)
}
