package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsule-app/timecapsule-backend/internal/apperr"
	"github.com/timecapsule-app/timecapsule-backend/internal/models"
	"github.com/timecapsule-app/timecapsule-backend/internal/store/storetest"
	"github.com/timecapsule-app/timecapsule-backend/pkg/utils"
)

const testHashCost = 4 // minimum bcrypt cost, keeps the suite fast

func newTestAuthService() (*AuthService, *storetest.Users, *recordingMailer) {
	users := storetest.NewUsers()
	mailer := &recordingMailer{}
	svc := NewAuthService(users, mailer, "test-secret", testHashCost, false)
	return svc, users, mailer
}

func requireAppErr(t *testing.T, err error, status int, message string) {
	t.Helper()
	appErr := apperr.From(err)
	require.NotNil(t, appErr, "expected an application error, got %v", err)
	assert.Equal(t, status, appErr.Status)
	assert.Equal(t, message, appErr.Message)
}

func TestRegisterStripsSecrets(t *testing.T) {
	svc, users, mailer := newTestAuthService()

	user, err := svc.Register(context.Background(), "Alice@Example.com", "Alice", "password123")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.Password, "returned user must not carry the password hash")
	assert.Empty(t, user.VerifyToken)
	assert.Nil(t, user.VerifyTokenExpiryDate)
	assert.False(t, user.IsVerified)

	stored, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Password)
	assert.NotEqual(t, "password123", stored.Password, "password must be stored hashed")
	assert.True(t, utils.VerifyPassword("password123", stored.Password))
	assert.NotEmpty(t, stored.VerifyToken)
	require.NotNil(t, stored.VerifyTokenExpiryDate)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ALICE@example.com", "Other Alice", "different-pass")
	requireAppErr(t, err, http.StatusBadRequest, "User already exists with this email")
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	svc, users, mailer := newTestAuthService()
	mailer.fail = true

	user, err := svc.Register(context.Background(), "bob@example.com", "Bob", "password123")
	require.NoError(t, err, "email dispatch failure must not fail registration")
	assert.NotNil(t, user)

	_, err = users.FindByEmail(context.Background(), "bob@example.com")
	assert.NoError(t, err, "account must exist despite mail failure")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	requireAppErr(t, err, http.StatusNotFound, "User does not exist with this email")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "not-the-password")
	requireAppErr(t, err, http.StatusUnauthorized, "Incorrect email or password")
}

func TestLoginUnverified(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)

	// Credentials are checked before verification status, so the correct
	// password on an unverified account is a 403, not a 401.
	_, _, err = svc.Login(ctx, "alice@example.com", "password123")
	requireAppErr(t, err, http.StatusForbidden, "Please verify your email to login")
}

func TestLoginVerified(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	require.NoError(t, users.MarkVerified(ctx, created.ID.Hex()))

	token, user, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Empty(t, user.Password)

	claims, err := svc.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID.Hex(), claims.ID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.FullName)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(SessionDuration), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyEmail(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	stored, err := users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	already, err := svc.Verify(ctx, stored.VerifyToken)
	require.NoError(t, err)
	assert.False(t, already)

	verified, err := users.FindByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Empty(t, verified.VerifyToken, "verification token must be single-use")
}

func TestVerifyAlreadyVerified(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	// A verified account still holding its token (duplicate verify request
	// racing the first) reports success, not an error.
	expiry := time.Now().Add(verifyTokenTTL)
	require.NoError(t, users.Insert(ctx, &models.User{
		Email:                 "alice@example.com",
		FullName:              "Alice",
		IsVerified:            true,
		VerifyToken:           "still-present-token",
		VerifyTokenExpiryDate: &expiry,
	}))

	already, err := svc.Verify(ctx, "still-present-token")
	require.NoError(t, err)
	assert.True(t, already)
}

func TestVerifyMissingToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Verify(context.Background(), "")
	requireAppErr(t, err, http.StatusBadRequest, "Token missing")
}

func TestVerifyInvalidToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Verify(context.Background(), "no-such-token")
	requireAppErr(t, err, http.StatusNotFound, "Invalid token")
}

func TestVerifyExpiredToken(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	stored, err := users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(verifyTokenTTL + time.Hour) }

	_, err = svc.Verify(ctx, stored.VerifyToken)
	requireAppErr(t, err, http.StatusBadRequest, "Token expired")
}

func TestMe(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	require.NoError(t, users.MarkVerified(ctx, created.ID.Hex()))

	token, _, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.Me(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.Password)
}

func TestMeMissingToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Me(context.Background(), "")
	requireAppErr(t, err, http.StatusBadRequest, "Token missing")
}

func TestMeExpiredToken(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	require.NoError(t, users.MarkVerified(ctx, created.ID.Hex()))

	// Sign a token whose 1-day lifetime is already behind us.
	svc.now = func() time.Time { return time.Now().Add(-SessionDuration - time.Hour) }
	token, _, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	svc.now = time.Now

	_, err = svc.Me(ctx, token)
	requireAppErr(t, err, http.StatusUnauthorized, "Session expired. Please login again")
}

func TestMeGarbageToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Me(context.Background(), "not.a.jwt")
	requireAppErr(t, err, http.StatusUnauthorized, "Invalid token")
}

func TestMeDeletedUser(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	require.NoError(t, users.MarkVerified(ctx, created.ID.Hex()))

	token, _, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	users.Delete(created.ID.Hex())

	_, err = svc.Me(ctx, token)
	requireAppErr(t, err, http.StatusUnauthorized, "User no longer exists")
}

func TestSessionWrongSecret(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	require.NoError(t, users.MarkVerified(ctx, created.ID.Hex()))

	token, _, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	other := NewAuthService(users, &recordingMailer{}, "different-secret", testHashCost, false)
	_, err = other.VerifySession(token)
	requireAppErr(t, err, http.StatusUnauthorized, "Invalid token")
}

func TestSessionCookie(t *testing.T) {
	svc, _, _ := newTestAuthService()

	cookie := svc.SessionCookie("abc")
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "abc", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure, "Secure only in production")
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(SessionDuration.Seconds()), cookie.MaxAge)

	prod := NewAuthService(storetest.NewUsers(), &recordingMailer{}, "s", testHashCost, true)
	assert.True(t, prod.SessionCookie("abc").Secure)

	cleared := svc.ClearedSessionCookie()
	assert.Equal(t, CookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.False(t, cleared.Expires.After(time.Unix(0, 0)))
}
