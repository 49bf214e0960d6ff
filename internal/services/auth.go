package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/timecapsule-app/timecapsule-backend/internal/apperr"
	"github.com/timecapsule-app/timecapsule-backend/internal/models"
	"github.com/timecapsule-app/timecapsule-backend/internal/store"
	"github.com/timecapsule-app/timecapsule-backend/pkg/utils"
)

const (
	// SessionDuration is the lifetime of a session token (and its cookie).
	SessionDuration = 24 * time.Hour
	// CookieName is the session cookie carrying the signed token.
	CookieName = "token"
	// verifyTokenTTL bounds how long an email verification token stays usable.
	verifyTokenTTL = 24 * time.Hour
)

// SessionClaims is the identity embedded in a session token.
type SessionClaims struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies session tokens and owns the account
// lifecycle: registration, email verification, login and identity lookup.
type AuthService struct {
	users      store.UserStore
	mailer     Mailer
	jwtSecret  []byte
	hashCost   int
	production bool
	now        func() time.Time
}

func NewAuthService(users store.UserStore, mailer Mailer, jwtSecret string, hashCost int, production bool) *AuthService {
	return &AuthService{
		users:      users,
		mailer:     mailer,
		jwtSecret:  []byte(jwtSecret),
		hashCost:   hashCost,
		production: production,
		now:        time.Now,
	}
}

// Register creates an unverified account, issues a single-use verification
// token and dispatches it by email. The returned user has the password
// stripped. Email dispatch failures are logged, never surfaced: the account
// exists either way and verification can be re-requested.
func (s *AuthService) Register(ctx context.Context, email, fullName, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.BadRequest("User already exists with this email")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tokenExpiry := now.Add(verifyTokenTTL)
	user := &models.User{
		CreatedAt:             now,
		UpdatedAt:             now,
		FullName:              strings.TrimSpace(fullName),
		Email:                 email,
		Password:              hashed,
		Role:                  "user",
		VerifyToken:           utils.NewVerifyToken(),
		VerifyTokenExpiryDate: &tokenExpiry,
		Preferences:           models.DefaultPreferences(),
		Stats:                 models.Stats{JoinedAt: now},
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.BadRequest("User already exists with this email")
		}
		return nil, err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.VerifyToken); err != nil {
		log.Printf("WARNING: verification email to %s failed: %v", user.Email, err)
	}

	return sanitized(user), nil
}

// Login checks credentials against the stored hash and, for verified
// accounts, returns a signed session token alongside the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, apperr.NotFound("User does not exist with this email")
		}
		return "", nil, err
	}

	if !utils.VerifyPassword(password, user.Password) {
		return "", nil, apperr.Unauthorized("Incorrect email or password")
	}

	if !user.IsVerified {
		return "", nil, apperr.Forbidden("Please verify your email to login")
	}

	token, err := s.SignSession(user)
	if err != nil {
		return "", nil, err
	}
	return token, sanitized(user), nil
}

// Verify consumes an email verification token. Verifying an already-verified
// account is a success, not an error; the returned flag distinguishes it.
func (s *AuthService) Verify(ctx context.Context, token string) (alreadyVerified bool, err error) {
	if token == "" {
		return false, apperr.BadRequest("Token missing")
	}

	user, err := s.users.FindByVerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, apperr.NotFound("Invalid token")
		}
		return false, err
	}

	if user.IsVerified {
		return true, nil
	}

	if user.VerifyTokenExpiryDate != nil && user.VerifyTokenExpiryDate.Before(s.now()) {
		return false, apperr.BadRequest("Token expired")
	}

	if err := s.users.MarkVerified(ctx, user.ID.Hex()); err != nil {
		return false, err
	}
	return false, nil
}

// Me resolves a session token back to the current user, re-fetching the
// account to confirm it still exists.
func (s *AuthService) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.BadRequest("Token missing")
	}

	claims, err := s.VerifySession(token)
	if err != nil {
		return nil, err
	}

	if claims.ID == "" || claims.Email == "" {
		return nil, apperr.Unauthorized("Malformed token payload")
	}

	user, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("User no longer exists")
		}
		return nil, err
	}

	return sanitized(user), nil
}

// SignSession signs a session token embedding the user's identity with a
// 1-day expiry.
func (s *AuthService) SignSession(user *models.User) (string, error) {
	now := s.now()
	claims := SessionClaims{
		ID:       user.ID.Hex(),
		FullName: user.FullName,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionDuration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// VerifySession checks the token's signature and expiry. An expired token is
// distinguishable from a generically invalid one.
func (s *AuthService) VerifySession(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("Session expired. Please login again")
		}
		return nil, apperr.Unauthorized("Invalid token")
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return claims, nil
}

// SessionCookie builds the cookie carrying a freshly signed session token.
func (s *AuthService) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
	}
}

// ClearedSessionCookie builds the cookie that logs a client out: empty value,
// expiry in the past.
func (s *AuthService) ClearedSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	}
}

// sanitized returns a copy of user safe to hand to clients.
func sanitized(user *models.User) *models.User {
	u := *user
	u.Password = ""
	u.VerifyToken = ""
	u.VerifyTokenExpiryDate = nil
	u.ForgotPasswordToken = ""
	u.ForgotPasswordTokenExpiryDate = nil
	return &u
}

// callerID parses the authenticated caller's id injected by the auth gate.
// The gate only passes ids from verified tokens, so a parse failure means the
// token payload was malformed.
func callerID(userID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, apperr.Unauthorized("Malformed token payload")
	}
	return oid, nil
}
