package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timecapsule-app/timecapsule-backend/internal/handlers"
	"github.com/timecapsule-app/timecapsule-backend/internal/middleware"
	"github.com/timecapsule-app/timecapsule-backend/internal/routes"
	"github.com/timecapsule-app/timecapsule-backend/internal/services"
	"github.com/timecapsule-app/timecapsule-backend/internal/store/storetest"
)

type testApp struct {
	router *chi.Mux
	users  *storetest.Users
	auth   *services.AuthService
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type nopMailer struct{}

func (nopMailer) SendVerificationEmail(context.Context, string, string) error { return nil }

func newTestApp() *testApp {
	users := storetest.NewUsers()
	auth := services.NewAuthService(users, nopMailer{}, "test-secret", 4, false)
	journals := services.NewJournalService(storetest.NewJournals())
	entries := services.NewEntryService(storetest.NewEntries())

	r := chi.NewRouter()
	routes.SetupRoutes(r, routes.Handlers{
		Auth:    handlers.NewAuthHandler(auth),
		Journal: handlers.NewJournalHandler(journals),
		Entry:   handlers.NewEntryHandler(entries),
		Upload:  handlers.NewUploadHandler(nil),
		Gate:    middleware.NewGate(auth),
	})
	return &testApp{router: r, users: users, auth: auth}
}

func (a *testApp) do(t *testing.T, method, path, cookie string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	return rr, env
}

// signup registers and verifies an account, logs in and returns the session
// cookie ready to send back.
func (a *testApp) signup(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()

	user, err := a.auth.Register(ctx, email, "Test User", "password123")
	require.NoError(t, err)
	require.NoError(t, a.users.MarkVerified(ctx, user.ID.Hex()))

	rr, env := a.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code, "login failed: %s", env.Message)

	for _, c := range rr.Result().Cookies() {
		if c.Name == services.CookieName {
			return fmt.Sprintf("%s=%s", c.Name, c.Value)
		}
	}
	t.Fatal("login response carried no session cookie")
	return ""
}

func TestRegisterOmitsPasswordField(t *testing.T) {
	app := newTestApp()

	rr, env := app.do(t, http.MethodPost, "/users/register", "", map[string]string{
		"email":    "alice@example.com",
		"fullName": "Alice",
		"password": "password123",
	})

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "User registered", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	_, hasPassword := data["password"]
	assert.False(t, hasPassword, "password must never appear in responses")
	assert.Equal(t, "alice@example.com", data["email"])
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp()

	rr, env := app.do(t, http.MethodPost, "/users/register", "", map[string]string{
		"email":    "not-an-email",
		"fullName": "A",
		"password": "short",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "Validation failed")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	app := newTestApp()
	ctx := context.Background()

	user, err := app.auth.Register(ctx, "alice@example.com", "Alice", "password123")
	require.NoError(t, err)
	require.NoError(t, app.users.MarkVerified(ctx, user.ID.Hex()))

	rr, env := app.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Login successful", env.Message)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, services.CookieName, c.Name)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)

	claims, err := app.auth.VerifySession(c.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := newTestApp()

	// Twice in a row, with no session at all: same answer both times.
	for i := 0; i < 2; i++ {
		rr, env := app.do(t, http.MethodGet, "/users/logout", "", nil)
		require.Equal(t, http.StatusOK, rr.Code, "logout #%d", i+1)
		assert.Equal(t, "Logged out successfully", env.Message)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, services.CookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	}
}

func TestMeRoundTrip(t *testing.T) {
	app := newTestApp()
	cookie := app.signup(t, "alice@example.com")

	rr, env := app.do(t, http.MethodGet, "/users/me", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "alice@example.com", data["email"])
	_, hasPassword := data["password"]
	assert.False(t, hasPassword)
}

func TestMeWithoutCookie(t *testing.T) {
	app := newTestApp()

	rr, env := app.do(t, http.MethodGet, "/users/me", "", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Token missing", env.Message)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := newTestApp()

	paths := []struct{ method, path string }{
		{http.MethodGet, "/entries"},
		{http.MethodPost, "/entries"},
		{http.MethodGet, "/journal"},
		{http.MethodPost, "/journal"},
		{http.MethodPost, "/api/upload"},
	}
	for _, p := range paths {
		rr, env := app.do(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", p.method, p.path)
		assert.Equal(t, "Unauthorized", env.Message, "%s %s", p.method, p.path)
	}
}

func TestEntryIgnoresClientAuthorID(t *testing.T) {
	app := newTestApp()
	cookie := app.signup(t, "alice@example.com")

	journalID := createJournal(t, app, cookie, "Diary")

	rr, env := app.do(t, http.MethodPost, "/entries", cookie, map[string]any{
		"title":     "Sneaky",
		"journalId": journalID,
		"authorId":  "ffffffffffffffffffffffff", // spoof attempt
	})
	require.Equal(t, http.StatusCreated, rr.Code, "create failed: %s", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEqual(t, "ffffffffffffffffffffffff", data["authorId"],
		"author must come from the session, not the payload")

	// And the entry shows up under the caller's own listing.
	rr, env = app.do(t, http.MethodGet, "/entries", cookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Sneaky", list[0]["title"])
}

func TestCrossUserEntryAccessIs404(t *testing.T) {
	app := newTestApp()
	aliceCookie := app.signup(t, "alice@example.com")
	bobCookie := app.signup(t, "bob@example.com")

	journalID := createJournal(t, app, aliceCookie, "Diary")

	rr, env := app.do(t, http.MethodPost, "/entries", aliceCookie, map[string]any{
		"title":     "Private",
		"journalId": journalID,
	})
	require.Equal(t, http.StatusCreated, rr.Code, "create failed: %s", env.Message)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	entryID, _ := created["id"].(string)
	require.NotEmpty(t, entryID)

	// Bob probing Alice's entry gets 404 on every verb, never 403.
	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var body any
		if method == http.MethodPatch {
			body = map[string]any{"title": "Hijacked"}
		}
		rr, env := app.do(t, method, "/entries/"+entryID, bobCookie, body)
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s", method)
		assert.Equal(t, "Entry not found", env.Message, "%s", method)
	}

	// Still intact for Alice.
	rr, env = app.do(t, http.MethodGet, "/entries/"+entryID, aliceCookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, "Private", entry["title"])
}

func TestCrossUserJournalAccessIs404(t *testing.T) {
	app := newTestApp()
	aliceCookie := app.signup(t, "alice@example.com")
	bobCookie := app.signup(t, "bob@example.com")

	journalID := createJournal(t, app, aliceCookie, "Private")

	rr, env := app.do(t, http.MethodGet, "/journal/"+journalID, bobCookie, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Journal not found", env.Message)

	rr, env = app.do(t, http.MethodDelete, "/journal/"+journalID, bobCookie, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Bob's listing stays empty; Alice's shows her journal.
	_, env = app.do(t, http.MethodGet, "/journal", bobCookie, nil)
	assert.Equal(t, "[]", strings.TrimSpace(string(env.Data)))

	rr, env = app.do(t, http.MethodGet, "/journal", aliceCookie, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
}

func TestEntryCreateValidation(t *testing.T) {
	app := newTestApp()
	cookie := app.signup(t, "alice@example.com")

	rr, env := app.do(t, http.MethodPost, "/entries", cookie, map[string]any{
		"journalId": "tooshort",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.Message, "Validation failed")
}

func TestJournalUpdateOverHTTP(t *testing.T) {
	app := newTestApp()
	cookie := app.signup(t, "alice@example.com")

	journalID := createJournal(t, app, cookie, "Old title")

	rr, env := app.do(t, http.MethodPatch, "/journal/"+journalID, cookie, map[string]any{
		"title": "New title",
	})
	require.Equal(t, http.StatusOK, rr.Code, "update failed: %s", env.Message)
	assert.Equal(t, "Journal updated", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "New title", data["title"])
}

func TestUploadWithoutService(t *testing.T) {
	app := newTestApp()
	cookie := app.signup(t, "alice@example.com")

	rr, env := app.do(t, http.MethodPost, "/api/upload", cookie, nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "File upload service not available", env.Message)
}

func createJournal(t *testing.T, app *testApp, cookie, title string) string {
	t.Helper()

	rr, env := app.do(t, http.MethodPost, "/journal", cookie, map[string]any{"title": title})
	require.Equal(t, http.StatusCreated, rr.Code, "journal create failed: %s", env.Message)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}
