package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockroom-app/stockroom/internal/auth"
	"github.com/stockroom-app/stockroom/internal/platform/httpx"
	"github.com/stockroom-app/stockroom/internal/shared"
	_ "github.com/stockroom-app/stockroom/testing"
)

type stubRepo struct {
	user            *auth.User
	createErr       error
	deletedSessions []string
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, email, passwordHash string) (*auth.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.user = &auth.User{ID: 7, Email: email, PasswordHash: passwordHash, IsActive: true}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	s.deletedSessions = append(s.deletedSessions, id)
	return nil
}

func newAuthHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(logger, auth.NewService(repo), sessionManager, csrfManager)
	return handler, sessionManager
}

type sessionBody struct {
	Authenticated bool   `json:"authenticated"`
	UserID        int64  `json:"user_id"`
	Email         string `json:"email"`
	CSRFToken     string `json:"csrf_token"`
}

func callWithSession(t *testing.T, sessionManager *shared.SessionManager, sess *shared.Session, fn http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	fn(res, req)
	if err := sessionManager.Commit(ctx, res, req, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return res
}

func hashedUser(t *testing.T, email, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{ID: 1, Email: email, PasswordHash: string(hash), IsActive: true}
}

func TestSessionIssuesCSRFToken(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	sess, err := sessionManager.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/auth/session", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	res := callWithSession(t, sessionManager, sess, handler.SessionForTest, http.MethodGet, "/auth/session", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var body sessionBody
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Authenticated {
		t.Fatalf("expected anonymous session")
	}
	if body.CSRFToken == "" {
		t.Fatalf("expected csrf token")
	}
	if sess.Get(shared.CSRFSessionKey) != body.CSRFToken {
		t.Fatalf("token not stored in session")
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubRepo{user: hashedUser(t, "user@test.local", "correctpass")}
	handler, sessionManager := newAuthHandler(t, repo)

	sess, err := sessionManager.Load(context.Background(), httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	res := callWithSession(t, sessionManager, sess, handler.LoginForTest, http.MethodPost, "/auth/login",
		`{"email":"User@Test.local","password":"correctpass"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var body sessionBody
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Authenticated || body.UserID != 1 {
		t.Fatalf("expected authenticated user 1, got %+v", body)
	}
	if body.CSRFToken == "" {
		t.Fatalf("expected csrf token after login")
	}
	if sess.User() != "1" {
		t.Fatalf("session user not set, got %q", sess.User())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := &stubRepo{user: hashedUser(t, "user@test.local", "correctpass")}
	handler, sessionManager := newAuthHandler(t, repo)

	sess, err := sessionManager.Load(context.Background(), httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	res := callWithSession(t, sessionManager, sess, handler.LoginForTest, http.MethodPost, "/auth/login",
		`{"email":"user@test.local","password":"wrongpass1"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if sess.User() != "" {
		t.Fatalf("session must stay anonymous after failed login")
	}
}

func TestRegisterCreatesAccountAndSession(t *testing.T) {
	repo := &stubRepo{}
	handler, sessionManager := newAuthHandler(t, repo)

	sess, err := sessionManager.Load(context.Background(), httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	res := callWithSession(t, sessionManager, sess, handler.RegisterForTest, http.MethodPost, "/auth/register",
		`{"email":"New@Test.local","password":"longenough"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if repo.user == nil || repo.user.Email != "new@test.local" {
		t.Fatalf("expected lowercased account, got %+v", repo.user)
	}
	if sess.User() != "7" {
		t.Fatalf("expected session bound to new user, got %q", sess.User())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubRepo{createErr: httpx.ErrDuplicate}
	handler, sessionManager := newAuthHandler(t, repo)

	sess, err := sessionManager.Load(context.Background(), httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	res := callWithSession(t, sessionManager, sess, handler.RegisterForTest, http.MethodPost, "/auth/register",
		`{"email":"dup@test.local","password":"longenough"}`)
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", res.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubRepo{})

	sess, err := sessionManager.Load(context.Background(), httptest.NewRequest(http.MethodPost, "/auth/register", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	res := callWithSession(t, sessionManager, sess, handler.RegisterForTest, http.MethodPost, "/auth/register",
		`{"email":"not-an-email","password":"short"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	repo := &stubRepo{user: hashedUser(t, "user@test.local", "correctpass")}
	handler, sessionManager := newAuthHandler(t, repo)

	sess, err := sessionManager.Load(context.Background(), httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	res := callWithSession(t, sessionManager, sess, handler.LoginForTest, http.MethodPost, "/auth/login",
		`{"email":"user@test.local","password":"correctpass"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("login failed: %d", res.Code)
	}

	res = callWithSession(t, sessionManager, sess, handler.LogoutForTest, http.MethodPost, "/auth/logout", "")
	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if len(repo.deletedSessions) != 1 || repo.deletedSessions[0] != sess.ID {
		t.Fatalf("expected session record removed, got %v", repo.deletedSessions)
	}
}
