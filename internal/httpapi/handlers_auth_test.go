package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shahyash1136/budgetAPI/internal/auth"
	"github.com/shahyash1136/budgetAPI/internal/domain"
	"github.com/shahyash1136/budgetAPI/internal/service"
)

type stubUsersStore struct {
	t *testing.T

	createUserFunc       func(context.Context, string, string, string, string, string) (domain.User, error)
	existsFunc           func(context.Context, string, string) (bool, error)
	getUserByIDFunc      func(context.Context, string) (domain.User, error)
	getUserByEmailFunc   func(context.Context, string) (domain.UserWithCredentials, error)
	getCredentialsFunc   func(context.Context, string) (domain.UserWithCredentials, error)
	updatePasswordFunc   func(context.Context, string, string, time.Time) (domain.User, error)
	setResetTokenFunc    func(context.Context, string, string, time.Time) error
	getByResetDigestFunc func(context.Context, string, time.Time) (domain.UserWithCredentials, error)
	resetPasswordFunc    func(context.Context, string, string, time.Time) (domain.User, error)
}

func (s *stubUsersStore) CreateUser(ctx context.Context, firstName, lastName, username, email, passwordHash string) (domain.User, error) {
	if s.createUserFunc == nil {
		s.t.Fatalf("CreateUser called unexpectedly")
	}
	return s.createUserFunc(ctx, firstName, lastName, username, email, passwordHash)
}

func (s *stubUsersStore) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if s.existsFunc == nil {
		s.t.Fatalf("ExistsByUsernameOrEmail called unexpectedly")
	}
	return s.existsFunc(ctx, username, email)
}

func (s *stubUsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if s.getUserByIDFunc == nil {
		s.t.Fatalf("GetUserByID called unexpectedly")
	}
	return s.getUserByIDFunc(ctx, id)
}

func (s *stubUsersStore) GetUserByEmail(ctx context.Context, email string) (domain.UserWithCredentials, error) {
	if s.getUserByEmailFunc == nil {
		s.t.Fatalf("GetUserByEmail called unexpectedly")
	}
	return s.getUserByEmailFunc(ctx, email)
}

func (s *stubUsersStore) GetCredentialsByID(ctx context.Context, id string) (domain.UserWithCredentials, error) {
	if s.getCredentialsFunc == nil {
		s.t.Fatalf("GetCredentialsByID called unexpectedly")
	}
	return s.getCredentialsFunc(ctx, id)
}

func (s *stubUsersStore) UpdatePassword(ctx context.Context, id, passwordHash string, when time.Time) (domain.User, error) {
	if s.updatePasswordFunc == nil {
		s.t.Fatalf("UpdatePassword called unexpectedly")
	}
	return s.updatePasswordFunc(ctx, id, passwordHash, when)
}

func (s *stubUsersStore) SetResetToken(ctx context.Context, id, digest string, expires time.Time) error {
	if s.setResetTokenFunc == nil {
		s.t.Fatalf("SetResetToken called unexpectedly")
	}
	return s.setResetTokenFunc(ctx, id, digest, expires)
}

func (s *stubUsersStore) GetUserByResetDigest(ctx context.Context, digest string, now time.Time) (domain.UserWithCredentials, error) {
	if s.getByResetDigestFunc == nil {
		s.t.Fatalf("GetUserByResetDigest called unexpectedly")
	}
	return s.getByResetDigestFunc(ctx, digest, now)
}

func (s *stubUsersStore) ResetPassword(ctx context.Context, id, passwordHash string, when time.Time) (domain.User, error) {
	if s.resetPasswordFunc == nil {
		s.t.Fatalf("ResetPassword called unexpectedly")
	}
	return s.resetPasswordFunc(ctx, id, passwordHash, when)
}

type stubMailer struct{}

func (stubMailer) SendPasswordReset(context.Context, string, string) error { return nil }

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestRouter(users *stubUsersStore) http.Handler {
	tokens := auth.NewTokenCodec(testSecret, time.Hour)
	return NewRouter(RouterOpts{
		Auth:  &service.AuthService{Users: users, Tokens: tokens},
		Reset: &service.PasswordResetService{Users: users, Mailer: stubMailer{}, Tokens: tokens},
		Users: &service.UsersService{},
	})
}

func doJSON(h http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleSignupCreated(t *testing.T) {
	users := &stubUsersStore{
		t:          t,
		existsFunc: func(context.Context, string, string) (bool, error) { return false, nil },
		createUserFunc: func(_ context.Context, _, _, username, email, _ string) (domain.User, error) {
			return domain.User{ID: "user-1", Username: username, Email: email, Role: domain.RoleUser, IsActive: true}, nil
		},
	}
	h := newTestRouter(users)

	rec := doJSON(h, http.MethodPost, "/api/v1/users/signup",
		`{"username":"ana","email":"ana@x.com","password":"Str0ng!Pass"}`, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Data   struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "success" || resp.Token == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Data.User.Email != "ana@x.com" {
		t.Fatalf("unexpected email: %s", resp.Data.User.Email)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password field: %s", rec.Body.String())
	}
}

func TestHandleSignupDuplicate(t *testing.T) {
	users := &stubUsersStore{
		t:          t,
		existsFunc: func(context.Context, string, string) (bool, error) { return true, nil },
	}
	h := newTestRouter(users)

	rec := doJSON(h, http.MethodPost, "/api/v1/users/signup",
		`{"username":"ana","email":"ana@x.com","password":"Str0ng!Pass"}`, "")

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSignupValidation(t *testing.T) {
	h := newTestRouter(&stubUsersStore{t: t})

	rec := doJSON(h, http.MethodPost, "/api/v1/users/signup",
		`{"username":"ana","email":"ana@x.com","password":"weak"}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLoginFailuresIdentical(t *testing.T) {
	hash, err := auth.HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	wrongPassword := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(context.Context, string) (domain.UserWithCredentials, error) {
			return domain.UserWithCredentials{
				User:         domain.User{ID: "user-1", Email: "ana@x.com", Role: domain.RoleUser, IsActive: true},
				PasswordHash: hash,
			}, nil
		},
	}
	unknownEmail := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(context.Context, string) (domain.UserWithCredentials, error) {
			return domain.UserWithCredentials{}, domain.ErrNotFound
		},
	}

	recA := doJSON(newTestRouter(wrongPassword), http.MethodPost, "/api/v1/users/login",
		`{"email":"ana@x.com","password":"Wr0ng!Pass"}`, "")
	recB := doJSON(newTestRouter(unknownEmail), http.MethodPost, "/api/v1/users/login",
		`{"email":"ghost@x.com","password":"Wr0ng!Pass"}`, "")

	if recA.Code != http.StatusUnauthorized || recB.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d / %d", recA.Code, recB.Code)
	}
	if recA.Body.String() != recB.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", recA.Body.String(), recB.Body.String())
	}
}

func TestHandleLoginRateLimited(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(context.Context, string) (domain.UserWithCredentials, error) {
			return domain.UserWithCredentials{}, domain.ErrNotFound
		},
	}
	h := newTestRouter(users)

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = doJSON(h, http.MethodPost, "/api/v1/users/login",
			`{"email":"ana@x.com","password":"Wr0ng!Pass"}`, "")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status: got %d", last.Code)
	}
}

func TestProtectedRouteRejectsMissingOrBadToken(t *testing.T) {
	h := newTestRouter(&stubUsersStore{t: t})

	rec := doJSON(h, http.MethodGet, "/api/v1/users/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got %d", rec.Code)
	}

	rec = doJSON(h, http.MethodGet, "/api/v1/users/me", "", "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d", rec.Code)
	}
}

func TestProtectedRouteStaleTokenAfterPasswordChange(t *testing.T) {
	issuedAt := time.Now().Add(-10 * time.Minute)
	changedAt := time.Now().Add(-5 * time.Minute)

	tokens := auth.NewTokenCodec(testSecret, time.Hour)
	stale, err := tokens.Issue("user-1", domain.RoleUser, issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	users := &stubUsersStore{
		t: t,
		getUserByIDFunc: func(_ context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Role: domain.RoleUser, IsActive: true, PasswordChangedAt: &changedAt}, nil
		},
	}
	h := newTestRouter(users)

	rec := doJSON(h, http.MethodGet, "/api/v1/users/me", "", stale)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale token: got %d body %s", rec.Code, rec.Body.String())
	}

	fresh, err := tokens.Issue("user-1", domain.RoleUser, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec = doJSON(h, http.MethodGet, "/api/v1/users/me", "", fresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("fresh token: got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestHandleForgotPasswordAlwaysGeneric(t *testing.T) {
	users := &stubUsersStore{
		t: t,
		getUserByEmailFunc: func(context.Context, string) (domain.UserWithCredentials, error) {
			return domain.UserWithCredentials{}, domain.ErrNotFound
		},
	}
	h := newTestRouter(users)

	rec := doJSON(h, http.MethodPost, "/api/v1/users/forgotpassword",
		`{"email":"ghost@x.com"}`, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), forgotPasswordMessage) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProtectedRouteDeactivatedUser(t *testing.T) {
	tokens := auth.NewTokenCodec(testSecret, time.Hour)
	token, err := tokens.Issue("user-1", domain.RoleUser, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	users := &stubUsersStore{
		t: t,
		getUserByIDFunc: func(_ context.Context, id string) (domain.User, error) {
			return domain.User{ID: id, Role: domain.RoleUser, IsActive: false}, nil
		},
	}
	h := newTestRouter(users)

	rec := doJSON(h, http.MethodGet, "/api/v1/users/me", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated user: got %d", rec.Code)
	}
}
