package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/anayy09/AcademiaFlow/internal/apiclient"
	"github.com/anayy09/AcademiaFlow/internal/app"
	"github.com/anayy09/AcademiaFlow/internal/auth"
	"github.com/anayy09/AcademiaFlow/internal/config"
	"github.com/anayy09/AcademiaFlow/internal/mockapi"
	"github.com/anayy09/AcademiaFlow/internal/model"
	"github.com/anayy09/AcademiaFlow/internal/storage"
	"github.com/anayy09/AcademiaFlow/internal/testutil"
)

type env struct {
	backend *mockapi.Handler
	cfg     *config.Config
	kv      *storage.Memory
}

func newEnv(t *testing.T) *env {
	t.Helper()

	logger := testutil.DiscardLogger()
	h := mockapi.NewHandler(mockapi.NewStore(nil), logger, mockapi.Options{Params: auth.TestParams})
	srv := httptest.NewServer(mockapi.NewRouter(h, logger))
	t.Cleanup(srv.Close)

	return &env{
		backend: h,
		cfg: &config.Config{
			APIBaseURL:     srv.URL + mockapi.APIPrefix,
			HTTPTimeout:    5 * time.Second,
			SessionBackend: config.BackendMemory,
		},
		kv: storage.NewMemory(),
	}
}

func (e *env) open(t *testing.T) *app.App {
	t.Helper()

	a, err := app.New(context.Background(), e.cfg, testutil.DiscardLogger(), app.Options{KV: e.kv})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_FreshStorageIsSignedOut(t *testing.T) {
	t.Parallel()

	a := newEnv(t).open(t)
	st := a.Session.Get()
	if st.IsAuthenticated || st.IsLoading || st.Token != "" {
		t.Errorf("state = %+v, want signed out and not loading", st)
	}
}

func TestSignUp_PersistsSessionAcrossRestart(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()
	reg := testutil.NewTestRegistration(t, "ada")

	first := e.open(t)
	resp, err := first.SignUp(ctx, reg)
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if resp.Message != "User registered successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if first.Session.Token() != resp.Token {
		t.Error("session should hold the issued token")
	}

	second := e.open(t)
	st := second.Session.Get()
	if !st.IsAuthenticated || st.Token != resp.Token || st.User.Email != reg.Email {
		t.Fatalf("restored state = %+v", st)
	}

	if _, err := second.API.GetCourses(ctx); err != nil {
		t.Errorf("restored session should be usable: %v", err)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()
	reg := testutil.NewTestRegistration(t, "grace")

	a := e.open(t)
	if _, err := a.SignUp(ctx, reg); err != nil {
		t.Fatal(err)
	}
	a.SignOut(ctx)

	_, err := a.SignIn(ctx, reg.Email, "wrong-password")
	if !apiclient.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "invalid credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if a.Session.Get().IsAuthenticated {
		t.Error("failed sign in must not authenticate")
	}

	if _, err := a.SignIn(ctx, reg.Email, reg.Password); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !a.Session.Get().IsAuthenticated {
		t.Error("sign in should authenticate")
	}
}

func TestRevokedToken_LogsOutAndClearsStorage(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	a := e.open(t)
	resp, err := a.SignUp(ctx, testutil.NewTestRegistration(t, "alan"))
	if err != nil {
		t.Fatal(err)
	}

	if n := e.backend.Store().RevokeSessions(resp.User.ID); n != 1 {
		t.Fatalf("revoked %d sessions, want 1", n)
	}

	_, err = a.API.GetAssignments(ctx, model.AssignmentFilter{})
	if !apiclient.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}

	if a.Session.Get().IsAuthenticated {
		t.Error("401 should end the session")
	}
	for _, key := range []string{storage.KeyToken, storage.KeyUser} {
		if _, ok, _ := e.kv.Get(ctx, key); ok {
			t.Errorf("%s should be removed", key)
		}
	}
	if got := a.Metrics.Snapshot().SessionsInvalidated; got != 1 {
		t.Errorf("SessionsInvalidated = %d, want 1", got)
	}
}

func TestUpdateProfile_UpdatesSessionUser(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()

	a := e.open(t)
	if _, err := a.SignUp(ctx, testutil.NewTestRegistration(t, "barbara")); err != nil {
		t.Fatal(err)
	}

	resp, err := a.UpdateProfile(ctx, model.UpdateProfileRequest{Advisor: model.String("Dr. Liskov"), Year: model.Int(4)})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.User.Advisor != "Dr. Liskov" || resp.User.Year != 4 {
		t.Errorf("response user = %+v", resp.User)
	}
	if u := a.Session.Get().User; u.Advisor != "Dr. Liskov" || u.FirstName != "Ada" {
		t.Errorf("session user = %+v", u)
	}

	// A restart sees the updated user.
	if u := e.open(t).Session.Get().User; u == nil || u.Advisor != "Dr. Liskov" {
		t.Errorf("restored user = %+v", u)
	}
}

func TestRefreshProfile(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	ctx := context.Background()
	a := e.open(t)
	resp, err := a.SignUp(ctx, testutil.NewTestRegistration(t, "edsger"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.backend.Store().UpdateUser(resp.User.ID, model.UpdateProfileRequest{Program: model.String("MS")}); err != nil {
		t.Fatal(err)
	}

	u, err := a.RefreshProfile(ctx)
	if err != nil {
		t.Fatalf("RefreshProfile: %v", err)
	}
	if u.Program != "MS" || a.Session.Get().User.Program != "MS" {
		t.Errorf("program not refreshed: %+v", a.Session.Get().User)
	}
}

func TestRequestsCarryRequestID(t *testing.T) {
	t.Parallel()

	ids := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids <- r.Header.Get(apiclient.RequestIDHeader)
		w.Write([]byte(`{"courses":[]}`))
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{APIBaseURL: srv.URL, HTTPTimeout: time.Second, SessionBackend: config.BackendMemory}
	a, err := app.New(context.Background(), cfg, testutil.DiscardLogger(), app.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, err := a.API.GetCourses(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := <-ids; len(got) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", got)
	}
}

func TestNew_Backends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory", config.Config{SessionBackend: config.BackendMemory}, false},
		{"file", config.Config{SessionBackend: config.BackendFile, SessionFile: filepath.Join(dir, "s.json")}, false},
		{"unknown", config.Config{SessionBackend: "etcd"}, true},
		{"redis bad url", config.Config{SessionBackend: config.BackendRedis, RedisURL: "not-a-url"}, true},
		{"postgres bad url", config.Config{SessionBackend: config.BackendPostgres, DatabaseURL: "postgres://user@127.0.0.1:1/db?connect_timeout=1"}, true},
		{"bad base url", config.Config{SessionBackend: config.BackendMemory, APIBaseURL: "ftp://x"}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			if cfg.APIBaseURL == "" {
				cfg.APIBaseURL = "http://localhost:8080/api/v1"
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			a, err := app.New(ctx, &cfg, testutil.DiscardLogger(), app.Options{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if a != nil {
				_ = a.Close()
			}
		})
	}
}

func TestFileBackend_RoundTrip(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.cfg.SessionBackend = config.BackendFile
	e.cfg.SessionFile = filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first, err := app.New(ctx, e.cfg, testutil.DiscardLogger(), app.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.SignUp(ctx, testutil.NewTestRegistration(t, "ken")); err != nil {
		t.Fatal(err)
	}

	second, err := app.New(ctx, e.cfg, testutil.DiscardLogger(), app.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Session.Get().IsAuthenticated {
		t.Error("file backend should restore the session")
	}
}
