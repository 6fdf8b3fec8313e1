// Package app wires configuration, session storage, the request client and
// the domain API into one explicitly constructed value.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anayy09/AcademiaFlow/internal/api"
	"github.com/anayy09/AcademiaFlow/internal/apiclient"
	"github.com/anayy09/AcademiaFlow/internal/cache"
	"github.com/anayy09/AcademiaFlow/internal/config"
	"github.com/anayy09/AcademiaFlow/internal/metrics"
	"github.com/anayy09/AcademiaFlow/internal/model"
	"github.com/anayy09/AcademiaFlow/internal/repository"
	"github.com/anayy09/AcademiaFlow/internal/session"
	"github.com/anayy09/AcademiaFlow/internal/storage"
)

// App holds the wired client components.
type App struct {
	Session *session.Store
	Client  *apiclient.Client
	API     *api.Service
	Metrics *metrics.InMemoryRecorder

	logger  *slog.Logger
	closers []func() error
}

// Options override pieces of the wiring, mainly for tests.
type Options struct {
	// KV replaces the storage backend selected by config.
	KV storage.KV
	// HTTPClient replaces the default client built from cfg.HTTPTimeout.
	HTTPClient *http.Client
}

// New builds the App and restores any persisted session.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{
		Metrics: metrics.NewInMemory(),
		logger:  logger.With("component", "app"),
	}

	kv := opts.KV
	if kv == nil {
		var err error
		kv, err = a.openKV(ctx, cfg)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	a.Session = session.New(kv, logger)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = apiclient.NewHTTPClient(cfg.HTTPTimeout)
	}

	client, err := apiclient.New(apiclient.Options{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: httpClient,
		RequestHooks: []apiclient.RequestHook{
			apiclient.RequestID(),
			apiclient.BearerAuth(a.Session),
		},
		ResponseHooks: []apiclient.ResponseHook{
			apiclient.LogoutOnUnauthorized(a.Session),
			apiclient.Logging(logger),
			apiclient.Metrics(a.Metrics),
		},
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("create api client: %w", err)
	}
	a.Client = client
	a.API = api.New(client)

	a.Session.Initialize(ctx)

	return a, nil
}

// openKV builds the configured session storage backend. Shared backends are
// namespaced by cfg.SessionNamespace.
func (a *App) openKV(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return storage.NewMemory(), nil

	case config.BackendFile:
		path := cfg.SessionFile
		if path == "" {
			path = config.DefaultSessionFile()
		}
		f := storage.NewFile(path)
		a.logger.Debug("using file session storage", slog.String("path", f.Path()))
		return f, nil

	case config.BackendRedis:
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, c.Close)
		a.logger.Debug("using redis session storage", slog.String("namespace", cfg.SessionNamespace))
		return storage.WithPrefix(c, cfg.SessionNamespace), nil

	case config.BackendPostgres:
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, func() error { repo.Close(); return nil })

		kv, err := repository.NewSessionKV(repo, cfg.SessionTable)
		if err != nil {
			return nil, err
		}
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		a.logger.Debug("using postgres session storage",
			slog.String("table", kv.Table()),
			slog.String("namespace", cfg.SessionNamespace),
		)
		return storage.WithPrefix(kv, cfg.SessionNamespace), nil
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.SessionBackend)
}

// SignUp registers an account and starts a session with the returned token.
func (a *App) SignUp(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	resp, err := a.API.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	a.Session.Login(ctx, resp.User, resp.Token)
	return resp, nil
}

// SignIn logs in and starts a session with the returned token.
func (a *App) SignIn(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	resp, err := a.API.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.Session.Login(ctx, resp.User, resp.Token)
	return resp, nil
}

// SignOut ends the local session. The backend keeps no logout route.
func (a *App) SignOut(ctx context.Context) {
	a.Session.Logout(ctx)
}

// RefreshProfile fetches the profile and updates the session user.
func (a *App) RefreshProfile(ctx context.Context) (*model.User, error) {
	resp, err := a.API.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	a.Session.SetUser(ctx, resp.User)
	return &resp.User, nil
}

// UpdateProfile updates the profile and the session user.
func (a *App) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.ProfileUpdateResponse, error) {
	resp, err := a.API.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	a.Session.SetUser(ctx, resp.User)
	return resp, nil
}

// Close releases backend connections, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
