package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/auth"
	"github.com/whisperbox/secrets/http/keyring"
	"github.com/whisperbox/secrets/http/resp"
	"github.com/whisperbox/secrets/http/router"
	"github.com/whisperbox/secrets/http/session"
	"github.com/whisperbox/secrets/http/template"
	"github.com/whisperbox/secrets/logger"
	"github.com/whisperbox/secrets/postgres"
	"github.com/whisperbox/secrets/user"
)

// An App manages and exposes all components of the secrets app to one another.
type App struct {
	*resp.Responder
	*router.Router

	cfg      Config
	ctx      context.Context
	db       *postgres.DB
	kr       keyring.Keyringable
	l        logger.Logger
	sessions session.SessionStorer
	srv      *http.Server
	users    *user.Service
}

// New wires up an *App from the provided Config:
// logger, database (running migrations), session store, template parser,
// responder, identity providers and finally the full route table.
func New(cfg Config) (*App, error) {
	if err := cfg.valid(); err != nil {
		return nil, err
	}

	l := logger.New(logger.WithEnv(cfg.Env.String()), logger.WithLevel(cfg.LogLevel))

	gdb, err := postgres.Connect(cfg.DB, migrations, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db := postgres.NewDB(gdb)

	users := user.NewService(user.NewPostgresStore(db))

	var sessionOpts []session.ServiceOpt
	if cfg.RedisURI != "" {
		sessionOpts = append(sessionOpts, session.WithRedis(cfg.RedisURI, cfg.RedisPassword))
	}
	sessions, err := session.NewStoreService(session.Config{
		Env:         cfg.Env,
		SessionName: cfg.SessionName,
		AuthKey:     cfg.SessionAuthKey,
		EncryptKey:  cfg.SessionEncryptKey,
	}, sessionOpts...)
	if err != nil {
		return nil, err
	}

	kr := keyring.NewKeyring(
		secrets.SessionKey,
		secrets.CurrentUserKey,
		secrets.IpAddrKey,
		secrets.RequestIDKey,
	)

	parser := template.NewParser(
		template.WithFS(tmplFS),
		template.WithFn(template.Env(cfg.Env)),
	)

	d := resp.NewResponder(
		resp.WithLogger(l),
		resp.WithParser(parser),
		resp.WithRootUrl(cfg.BaseURL.String()),
		resp.WithAuthTemplate(authedTmpl),
		resp.WithUnauthTemplate(unauthedTmpl),
		resp.WithErrTemplate(errTmpl),
	)

	providers, err := newProviders(cfg, l)
	if err != nil {
		return nil, err
	}

	state, err := newStateCodec(cfg, l)
	if err != nil {
		return nil, err
	}

	a := &App{
		Responder: d,
		cfg:       cfg,
		db:        db,
		kr:        kr,
		l:         l,
		sessions:  sessions,
		users:     users,
	}
	a.Router = a.routes(NewHandlers(d, users, providers, state, l))

	a.srv = &http.Server{
		Addr:         cfg.Host + cfg.Port,
		Handler:      a.Router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return a, nil
}

// newProviders constructs the identity providers credentials exist for.
// A provider without credentials is left out; its routes flash the user
// back to password login.
func newProviders(cfg Config, l logger.Logger) (map[string]auth.Provider, error) {
	providers := make(map[string]auth.Provider)
	callback := func(name string) string {
		return cfg.BaseURL.String() + "/auth/" + name + "/secrets"
	}

	if cfg.GoogleClientID != "" {
		g, err := auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, callback(secrets.ProviderGoogle))
		if err != nil {
			return nil, err
		}
		providers[secrets.ProviderGoogle] = g
	} else {
		l.Info("google sign-in disabled: no client configured", nil)
	}

	if cfg.FacebookClientID != "" {
		f, err := auth.NewFacebook(cfg.FacebookClientID, cfg.FacebookClientSecret, callback(secrets.ProviderFacebook))
		if err != nil {
			return nil, err
		}
		providers[secrets.ProviderFacebook] = f
	} else {
		l.Info("facebook sign-in disabled: no client configured", nil)
	}

	return providers, nil
}

// newStateCodec builds the OAuth state signer, falling back from
// OAUTH_STATE_KEY to the session auth key to an ephemeral key.
// The ephemeral key cannot survive restarts or span instances.
func newStateCodec(cfg Config, l logger.Logger) (*auth.StateCodec, error) {
	key := cfg.OAuthStateKey
	if key == "" {
		key = cfg.SessionAuthKey
	}

	if key == "" {
		key = uuid.NewString()
		l.Info("generated ephemeral oauth state key", nil)
	}

	return auth.NewStateCodec(key)
}

// Guide begins the web server.
//
// These, and (*App).Shutdown, stop Guide:
//
// - os.Interrupt
// - os.Kill
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (a *App) Guide() error {
	var cancel context.CancelFunc
	a.ctx, cancel = context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		os.Kill,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		s := <-ch
		a.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
		cancel()
	}()

	go func() {
		a.l.Info(fmt.Sprintf("running web server at %s", a.srv.Addr), nil)
		if err := a.srv.ListenAndServe(); err != http.ErrServerClosed {
			err = fmt.Errorf("could not listen: %w", err)
			a.l.Error(err.Error(), nil)
		}
	}()

	<-a.ctx.Done()
	return a.Shutdown()
}

// Shutdown drains and stops the web server.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.l.Info("shutting down web server", nil)
	err := a.srv.Shutdown(shutdownCtx)
	if err == http.ErrServerClosed {
		a.l.Info("web server shutdown successfully", nil)
		return nil
	}

	if err != nil {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	a.l.Info("web server shutdown successfully", nil)
	return nil
}
