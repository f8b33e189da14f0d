package app

import (
	"context"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/http/middleware"
	"github.com/whisperbox/secrets/http/router"
	"github.com/whisperbox/secrets/logger"
)

// The app's route table.
const (
	homePath     = "/"
	loginPath    = "/login"
	registerPath = "/register"
	secretsPath  = "/secrets"
	submitPath   = "/submit"
	logoutPath   = "/logout"

	providerPath = "/auth/{provider}"
	callbackPath = "/auth/{provider}/secrets"
)

// routes builds the *router.Router serving the app.
//
// Every request passes through the full stack - HTTPS upgrade, request ID,
// IP detection, logging, session and current user resolution - then routes
// split into those requiring a logged-in user and those requiring the
// opposite. Credential-accepting POSTs are rate limited per IP and secret
// submission honors the Idempotency-Key header.
func (a *App) routes(h *Handlers) *router.Router {
	logReq := middleware.LogRequest(a.l)
	r := router.New(a.cfg.Env, logReq)

	r.OnEveryRequest(
		middleware.ForceHTTPS(a.cfg.Env),
		middleware.CORS(a.cfg.BaseURL.String()),
		middleware.RequestID(a.kr.Key(secrets.RequestIDKey.Key())),
		middleware.InjectIPAddress(),
		logReq,
		middleware.InjectSession(a.sessions, a.kr.SessionKey()),
		middleware.CurrentUser(a.Responder, a.userStorer(), a.kr.SessionKey(), a.kr.CurrentUserKey()),
	)

	limit := middleware.RateLimit(middleware.NewVisitors())
	idem := middleware.Idempotent(a.idemCache(), nil)

	r.UnauthedRoutes(a.kr.CurrentUserKey(), []router.Route{
		{Path: loginPath, Method: http.MethodGet, Handler: h.ShowLogin},
		{Path: loginPath, Method: http.MethodPost, Handler: h.Login, Middlewares: []middleware.Adapter{limit}},
		{Path: registerPath, Method: http.MethodGet, Handler: h.ShowRegister},
		{Path: registerPath, Method: http.MethodPost, Handler: h.Register, Middlewares: []middleware.Adapter{limit}},
		{Path: providerPath, Method: http.MethodGet, Handler: h.ProviderRedirect, Middlewares: []middleware.Adapter{limit}},
		{Path: callbackPath, Method: http.MethodGet, Handler: h.ProviderCallback},
	})

	r.AuthedRoutes(a.kr.CurrentUserKey(), loginPath, logoutPath, []router.Route{
		{Path: secretsPath, Method: http.MethodGet, Handler: h.Secrets},
		{Path: submitPath, Method: http.MethodGet, Handler: h.ShowSubmit},
		{Path: submitPath, Method: http.MethodPost, Handler: h.Submit, Middlewares: []middleware.Adapter{idem}},
		{Path: logoutPath, Method: http.MethodGet, Handler: h.Logout},
	})

	r.Handle(router.Route{Path: homePath, Method: http.MethodGet, Handler: h.Home})
	r.HandleNotFound(h.NotFound)

	return r
}

// userStorer adapts the user service into the lookup the current user
// middleware resolves sessions with.
func (a *App) userStorer() middleware.UserStorer {
	return func(ctx context.Context, id uint) (middleware.User, error) {
		u, err := a.users.ByID(ctx, id)
		if err != nil {
			return nil, err
		}

		return u, nil
	}
}

// idemCache selects where replayed responses are cached: redis when
// configured, otherwise in process memory.
func (a *App) idemCache() middleware.IdempotencyCacher {
	if a.cfg.RedisURI == "" {
		return middleware.NewIdemResMap()
	}

	opts, err := redis.ParseURL(a.cfg.RedisURI)
	if err != nil {
		a.l.Error("cannot parse redis uri, caching idempotent responses in memory", &logger.LogContext{Error: err})
		return middleware.NewIdemResMap()
	}

	if a.cfg.RedisPassword != "" {
		opts.Password = a.cfg.RedisPassword
	}

	return middleware.NewRedisCache(opts)
}
