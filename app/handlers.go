package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/auth"
	"github.com/whisperbox/secrets/http/resp"
	"github.com/whisperbox/secrets/http/session"
	"github.com/whisperbox/secrets/logger"
	"github.com/whisperbox/secrets/user"
)

// A secretEntry pairs a shared secret with the identity shown beside it.
type secretEntry struct {
	Identity string
	Secret   string
}

// Handlers holds every HTTP handler of the app plus their collaborators.
type Handlers struct {
	d         *resp.Responder
	users     *user.Service
	providers map[string]auth.Provider
	state     *auth.StateCodec
	l         logger.Logger
}

// NewHandlers constructs the *Handlers from its collaborators.
func NewHandlers(
	d *resp.Responder,
	users *user.Service,
	providers map[string]auth.Provider,
	state *auth.StateCodec,
	l logger.Logger,
) *Handlers {
	return &Handlers{d: d, users: users, providers: providers, state: state, l: l}
}

// Home renders the landing page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.d.Html(w, r, resp.Unauthed(), resp.Tmpls(homeTmpl))
}

// ShowLogin renders the login form.
func (h *Handlers) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.d.Html(w, r, resp.Unauthed(), resp.Tmpls(loginTmpl))
}

// Login checks the submitted credentials and opens a session.
//
// Invalid credentials land back on the login form with a flash, never an
// error page; which of the username or password was wrong is not revealed.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, err := h.users.Verify(r.Context(), username, password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		h.d.Redirect(w, r,
			resp.Url(loginPath),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: session.BadCredsMsg}),
		)
		return
	}

	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	h.loginAndRedirect(w, r, u)
}

// ShowRegister renders the registration form.
func (h *Handlers) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.d.Html(w, r, resp.Unauthed(), resp.Tmpls(registerTmpl))
}

// Register creates a local account and opens a session for it.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, err := h.users.Register(r.Context(), username, password)
	switch {
	case errors.Is(err, user.ErrUsernameTaken):
		h.d.Redirect(w, r,
			resp.Url(registerPath),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: session.UsernameTakenMsg}),
		)
		return

	case errors.Is(err, secrets.ErrMissingData):
		h.d.Redirect(w, r,
			resp.Url(registerPath),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: session.MissingCredsMsg}),
		)
		return

	case err != nil:
		h.d.Err(w, r, err)
		return
	}

	h.loginAndRedirect(w, r, u)
}

// ProviderRedirect sends the user off to the named provider's consent page,
// carrying a signed state parameter.
func (h *Handlers) ProviderRedirect(w http.ResponseWriter, r *http.Request) {
	p, ok := h.providers[mux.Vars(r)["provider"]]
	if !ok {
		h.providerFailed(w, r, nil)
		return
	}

	state, err := h.state.Sign(p.Name())
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// ProviderCallback finishes the provider flow: it verifies the state
// parameter, swaps the code for a token, fetches the subject and resolves
// it to a user, creating the account on first login.
//
// Every provider-side failure - denied consent, bad state, failed exchange
// or fetch - lands back on the login form with a flash.
func (h *Handlers) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	p, ok := h.providers[mux.Vars(r)["provider"]]
	if !ok {
		h.providerFailed(w, r, nil)
		return
	}

	if deny := r.FormValue("error"); deny != "" {
		h.providerFailed(w, r, fmt.Errorf("%w: %s denied: %s", auth.ErrProvider, p.Name(), deny))
		return
	}

	if err := h.state.Verify(p.Name(), r.FormValue("state")); err != nil {
		h.providerFailed(w, r, err)
		return
	}

	code := r.FormValue("code")
	if code == "" {
		h.providerFailed(w, r, fmt.Errorf("%w: %s returned no code", auth.ErrProvider, p.Name()))
		return
	}

	token, err := p.Exchange(r.Context(), code)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	sub, err := p.FetchSubject(r.Context(), token)
	if err != nil {
		h.providerFailed(w, r, err)
		return
	}

	u, err := h.users.FindOrCreate(r.Context(), p.Name(), sub.ID, sub.DisplayName)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	h.loginAndRedirect(w, r, u)
}

// Secrets renders every shared secret alongside who shared it.
func (h *Handlers) Secrets(w http.ResponseWriter, r *http.Request) {
	us, err := h.users.WithSecrets(r.Context())
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	entries := make([]secretEntry, 0, len(us))
	for _, u := range us {
		entries = append(entries, secretEntry{Identity: u.Identity(), Secret: u.Secret.String})
	}

	h.d.Html(w, r, resp.Authed(), resp.Tmpls(secretsTmpl), resp.Data(entries))
}

// ShowSubmit renders the secret submission form.
func (h *Handlers) ShowSubmit(w http.ResponseWriter, r *http.Request) {
	h.d.Html(w, r, resp.Authed(), resp.Tmpls(submitTmpl))
}

// Submit overwrites the current user's secret with the submitted text.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	if err := h.users.SubmitSecret(r.Context(), u.ID, r.PostFormValue("secret")); err != nil {
		h.d.Err(w, r, err)
		return
	}

	h.d.Redirect(w, r, resp.Url(secretsPath))
}

// Logout drops the session and returns to the landing page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if s, err := h.d.Session(r.Context()); err == nil {
		if err := s.Delete(w, r); err != nil {
			h.l.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
		}
	}

	h.d.Redirect(w, r, resp.Url(homePath))
}

// NotFound renders the landing page template with a 404.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.d.Html(w, r, resp.Unauthed(), resp.Tmpls(homeTmpl), resp.Code(http.StatusNotFound))
}

// currentUser pulls the authenticated secrets.User out of the request context.
func (h *Handlers) currentUser(r *http.Request) (secrets.User, error) {
	val, err := h.d.CurrentUser(r.Context())
	if err != nil {
		return secrets.User{}, err
	}

	u, ok := val.(secrets.User)
	if !ok {
		return secrets.User{}, fmt.Errorf("%w: current user is %T", secrets.ErrNotValid, val)
	}

	return u, nil
}

// loginAndRedirect opens a session for u and sends them on,
// honoring a safe "next" param when one rode along.
func (h *Handlers) loginAndRedirect(w http.ResponseWriter, r *http.Request, u secrets.User) {
	s, err := h.d.Session(r.Context())
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	if err := s.RegisterUser(w, r, u.ID); err != nil {
		h.d.Err(w, r, err)
		return
	}

	h.d.Redirect(w, r, resp.Url(nextOr(r.FormValue("next"), secretsPath)))
}

// providerFailed sends the user back to the login form with a flash.
// err is logged but never shown.
func (h *Handlers) providerFailed(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		h.l.Warn(err.Error(), &logger.LogContext{Error: err, Request: r})
	}

	h.d.Redirect(w, r,
		resp.Url(loginPath),
		resp.Flash(session.Flash{Class: session.FlashError, Msg: session.TryPasswordMsg}),
	)
}

// nextOr returns next when it is a same-site path, def otherwise.
func nextOr(next, def string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}

	return def
}
