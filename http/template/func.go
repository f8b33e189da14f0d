package template

import (
	html "html/template"
	"net/url"

	"github.com/google/uuid"
	"github.com/whisperbox/secrets"
)

// AddFn includes the named function in the Parse function map.
func (p *Parse) AddFn(name string, fn any) {
	if p.fns == nil {
		p.fns = make(html.FuncMap)
	}
	p.fns[name] = fn
}

// The functions below each return a name and a closure in the shape AddFn
// accepts, so callers can write p.AddFn(template.Nonce()).

// CurrentUser exposes the user u to templates as "currentUser".
func CurrentUser(u any) (string, func() any) {
	return "currentUser", func() any { return u }
}

// Env exposes the environment e to templates as "env".
func Env(e secrets.Environment) (string, func() string) {
	return "env", func() string { return e.String() }
}

// Nonce exposes a fresh uuid to templates as "nonce",
// suitable for CSP script tags.
func Nonce() (string, func() string) {
	return "nonce", func() string { return uuid.NewString() }
}

// RootUrl exposes the app's base URL to templates as "rootUrl",
// or an empty string when u is nil.
func RootUrl(u *url.URL) (string, func() string) {
	var s string
	if u != nil {
		s = u.String()
	}

	return "rootUrl", func() string { return s }
}
