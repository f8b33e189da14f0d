package session

import (
	"net/http"

	gorilla "github.com/gorilla/sessions"
)

var _ SessionStorer = (*Stub)(nil)
var _ gorilla.Store = Stub{}

// A Stub backs sessions with nothing at all, for tests.
type Stub struct {
	s *gorilla.Session
}

// NewStub constructs a *Stub, optionally with a logged-in user under ID 1.
func NewStub(loggedIn bool) *Stub {
	s := new(Stub)
	s.s = gorilla.NewSession(s, "stub")
	s.s.Options = &gorilla.Options{}
	if loggedIn {
		s.s.Values[userSessionKey] = uint(1)
	}

	return s
}

func (s *Stub) GetSession(r *http.Request) (Session, error) {
	return Session{s.s}, nil
}

func (s Stub) Get(r *http.Request, name string) (*gorilla.Session, error)               { return s.s, nil }
func (s Stub) New(r *http.Request, name string) (*gorilla.Session, error)               { return s.s, nil }
func (s Stub) Save(r *http.Request, w http.ResponseWriter, sess *gorilla.Session) error { return nil }
