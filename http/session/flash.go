package session

import "net/http"

const (
	// Default Flash Class
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	BadCredsMsg      = "Hmm... check those credentials."
	DefaultErrMsg    = "Uh oh! We've run into an issue."
	MissingCredsMsg  = "A username and password are both required."
	NoAccessMsg      = "Oops, sending you back somewhere safe."
	TryPasswordMsg   = "Try signing in with your username and password!"
	UsernameTakenMsg = "That username is already taken. Try another!"
)

type FlashSessionable interface {
	ClearFlashes(w http.ResponseWriter, r *http.Request)
	Flashes(w http.ResponseWriter, r *http.Request) []Flash
	SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error
}

// A Flash is a one-shot message attached to a session,
// consumed on the very next render of its target page.
type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}
