package secrets

// A Key identifies a value stashed in a context.Context by one of the
// app's middlewares.
type Key string

const (
	// CurrentUserKey stashes the User resolved from the session.
	CurrentUserKey Key = "CurrentUserKey"

	// IpAddrKey stashes the IP address of the HTTP request being handled.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// Key returns the key as in a key-value pair.
func (k Key) Key() string { return string(k) }

// String formats the stringified key with additional contextual information.
func (k Key) String() string {
	return "secrets context key: " + string(k)
}
