package keyring

// Keyable is a context key that can also describe itself for logging.
type Keyable interface {
	// The key as in a key-value pair
	Key() string

	// A stringified version of the key, for logging
	String() string
}

// Something Keyringable because it stores arbitrary keys, accessible by a
// string name, and makes it convenient to grab the session and current-user
// keys every middleware needs.
type Keyringable interface {
	CurrentUserKey() Keyable
	Key(name string) Keyable
	SessionKey() Keyable
}

// Keyring stores Keyables and cannot be mutated outside of a constructor.
type Keyring struct {
	session     string
	currentUser string
	internal    map[string]Keyable
}

// NewKeyring constructs a Keyring from the given Keyables.
// The session and current-user keys are retrieved through SessionKey and
// CurrentUserKey, respectively. NewKeyring accepts an arbitrary number of
// other Keyables, accessible through the Key method.
func NewKeyring(sessionKey, currentUserKey Keyable, additional ...Keyable) Keyringable {
	if sessionKey == nil || currentUserKey == nil {
		return nil
	}

	kr := &Keyring{
		session:     sessionKey.Key(),
		currentUser: currentUserKey.Key(),
		internal: map[string]Keyable{
			sessionKey.Key():     sessionKey,
			currentUserKey.Key(): currentUserKey,
		},
	}

	for _, k := range additional {
		if k == nil {
			continue
		}
		kr.internal[k.Key()] = k
	}

	return kr
}

// CurrentUserKey returns the key set in the currentUserKey parameter of NewKeyring or nil.
func (kr *Keyring) CurrentUserKey() Keyable {
	return kr.internal[kr.currentUser]
}

// Key returns the key by name (i.e., Keyable.Key()) or nil.
func (kr *Keyring) Key(name string) Keyable {
	return kr.internal[name]
}

// SessionKey returns the key set in the sessionKey parameter of NewKeyring or nil.
func (kr *Keyring) SessionKey() Keyable {
	return kr.internal[kr.session]
}
