package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/auth"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken surfaces a registration against an existing username.
	ErrUsernameTaken = errors.New("username taken")
)

// A Service runs the account operations of the app over a Store.
type Service struct {
	store Store
	pw    auth.Passworder
}

// NewService constructs a *Service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Verify checks username and password against the stored credentials,
// returning the matching user.
//
// An unknown username and a mismatched password both return
// ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, username, password string) (secrets.User, error) {
	u, err := s.store.ByUsername(ctx, username)
	if errors.Is(err, secrets.ErrNotFound) {
		return secrets.User{}, fmt.Errorf("%w: %q", ErrInvalidCredentials, username)
	}

	if err != nil {
		return secrets.User{}, err
	}

	if !s.pw.Compare(u.PasswordSalt, u.PasswordHash, password) {
		return secrets.User{}, fmt.Errorf("%w: %q", ErrInvalidCredentials, username)
	}

	return u, nil
}

// Register creates a local account under username.
//
// Uniqueness rides entirely on the store's unique index; Register never
// pre-checks, so a conflict - first registration or a concurrent one -
// always lands here as ErrUsernameTaken and never creates a second record.
func (s *Service) Register(ctx context.Context, username, password string) (secrets.User, error) {
	if username == "" || password == "" {
		return secrets.User{}, fmt.Errorf("%w: username and password required", secrets.ErrMissingData)
	}

	salt, hash, err := s.pw.Derive(password)
	if err != nil {
		return secrets.User{}, err
	}

	u := secrets.User{
		Username:     sql.NullString{String: username, Valid: true},
		DisplayName:  username,
		PasswordSalt: salt,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, &u); errors.Is(err, secrets.ErrExists) {
		return secrets.User{}, fmt.Errorf("%w: %q", ErrUsernameTaken, username)
	} else if err != nil {
		return secrets.User{}, err
	}

	return u, nil
}

// FindOrCreate resolves the user an identity provider vouched for,
// creating the account on first login.
//
// A concurrent first login can lose the create to the provider column's
// unique index; on that ErrExists the lookup runs once more, making
// FindOrCreate idempotent under repeated calls. Existing accounts are
// never deleted or recreated.
func (s *Service) FindOrCreate(ctx context.Context, provider, subjectID, displayName string) (secrets.User, error) {
	u, err := s.store.ByProvider(ctx, provider, subjectID)
	if err == nil {
		return u, nil
	}

	if !errors.Is(err, secrets.ErrNotFound) {
		return secrets.User{}, err
	}

	u = secrets.User{DisplayName: displayName}
	switch provider {
	case secrets.ProviderGoogle:
		u.GoogleID = sql.NullString{String: subjectID, Valid: true}
	case secrets.ProviderFacebook:
		u.FacebookID = sql.NullString{String: subjectID, Valid: true}
	default:
		return secrets.User{}, fmt.Errorf("%w: unknown provider %q", secrets.ErrNotValid, provider)
	}

	err = s.store.Create(ctx, &u)
	if errors.Is(err, secrets.ErrExists) {
		return s.store.ByProvider(ctx, provider, subjectID)
	}

	if err != nil {
		return secrets.User{}, err
	}

	return u, nil
}

// ByID rehydrates the session principal.
func (s *Service) ByID(ctx context.Context, id uint) (secrets.User, error) {
	return s.store.ByID(ctx, id)
}

// SubmitSecret overwrites the user's secret with text and persists it.
//
// There is no validation and no length bound; escaping is the renderer's
// concern. Repeated submission of identical text is a no-op for readers.
func (s *Service) SubmitSecret(ctx context.Context, userID uint, text string) error {
	return s.store.SaveSecret(ctx, userID, text)
}

// WithSecrets retrieves every user holding a secret for the shared wall.
// Zero rows is a valid, empty wall, not an error.
func (s *Service) WithSecrets(ctx context.Context) ([]secrets.User, error) {
	us, err := s.store.WithSecrets(ctx)
	if errors.Is(err, secrets.ErrNotFound) {
		return []secrets.User{}, nil
	}

	if err != nil {
		return nil, err
	}

	return us, nil
}
