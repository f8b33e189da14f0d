package user_test

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/user"
)

// stubStore backs a Service with maps, enforcing the same uniqueness the
// real store's indexes do.
type stubStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]secrets.User
}

func newStubStore() *stubStore {
	return &stubStore{users: make(map[uint]secrets.User)}
}

func (s *stubStore) ByID(_ context.Context, id uint) (secrets.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return secrets.User{}, fmt.Errorf("%w: user %d", secrets.ErrNotFound, id)
	}
	return u, nil
}

func (s *stubStore) ByUsername(_ context.Context, username string) (secrets.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username.Valid && u.Username.String == username {
			return u, nil
		}
	}
	return secrets.User{}, fmt.Errorf("%w: user %q", secrets.ErrNotFound, username)
}

func (s *stubStore) ByProvider(_ context.Context, provider, subjectID string) (secrets.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if subjectKey(u, provider) == subjectID {
			return u, nil
		}
	}
	return secrets.User{}, fmt.Errorf("%w: %s user %q", secrets.ErrNotFound, provider, subjectID)
}

func (s *stubStore) Create(_ context.Context, u *secrets.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if u.Username.Valid && existing.Username == u.Username {
			return fmt.Errorf("%w: username", secrets.ErrExists)
		}
		if u.GoogleID.Valid && existing.GoogleID == u.GoogleID {
			return fmt.Errorf("%w: google id", secrets.ErrExists)
		}
		if u.FacebookID.Valid && existing.FacebookID == u.FacebookID {
			return fmt.Errorf("%w: facebook id", secrets.ErrExists)
		}
	}

	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	return nil
}

func (s *stubStore) SaveSecret(_ context.Context, id uint, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("%w: user %d", secrets.ErrNotFound, id)
	}

	u.Secret = sql.NullString{String: text, Valid: true}
	s.users[id] = u
	return nil
}

func (s *stubStore) WithSecrets(_ context.Context) ([]secrets.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var us []secrets.User
	for _, u := range s.users {
		if u.Secret.Valid {
			us = append(us, u)
		}
	}

	// zero rows surface as ErrNotFound, as the postgres wrapper reports them
	if len(us) == 0 {
		return nil, secrets.ErrNotFound
	}

	sort.Slice(us, func(i, j int) bool { return us[i].ID < us[j].ID })
	return us, nil
}

func subjectKey(u secrets.User, provider string) string {
	switch provider {
	case secrets.ProviderGoogle:
		if u.GoogleID.Valid {
			return u.GoogleID.String
		}
	case secrets.ProviderFacebook:
		if u.FacebookID.Valid {
			return u.FacebookID.String
		}
	}
	return ""
}

func TestServiceRegister(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := user.NewService(newStubStore())

	// Act
	alice, err := svc.Register(ctx, "alice", "pw1")

	// Assert
	require.Nil(t, err)
	require.NotZero(t, alice.ID)
	require.Equal(t, "alice", alice.Username.String)
	require.NotEmpty(t, alice.PasswordSalt)
	require.NotEmpty(t, alice.PasswordHash)

	// Act, duplicate username never creates a second record
	_, err = svc.Register(ctx, "alice", "pw2")

	// Assert
	require.ErrorIs(t, err, user.ErrUsernameTaken)

	us, err := svc.WithSecrets(ctx)
	require.Nil(t, err)
	require.Empty(t, us)

	// Act + Assert, blank creds rejected before touching the store
	_, err = svc.Register(ctx, "", "pw")
	require.ErrorIs(t, err, secrets.ErrMissingData)
}

func TestServiceVerify(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := user.NewService(newStubStore())
	alice, err := svc.Register(ctx, "alice", "pw1")
	require.Nil(t, err)

	// Act
	got, err := svc.Verify(ctx, "alice", "pw1")

	// Assert
	require.Nil(t, err)
	require.Equal(t, alice.ID, got.ID)

	// Act + Assert, wrong password
	_, err = svc.Verify(ctx, "alice", "wrong")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)

	// Act + Assert, unknown username indistinguishable from wrong password
	_, err = svc.Verify(ctx, "mallory", "pw1")
	require.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestServiceFindOrCreate(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := user.NewService(newStubStore())

	// Act
	first, err := svc.FindOrCreate(ctx, secrets.ProviderGoogle, "g-123", "Alice G")

	// Assert
	require.Nil(t, err)
	require.NotZero(t, first.ID)
	require.Equal(t, "g-123", first.GoogleID.String)

	// Act, a later login with the same subject resolves the same record
	again, err := svc.FindOrCreate(ctx, secrets.ProviderGoogle, "g-123", "Alice G")

	// Assert
	require.Nil(t, err)
	require.Equal(t, first.ID, again.ID)

	// Act, a different provider with the same subject ID is a different user
	other, err := svc.FindOrCreate(ctx, secrets.ProviderFacebook, "g-123", "Alice F")

	// Assert
	require.Nil(t, err)
	require.NotEqual(t, first.ID, other.ID)

	// Act + Assert
	_, err = svc.FindOrCreate(ctx, "twitter", "t-123", "Alice T")
	require.ErrorIs(t, err, secrets.ErrNotValid)
}

// raceStore reports not-found on lookup until a create has happened,
// then rejects the create, mimicking losing a concurrent first login.
type raceStore struct {
	*stubStore
	raced bool
}

func (s *raceStore) ByProvider(ctx context.Context, provider, subjectID string) (secrets.User, error) {
	if !s.raced {
		return secrets.User{}, fmt.Errorf("%w: not yet", secrets.ErrNotFound)
	}
	return s.stubStore.ByProvider(ctx, provider, subjectID)
}

func (s *raceStore) Create(ctx context.Context, u *secrets.User) error {
	if !s.raced {
		s.raced = true
		winner := *u
		if err := s.stubStore.Create(ctx, &winner); err != nil {
			return err
		}
		return fmt.Errorf("%w: concurrent create won", secrets.ErrExists)
	}
	return s.stubStore.Create(ctx, u)
}

func TestServiceFindOrCreateRetriesLostRace(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := user.NewService(&raceStore{stubStore: newStubStore()})

	// Act
	u, err := svc.FindOrCreate(ctx, secrets.ProviderGoogle, "g-123", "Alice G")

	// Assert
	require.Nil(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, "g-123", u.GoogleID.String)
}

func TestServiceWithSecretsEmptyWall(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := user.NewService(newStubStore())
	_, err := svc.Register(ctx, "alice", "pw1")
	require.Nil(t, err)

	// Act: nobody has shared yet; the store reports zero rows as not-found
	us, err := svc.WithSecrets(ctx)

	// Assert: an empty wall, never an error
	require.Nil(t, err)
	require.NotNil(t, us)
	require.Empty(t, us)
}

func TestServiceSubmitSecret(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc := user.NewService(newStubStore())
	alice, err := svc.Register(ctx, "alice", "pw1")
	require.Nil(t, err)
	bob, err := svc.Register(ctx, "bob", "pw2")
	require.Nil(t, err)

	// Act
	require.Nil(t, svc.SubmitSecret(ctx, alice.ID, "hello"))

	// Assert, bob holds no secret yet so the wall has one entry
	us, err := svc.WithSecrets(ctx)
	require.Nil(t, err)
	require.Len(t, us, 1)
	require.Equal(t, "hello", us[0].Secret.String)

	// Act, replaying the identical submission changes nothing
	require.Nil(t, svc.SubmitSecret(ctx, alice.ID, "hello"))

	again, err := svc.WithSecrets(ctx)
	require.Nil(t, err)
	require.Equal(t, us, again)

	// Act, a new submission overwrites rather than appends
	require.Nil(t, svc.SubmitSecret(ctx, alice.ID, "goodbye"))
	require.Nil(t, svc.SubmitSecret(ctx, bob.ID, "psst"))

	// Assert, ordered by ID
	us, err = svc.WithSecrets(ctx)
	require.Nil(t, err)
	require.Len(t, us, 2)
	require.Equal(t, "goodbye", us[0].Secret.String)
	require.Equal(t, "psst", us[1].Secret.String)
}
