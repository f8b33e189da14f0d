package user

import (
	"context"
	"fmt"

	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/postgres"
)

// A Store persists secrets.User records.
//
// Implementations translate backend failures into the secrets sentinel
// errors: a missing record is secrets.ErrNotFound, a unique-index
// conflict is secrets.ErrExists.
type Store interface {
	ByID(ctx context.Context, id uint) (secrets.User, error)
	ByUsername(ctx context.Context, username string) (secrets.User, error)
	ByProvider(ctx context.Context, provider, subjectID string) (secrets.User, error)
	Create(ctx context.Context, u *secrets.User) error
	SaveSecret(ctx context.Context, id uint, text string) error
	WithSecrets(ctx context.Context) ([]secrets.User, error)
}

var _ Store = (*PostgresStore)(nil)

// A PostgresStore implements Store over a *postgres.DB.
type PostgresStore struct {
	db *postgres.DB
}

// NewPostgresStore constructs a *PostgresStore.
func NewPostgresStore(db *postgres.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) ByID(ctx context.Context, id uint) (secrets.User, error) {
	var u secrets.User
	if err := s.db.Context(ctx).Where("id = ?", id).First(&u); err != nil {
		return secrets.User{}, err
	}

	return u, nil
}

func (s *PostgresStore) ByUsername(ctx context.Context, username string) (secrets.User, error) {
	var u secrets.User
	if err := s.db.Context(ctx).Where("username = ?", username).First(&u); err != nil {
		return secrets.User{}, err
	}

	return u, nil
}

func (s *PostgresStore) ByProvider(ctx context.Context, provider, subjectID string) (secrets.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return secrets.User{}, err
	}

	var u secrets.User
	if err := s.db.Context(ctx).Where(column+" = ?", subjectID).First(&u); err != nil {
		return secrets.User{}, err
	}

	return u, nil
}

func (s *PostgresStore) Create(ctx context.Context, u *secrets.User) error {
	return s.db.Context(ctx).Create(u)
}

func (s *PostgresStore) SaveSecret(ctx context.Context, id uint, text string) error {
	return s.db.Context(ctx).
		Model(&secrets.User{}).
		Where("id = ?", id).
		Update(postgres.Updates{"secret": text})
}

// WithSecrets retrieves every user holding a non-null secret, oldest first.
func (s *PostgresStore) WithSecrets(ctx context.Context) ([]secrets.User, error) {
	var us []secrets.User
	err := s.db.Context(ctx).
		Where("secret IS NOT NULL").
		Order("id").
		Find(&us)
	if err != nil {
		return nil, err
	}

	return us, nil
}

// providerColumn maps a provider name to the users column indexing its subject IDs.
func providerColumn(provider string) (string, error) {
	switch provider {
	case secrets.ProviderGoogle:
		return "google_id", nil
	case secrets.ProviderFacebook:
		return "facebook_id", nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", secrets.ErrNotValid, provider)
	}
}
