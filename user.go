package secrets

import "database/sql"

// Names for the external identity providers a User can authenticate with.
const (
	ProviderFacebook = "facebook"
	ProviderGoogle   = "google"
)

// A User is the one persisted entity of the secrets app.
//
// A User reaches an authenticated session through exactly one of its
// identity fields: the local username paired with the salted password
// hash, or one of the external-provider subject IDs. OAuth-only accounts
// leave Username null; local accounts leave the provider IDs null.
//
// Secret is the free-text value a User submits; it stays null until the
// first submission and is overwritten - never appended - on each one after.
type User struct {
	Model
	Username    sql.NullString `gorm:"uniqueIndex" json:"username"`
	GoogleID    sql.NullString `gorm:"uniqueIndex" json:"-"`
	FacebookID  sql.NullString `gorm:"uniqueIndex" json:"-"`
	DisplayName string         `json:"displayName"`

	PasswordSalt []byte `json:"-"`
	PasswordHash []byte `json:"-"`

	Secret sql.NullString `json:"secret"`
}

// HasAccess asserts whether the User can reach protected resources.
// There are no roles or scopes; only a soft delete revokes access.
func (u User) HasAccess() bool { return u.Exists() && !u.DeletedAt.IsDeleted() }

// HomePath returns the default resource for the User.
func (u User) HomePath() string {
	if !u.HasAccess() {
		return "/login"
	}

	return "/secrets"
}

// Identity returns the name shown beside the User's secret.
func (u User) Identity() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}

	return u.Username.String
}

// GetID implements logger.LogUser.
func (u User) GetID() uint { return u.ID }

// GetDisplay implements logger.LogUser.
func (u User) GetDisplay() string { return u.Identity() }
