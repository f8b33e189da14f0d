package app

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/logger"
	"github.com/whisperbox/secrets/postgres"
)

// Env vars the app configures itself from.
const (
	BaseURLEnvVar     = "BASE_URL"
	EnvironmentEnvVar = "ENVIRONMENT"
	HostEnvVar        = "HOST"
	PortEnvVar        = "PORT"
	LogLevelEnvVar    = "LOG_LEVEL"

	dbHostEnvVar = "DATABASE_HOST"
	dbNameEnvVar = "DATABASE_NAME"
	dbPassEnvVar = "DATABASE_PASSWORD"
	dbPortEnvVar = "DATABASE_PORT"
	dbSSLEnvVar  = "DATABASE_SSLMODE"
	dbURLEnvVar  = "DATABASE_URL"
	dbUserEnvVar = "DATABASE_USER"

	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionNameEnvVar       = "SESSION_NAME"
	redisURIEnvVar          = "REDIS_URI"
	redisPassEnvVar         = "REDIS_PASSWORD"

	oauthStateKeyEnvVar  = "OAUTH_STATE_KEY"
	googleClientEnvVar   = "GOOGLE_CLIENT_ID"
	googleSecretEnvVar   = "GOOGLE_CLIENT_SECRET"
	facebookClientEnvVar = "FACEBOOK_CLIENT_ID"
	facebookSecretEnvVar = "FACEBOOK_CLIENT_SECRET"

	serverReadTimeoutEnvVar  = "SERVER_READ_TIMEOUT"
	serverWriteTimeoutEnvVar = "SERVER_WRITE_TIMEOUT"
	serverIdleTimeoutEnvVar  = "SERVER_IDLE_TIMEOUT"
)

const (
	DefaultHost = "localhost"
	DefaultPort = ":3000"

	DefaultServerReadTimeout  = 5 * time.Second
	DefaultServerWriteTimeout = 5 * time.Second
	DefaultServerIdleTimeout  = 120 * time.Second

	defaultSessionName = "secrets-session"
)

// A Config collects every knob the app boots with.
type Config struct {
	Env      secrets.Environment
	BaseURL  *url.URL
	Host     string
	Port     string
	LogLevel logger.LogLevel

	DB *postgres.CxnConfig

	SessionName       string
	SessionAuthKey    string
	SessionEncryptKey string
	RedisURI          string
	RedisPassword     string

	OAuthStateKey        string
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewConfig builds a Config from the environment,
// filling in development-grade defaults where nothing is set.
func NewConfig() Config {
	env := secrets.EnvVarOrEnv(EnvironmentEnvVar, secrets.Development)

	return Config{
		Env:      env,
		BaseURL:  secrets.EnvVarOrURL(BaseURLEnvVar, "http://"+DefaultHost+DefaultPort),
		Host:     secrets.EnvVarOrString(HostEnvVar, DefaultHost),
		Port:     secrets.EnvVarOrString(PortEnvVar, DefaultPort),
		LogLevel: logger.NewLogLevel(secrets.EnvVarOrString(LogLevelEnvVar, "INFO")),

		DB: dbConfig(env),

		SessionName:       secrets.EnvVarOrString(sessionNameEnvVar, defaultSessionName),
		SessionAuthKey:    os.Getenv(SessionAuthKeyEnvVar),
		SessionEncryptKey: os.Getenv(SessionEncryptKeyEnvVar),
		RedisURI:          os.Getenv(redisURIEnvVar),
		RedisPassword:     os.Getenv(redisPassEnvVar),

		OAuthStateKey:        os.Getenv(oauthStateKeyEnvVar),
		GoogleClientID:       os.Getenv(googleClientEnvVar),
		GoogleClientSecret:   os.Getenv(googleSecretEnvVar),
		FacebookClientID:     os.Getenv(facebookClientEnvVar),
		FacebookClientSecret: os.Getenv(facebookSecretEnvVar),

		ReadTimeout:  secrets.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: secrets.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
		IdleTimeout:  secrets.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
	}
}

// dbConfig assembles the database connection config,
// preferring DATABASE_URL when present.
func dbConfig(env secrets.Environment) *postgres.CxnConfig {
	if url := os.Getenv(dbURLEnvVar); url != "" {
		return &postgres.CxnConfig{IsTestDB: env.IsTesting(), URL: url}
	}

	return &postgres.CxnConfig{
		IsTestDB: env.IsTesting(),
		Host:     secrets.EnvVarOrString(dbHostEnvVar, "localhost"),
		Port:     secrets.EnvVarOrString(dbPortEnvVar, "5432"),
		Name:     secrets.EnvVarOrString(dbNameEnvVar, "secrets"),
		User:     secrets.EnvVarOrString(dbUserEnvVar, "secrets"),
		Password: os.Getenv(dbPassEnvVar),
		SSLMode:  secrets.EnvVarOrString(dbSSLEnvVar, ""),
	}
}

// valid asserts the minimum configuration the app cannot run without.
func (c Config) valid() error {
	if err := c.Env.Valid(); err != nil {
		return err
	}

	if c.BaseURL == nil {
		return fmt.Errorf("%w: %s is not a valid URL", secrets.ErrBadConfig, BaseURLEnvVar)
	}

	if c.Env.IsProduction() && (c.SessionAuthKey == "" || c.SessionEncryptKey == "") {
		return fmt.Errorf(
			"%w: %s and %s are required in production",
			secrets.ErrBadConfig,
			SessionAuthKeyEnvVar,
			SessionEncryptKeyEnvVar,
		)
	}

	return nil
}
