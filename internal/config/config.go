package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`

	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`
	MigrateOnStart     bool   `envconfig:"MIGRATE_ON_START" default:"true"`

	JWTSecret          string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTLMin  int    `envconfig:"ACCESS_TOKEN_TTL_MIN" default:"10080"` // 7 days
	ResetTokenTTLHours int    `envconfig:"RESET_TOKEN_TTL_HOURS" default:"72"`

	S3URL       string `envconfig:"S3_URL" required:"true"`
	S3Bucket    string `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string `envconfig:"S3_REGION" required:"true"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY" required:"true"`

	// Bounded wait for principal resolution on guarded routes; once exceeded
	// the request is denied, never let through unresolved.
	GuardTimeoutSec int `envconfig:"GUARD_TIMEOUT_SEC" default:"5"`

	// Optional Secret Manager overlay: when a project ID and secret names are
	// set, the JWT secret and DB password are fetched at startup instead of
	// being taken from the environment.
	GCPProjectID         string `envconfig:"GCP_PROJECT_ID"`
	JWTSecretName        string `envconfig:"JWT_SECRET_NAME"`
	DBPasswordSecretName string `envconfig:"DB_PASSWORD_SECRET_NAME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the app runs in local development mode.
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }
