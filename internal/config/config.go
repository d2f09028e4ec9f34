package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	Environment        string `envconfig:"ENV" default:"development"`
	APIBaseURL         string `envconfig:"API_BASE_URL" default:"http://localhost:8080/v1"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING" required:"true"`

	// Object storage for resource files (any S3-compatible endpoint)
	S3URL       string        `envconfig:"S3_URL" required:"true"`
	S3Bucket    string        `envconfig:"S3_BUCKET" required:"true"`
	S3Region    string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string        `envconfig:"S3_ACCESS_KEY" required:"true"`
	S3SecretKey string        `envconfig:"S3_SECRET_KEY" required:"true"`
	S3URLExpiry time.Duration `envconfig:"S3_URL_EXPIRY" default:"15m"`

	// Session cookie and bearer token signing.
	// When the *_SECRET_NAME variant is set the value is read from Secret Manager instead.
	// Logout does not revoke bearer tokens; they stay valid until TokenTTL elapses.
	SessionSecret     string        `envconfig:"SESSION_SECRET"`
	SessionSecretName string        `envconfig:"SESSION_SECRET_NAME"`
	SessionCookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"sessionid"`
	SessionMaxAge     time.Duration `envconfig:"SESSION_MAX_AGE" default:"336h"`
	TokenSecret       string        `envconfig:"TOKEN_SECRET"`
	TokenSecretName   string        `envconfig:"TOKEN_SECRET_NAME"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	// Pub/Sub domain events. Empty topic disables publishing.
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	PubSubEventsTopic  string `envconfig:"PUBSUB_EVENTS_TOPIC"`
	PubSubEmulatorHost string `envconfig:"PUBSUB_EMULATOR_HOST"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// IsDevelopment reports whether the service runs with local defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
