package app

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration, loaded once at startup and
// passed into the application explicitly. Nothing reads the
// environment after LoadConfig returns.
type Config struct {
	Issuer         string `env:"COLLABFLOW_ISSUER" envDefault:"collabflow"`
	BootstrapToken string `env:"BOOTSTRAP_TOKEN"` // empty disables the bootstrap endpoint

	// SigningKeyFile points at a PKCS8 PEM Ed25519 private key. When
	// empty an ephemeral key is generated; tokens die with the process.
	SigningKeyFile string `env:"COLLABFLOW_SIGNING_KEY_FILE"`
	SigningKeyID   string `env:"COLLABFLOW_SIGNING_KEY_ID" envDefault:"collabflow-key-001"`

	DatabaseFile string `env:"COLLABFLOW_DATABASE_FILE" envDefault:"collabflow.db"`
	PepperFile   string `env:"COLLABFLOW_PEPPER_FILE" envDefault:"pepper"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	// InviteTTL bounds invite validity; zero disables expiry.
	InviteTTL      time.Duration `env:"COLLABFLOW_INVITE_TTL" envDefault:"168h"`
	AccessTokenTTL time.Duration `env:"COLLABFLOW_ACCESS_TOKEN_TTL" envDefault:"1h"`
}

func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
