// internal/config/model.go
//
// Typed configuration model for the registration service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `REGISTER_`-prefixed environment overrides – highest precedence.
//
// Any string value beginning with `vault:` is resolved through Vault *before*
// validation, so the model never keeps Vault references, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// Log section
//

// Log controls the zap logger.  Dir is relative to Paths.Root unless
// absolute.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Submission section
//

// Backend names accepted by Submission.Backend.
const (
	BackendDelay    = "delay"
	BackendDatabase = "database"
	BackendWebhook  = "webhook"
)

// Submission selects and tunes the backend that receives validated
// registrations.
//
// `delay` simulates a slow round trip and always succeeds.  `database`
// writes a row per registration.  `webhook` POSTs JSON to WebhookURL, with
// WebhookToken as a bearer credential when set.
type Submission struct {
	Backend      string        `koanf:"backend"       validate:"required,oneof=delay database webhook"`
	Delay        time.Duration `koanf:"delay"         validate:"gte=0"`
	Timeout      time.Duration `koanf:"timeout"       validate:"gte=0"`
	WebhookURL   string        `koanf:"webhook_url"   validate:"required_if=Backend webhook,omitempty,url"`
	WebhookToken string        `koanf:"webhook_token"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The DSN is kept in YAML so operators can tweak host, port, or flags
// without touching Vault.  The password is usually a `vault:` reference and
// replaces whatever password the DSN carries.  Both are only required when
// Submission.Backend is `database`.
type Database struct {
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password"`
}

//
// CSRF section
//

// CSRF holds the token signing key, base64url encoded, at least 32 bytes
// once decoded.  When empty a random per-process key is generated.
type CSRF struct {
	Key string `koanf:"key"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // REGISTER_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP       HTTP       `koanf:"http"`
	Log        Log        `koanf:"log"`
	Submission Submission `koanf:"submission"`
	Database   Database   `koanf:"database"`
	CSRF       CSRF       `koanf:"csrf"`
	Paths      Paths      `koanf:"-"` // not loaded from config files
}

// applyDefaults fills zero values that YAML and env left unset.
func applyDefaults(c *Config) {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Submission.Backend == "" {
		c.Submission.Backend = BackendDelay
	}
	if c.Submission.Delay == 0 {
		c.Submission.Delay = time.Second
	}
	if c.Submission.Timeout == 0 {
		c.Submission.Timeout = 30 * time.Second
	}
}
