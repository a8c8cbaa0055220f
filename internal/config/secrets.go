// internal/config/secrets.go
//
// Vault reference resolution.
//
// Context
// -------
// Any supported string value of the form `vault:<mount>/<path>#<key>` is
// replaced by the named KV-v2 secret before validation.  Resolution happens
// once per Load; later reads never touch Vault.
//
// Notes
// -----
//   • Only the fields listed in secretFields are inspected.
//   • Oxford commas, two spaces after periods.

package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/register/internal/vault"
)

// SecretGetter is the subset of *vault.Client used by the loader.
type SecretGetter interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// secretFields lists the values that may hold a `vault:` reference.
func secretFields(c *Config) map[string]*string {
	return map[string]*string{
		"csrf.key":                 &c.CSRF.Key,
		"database.dsn":             &c.Database.DSN,
		"database.password":        &c.Database.Password,
		"submission.webhook_url":   &c.Submission.WebhookURL,
		"submission.webhook_token": &c.Submission.WebhookToken,
	}
}

// resolveSecrets swaps every `vault:` reference for its value.  When secrets
// is nil and a reference exists, a Vault client is built from VAULT_ADDR and
// VAULT_TOKEN.
func resolveSecrets(ctx context.Context, c *Config, secrets SecretGetter) error {
	for name, ptr := range secretFields(c) {
		if !vault.IsRef(*ptr) {
			continue
		}
		path, key, err := vault.ParseRef(*ptr)
		if err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
		if secrets == nil {
			cli, err := vault.New(ctx, zap.S())
			if err != nil {
				return fmt.Errorf("config %s: %w", name, err)
			}
			secrets = cli
		}
		val, err := secrets.GetKV(ctx, path, key, 0)
		if err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
		*ptr = strings.TrimSpace(val)
		zap.S().Debugw("config secret resolved", "field", name, "path", path)
	}
	return nil
}
