// internal/config/loader_test.go
//
// Unit-tests for the layered loader.
//
// Each test writes a throwaway conf/global.yaml under t.TempDir() and calls
// load() directly, injecting a fake SecretGetter so no Vault server is
// needed.
//
// Run: go test ./internal/config -v

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("secret not found")
	}
	return v, nil
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return root
}

func TestLoad_DefaultsApplied(t *testing.T) {
	root := writeYAML(t, "http:\n  listen_addr: \"127.0.0.1:9000\"\n")

	cfg, err := load(context.Background(), root, fakeSecrets{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.ListenAddr != "127.0.0.1:9000" {
		t.Fatalf("listen_addr = %q", cfg.HTTP.ListenAddr)
	}
	if cfg.Submission.Backend != BackendDelay || cfg.Submission.Delay != time.Second {
		t.Fatalf("submission defaults = %+v", cfg.Submission)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	if cfg.Paths.Root != root {
		t.Fatalf("root = %q, want %q", cfg.Paths.Root, root)
	}
	if got := cfg.LogDir(); got != filepath.Join(root, "logs") {
		t.Fatalf("LogDir() = %q", got)
	}
	if Get() != cfg {
		t.Fatalf("Get() did not return the cached config")
	}
}

func TestLoad_DurationsAndEnvOverride(t *testing.T) {
	root := writeYAML(t, `
http:
  listen_addr: ":8080"
submission:
  backend: delay
  delay: 250ms
  timeout: 5s
`)
	t.Setenv("REGISTER_HTTP__LISTEN_ADDR", ":9999")
	t.Setenv("REGISTER_LOG__LEVEL", "debug")

	cfg, err := load(context.Background(), root, fakeSecrets{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.ListenAddr != ":9999" {
		t.Fatalf("env override ignored: %q", cfg.HTTP.ListenAddr)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
	if cfg.Submission.Delay != 250*time.Millisecond || cfg.Submission.Timeout != 5*time.Second {
		t.Fatalf("durations = %v / %v", cfg.Submission.Delay, cfg.Submission.Timeout)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown backend", "submission:\n  backend: carrier-pigeon\n", "Backend"},
		{"webhook needs url", "submission:\n  backend: webhook\n", "WebhookURL"},
		{"database needs dsn", "submission:\n  backend: database\n", "DSN"},
		{"bad level", "log:\n  level: loud\n", "Level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := writeYAML(t, tc.yaml)
			_, err := load(context.Background(), root, fakeSecrets{})
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_ResolvesVaultReferences(t *testing.T) {
	root := writeYAML(t, `
submission:
  backend: database
database:
  dsn: "register:x@tcp(db:3306)/register"
  password: "vault:secret/register#db_password"
csrf:
  key: "vault:secret/register#csrf_key"
`)
	secrets := fakeSecrets{
		"secret/register#db_password": "s3cret",
		"secret/register#csrf_key":    "a-very-long-key\n",
	}

	cfg, err := load(context.Background(), root, secrets)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Password != "s3cret" {
		t.Fatalf("password = %q", cfg.Database.Password)
	}
	if cfg.CSRF.Key != "a-very-long-key" {
		t.Fatalf("csrf key = %q", cfg.CSRF.Key)
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	root := writeYAML(t, "csrf:\n  key: \"vault:secret/register#nope\"\n")
	if _, err := load(context.Background(), root, fakeSecrets{}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestLoad_MissingYAML(t *testing.T) {
	if _, err := load(context.Background(), t.TempDir(), fakeSecrets{}); err == nil {
		t.Fatalf("expected error when conf/global.yaml is absent")
	}
}

func TestEnvKey(t *testing.T) {
	if got := envKey("REGISTER_SUBMISSION__WEBHOOK_URL"); got != "submission.webhook_url" {
		t.Fatalf("envKey() = %q", got)
	}
}
