// Package vault implements the vault engine: the on-disk configuration
// document, recipient and secret management, re-encryption, rotation, and
// sync operations described by the team secrets manager this module
// implements.
package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	holterrors "github.com/holtvault/holt/internal/errors"
)

// ConfigFileName is the vault's on-disk file name, stored at the root of
// the project directory.
const ConfigFileName = ".holt.toml"

const currentSchemaVersion = 1

// AppMeta is the `[holt]` schema section: a version tag plus, once any
// recipient has been added, a fingerprint of the current recipient set so
// a reader can detect out-of-band recipient tampering.
type AppMeta struct {
	Version        int    `toml:"version"`
	RecipientsHash string `toml:"recipients_hash,omitempty"`
	// Cipher selects the backend: "age", "hybrid", or "gpg". When empty,
	// the backend is "hybrid" if a [kms] section is present, else "age".
	Cipher string `toml:"cipher,omitempty"`
}

// KMSConfig is the optional `[kms]` section selecting a hybrid backend.
type KMSConfig struct {
	KeyID string `toml:"key_id"`
}

// Config is the vault's TOML document.
type Config struct {
	Holt       AppMeta           `toml:"holt"`
	KMS        *KMSConfig        `toml:"kms,omitempty"`
	Recipients map[string]string `toml:"recipients"`
	Secrets    map[string]string `toml:"secrets"`
}

// NewConfig returns an empty, unsaved configuration at the current schema
// version.
func NewConfig() *Config {
	return &Config{
		Holt:       AppMeta{Version: currentSchemaVersion},
		Recipients: map[string]string{},
		Secrets:    map[string]string{},
	}
}

// ConfigPath returns the path to the vault file for a project directory.
func ConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ConfigFileName)
}

// Exists reports whether a vault file is already present.
func Exists(projectDir string) bool {
	_, err := os.Stat(ConfigPath(projectDir))
	return err == nil
}

// LoadConfig reads and parses the vault file at projectDir.
func LoadConfig(projectDir string) (*Config, error) {
	path := ConfigPath(projectDir)
	if _, err := os.Stat(path); err != nil {
		return nil, holterrors.ErrNotInitialized
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrInvalidConfig, err)
	}
	if cfg.Holt.Version > currentSchemaVersion {
		return nil, fmt.Errorf("%w: vault is schema version %d, this binary supports up to %d", holterrors.ErrSchemaMismatch, cfg.Holt.Version, currentSchemaVersion)
	}
	if cfg.Recipients == nil {
		cfg.Recipients = map[string]string{}
	}
	if cfg.Secrets == nil {
		cfg.Secrets = map[string]string{}
	}
	return &cfg, nil
}

// Save writes the config atomically: encode to a temp file in the same
// directory, fsync, then rename over the target. The temp-then-rename
// sequence means a reader never observes a half-written vault file, and
// the fsync means a rename that completes has actually reached disk.
func (c *Config) Save(projectDir string) error {
	path := ConfigPath(projectDir)
	dir := projectDir
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".holt.toml.tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", holterrors.ErrInvalidConfig, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := toml.NewEncoder(tmp).Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", holterrors.ErrInvalidConfig, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", holterrors.ErrInvalidConfig, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", holterrors.ErrInvalidConfig, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("%w: %v", holterrors.ErrInvalidConfig, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: %v", holterrors.ErrInvalidConfig, err)
	}
	return nil
}

// RecipientsFingerprint computes the SHA-256 digest of the sorted,
// domain-separated, joined recipient public keys. Two vaults with the
// same fingerprint have the exact same recipient set, independent of the
// order recipients were added in.
func (c *Config) RecipientsFingerprint() string {
	return FingerprintRecipients(c.Recipients)
}

// FingerprintRecipients hashes a recipient name->publickey map the same
// way RecipientsFingerprint does, for callers that have a map but not a
// full Config (e.g. comparing a remote vault's recipients before pulling).
func FingerprintRecipients(recipients map[string]string) string {
	keys := make([]string, 0, len(recipients))
	for _, pubkey := range recipients {
		keys = append(keys, pubkey)
	}
	sort.Strings(keys)

	h := sha256.New()
	h.Write([]byte("holt-recipients-v1"))
	for _, k := range keys {
		h.Write([]byte("\x00"))
		h.Write([]byte(k))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// EnsureGitignore appends .env exclusion entries to the project's
// .gitignore, idempotently, so a freshly exported .env is never
// accidentally committed alongside the vault file. This is a supplemental,
// CLI-adjacent convenience grounded in the original tool's own
// ensure_gitignore behavior; the vault engine does not require it.
func EnsureGitignore(projectDir string) error {
	path := filepath.Join(projectDir, ".gitignore")
	wanted := []string{".env", ".env.*", "!.env.example"}

	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return err
	}

	lines := strings.Split(existing, "\n")
	present := make(map[string]bool, len(lines))
	for _, l := range lines {
		present[strings.TrimSpace(l)] = true
	}

	var toAppend []string
	for _, w := range wanted {
		if !present[w] {
			toAppend = append(toAppend, w)
		}
	}
	if len(toAppend) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if existing != "" && !strings.HasSuffix(existing, "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	for _, line := range toAppend {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}
