package vault

import (
	"context"
	"errors"
	"fmt"
	"sort"

	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/holtvault/holt/internal/zero"
)

// validateKey enforces the same naming rule as a shell environment
// variable: non-empty, first character not a digit, and only
// alphanumerics and underscores thereafter.
func validateKey(key string) error {
	if key == "" {
		return holterrors.ErrEmptyKey
	}
	first := key[0]
	if first >= '0' && first <= '9' {
		return fmt.Errorf("%w: %q cannot start with a digit", holterrors.ErrInvalidKey, key)
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		isAlnum := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
		if !isAlnum && ch != '_' {
			return fmt.Errorf("%w: %q has invalid character %q at position %d", holterrors.ErrInvalidKey, key, ch, i+1)
		}
	}
	return nil
}

func validateValue(key, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", holterrors.ErrEmptyValue, key)
	}
	return nil
}

// prepareSecret validates and encrypts value for key without touching
// e.config.Secrets or writing anything to disk, so callers can stage
// several secrets and commit them in a single Save. It is the shared
// validate-and-encrypt path used by both Set and Import, so the two
// operations cannot drift in how they validate, enforce AlreadyExists, or
// check for recipients.
func (e *Engine) prepareSecret(ctx context.Context, key, value string, force bool) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := validateValue(key, value); err != nil {
		return "", err
	}

	if _, exists := e.config.Secrets[key]; exists && !force {
		return "", fmt.Errorf("%w: %s", holterrors.ErrSecretExists, key)
	}

	recipientKeys := e.recipientKeys()
	if len(recipientKeys) == 0 {
		return "", holterrors.ErrNoRecipients
	}

	return e.backend.EncryptFor(ctx, []byte(value), recipientKeys, key)
}

// setSecret prepares and immediately commits a single secret.
func (e *Engine) setSecret(ctx context.Context, key, value string, force bool) error {
	ciphertext, err := e.prepareSecret(ctx, key, value, force)
	if err != nil {
		return err
	}
	e.config.Secrets[key] = ciphertext
	return e.config.Save(e.projectDir)
}

// Set encrypts value for every current recipient and stores it under key.
// Unless force is true, an existing secret with that key is left
// untouched and ErrSecretExists is returned.
func (e *Engine) Set(ctx context.Context, key, value string, force bool) error {
	err := e.setSecret(ctx, key, value, force)
	if err == nil {
		e.log.Infof("set secret %q", key)
	}
	return err
}

// Get decrypts and returns the named secret.
func (e *Engine) Get(ctx context.Context, key string) (*zero.Bytes, error) {
	ciphertext, ok := e.config.Secrets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", holterrors.ErrSecretNotFound, key)
	}
	return e.backend.Decrypt(ctx, ciphertext, e.identity, key)
}

// Delete removes a secret from the vault. It does not trigger
// re-encryption: remaining secrets are untouched, since deleting one
// secret leaks nothing about the others.
func (e *Engine) Delete(key string) error {
	if _, ok := e.config.Secrets[key]; !ok {
		return fmt.Errorf("%w: %s", holterrors.ErrSecretNotFound, key)
	}
	delete(e.config.Secrets, key)
	if err := e.config.Save(e.projectDir); err != nil {
		return err
	}
	e.log.Infof("removed secret %q", key)
	return nil
}

// List returns every secret key currently stored, sorted for determinism.
func (e *Engine) List() []string {
	keys := make([]string, 0, len(e.config.Secrets))
	for k := range e.config.Secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Import encrypts every pair, reusing prepareSecret so import validates and
// rejects exactly like a sequence of Set calls with the same force
// semantics. Per-entry failures are aggregated rather than aborting on the
// first one: every pair is attempted, and a failed entry does not stop the
// rest from being prepared. Successful entries are only ever committed to
// the config in a single Save once every pair has been attempted, so a
// partially-failing import never leaves the vault file half-applied.
// Parsing raw .env text into pairs is a CLI-layer concern, not the engine's.
func (e *Engine) Import(ctx context.Context, pairs map[string]string, force bool) ([]string, error) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ciphertexts := make(map[string]string, len(keys))
	imported := make([]string, 0, len(keys))
	var failures []error
	for _, key := range keys {
		ciphertext, err := e.prepareSecret(ctx, key, pairs[key], force)
		if err != nil {
			failures = append(failures, fmt.Errorf("importing %q: %w", key, err))
			continue
		}
		ciphertexts[key] = ciphertext
		imported = append(imported, key)
	}

	if len(imported) == 0 {
		return imported, errors.Join(failures...)
	}

	for key, ciphertext := range ciphertexts {
		e.config.Secrets[key] = ciphertext
	}
	if err := e.config.Save(e.projectDir); err != nil {
		return nil, err
	}

	e.log.Infof("imported %d secrets", len(imported))
	return imported, errors.Join(failures...)
}

// Export decrypts every secret and returns the full (name, value) set.
func (e *Engine) Export(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(e.config.Secrets))
	for key := range e.config.Secrets {
		plaintext, err := e.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("exporting %q: %w", key, err)
		}
		out[key] = plaintext.String()
		plaintext.Wipe()
	}
	return out, nil
}

// decryptAll decrypts every stored secret into a zeroizable map, used by
// the re-encryption protocol. On any failure, every already-decrypted
// buffer is wiped before the error is returned — partially decrypted
// state never lingers in memory past the point it's known unusable.
func (e *Engine) decryptAll(ctx context.Context) (map[string]*zero.Bytes, error) {
	out := make(map[string]*zero.Bytes, len(e.config.Secrets))
	for key, ciphertext := range e.config.Secrets {
		plaintext, err := e.backend.Decrypt(ctx, ciphertext, e.identity, key)
		if err != nil {
			for _, p := range out {
				p.Wipe()
			}
			return nil, fmt.Errorf("decrypting %q: %w", key, err)
		}
		out[key] = plaintext
	}
	return out, nil
}

// reencryptAll builds a fresh ciphertext map for the current recipient
// set from an already-decrypted secret map, without mutating the engine's
// config until every secret has encrypted successfully — the swap is all
// or nothing, so a mid-batch encryption failure can never leave the vault
// with some secrets re-keyed and some not.
func (e *Engine) reencryptAll(ctx context.Context, plaintexts map[string]*zero.Bytes) (map[string]string, error) {
	recipientKeys := e.recipientKeys()
	if len(recipientKeys) == 0 {
		return nil, holterrors.ErrNoRecipients
	}

	fresh := make(map[string]string, len(plaintexts))
	for key, plaintext := range plaintexts {
		ciphertext, err := e.backend.EncryptFor(ctx, plaintext.Bytes(), recipientKeys, key)
		if err != nil {
			return nil, fmt.Errorf("re-encrypting %q: %w", key, err)
		}
		fresh[key] = ciphertext
	}
	return fresh, nil
}

// reencryptIfNeeded re-keys every stored secret for the current recipient
// set and commits the result in a single Save alongside whatever recipient
// or schema changes the caller has already staged in e.config — callers
// that change the recipient set are expected to mutate e.config.Recipients
// and e.config.Holt.RecipientsHash in memory and leave the commit to this
// call, so a re-encryption failure leaves the on-disk vault file completely
// unchanged. When the vault has no secrets yet, re-encryption itself is a
// no-op, but the staged recipient change still needs to reach disk, so the
// Save always runs.
func (e *Engine) reencryptIfNeeded(ctx context.Context) error {
	if len(e.config.Secrets) == 0 {
		return e.config.Save(e.projectDir)
	}

	plaintexts, err := e.decryptAll(ctx)
	if err != nil {
		return err
	}
	defer func() {
		for _, p := range plaintexts {
			p.Wipe()
		}
	}()

	fresh, err := e.reencryptAll(ctx, plaintexts)
	if err != nil {
		return err
	}

	e.config.Secrets = fresh
	return e.config.Save(e.projectDir)
}
