package vault

import (
	"context"
	"fmt"

	"github.com/holtvault/holt/internal/cipher"
	holterrors "github.com/holtvault/holt/internal/errors"
)

// AddRecipient validates publicKey, stages it under name in memory, and
// re-encrypts every existing secret for the new recipient set, committing
// the recipient change alongside the re-encrypted secrets in the single
// Save inside reencryptIfNeeded — unless the vault has no secrets yet, in
// which case there is nothing to re-encrypt but the recipient change is
// still committed. If re-encryption fails, the staged recipient is rolled
// back so the in-memory config matches the untouched vault file on disk.
func (e *Engine) AddRecipient(ctx context.Context, name, publicKey string) error {
	if _, exists := e.config.Recipients[name]; exists {
		return fmt.Errorf("%w: %s", holterrors.ErrRecipientExists, name)
	}
	if _, err := cipher.ParseRecipient(publicKey); err != nil {
		return err
	}

	previousHash := e.config.Holt.RecipientsHash
	previousSecrets := e.config.Secrets
	e.config.Recipients[name] = publicKey
	e.config.Holt.RecipientsHash = e.config.RecipientsFingerprint()

	if err := e.reencryptIfNeeded(ctx); err != nil {
		delete(e.config.Recipients, name)
		e.config.Holt.RecipientsHash = previousHash
		e.config.Secrets = previousSecrets
		return fmt.Errorf("re-encrypting after adding %q: %w", name, err)
	}

	e.log.Infof("added recipient %q", name)
	return nil
}

// RemoveRecipient deletes name from the recipient set in memory and
// re-encrypts remaining secrets so the removed recipient can no longer
// decrypt anything going forward (their existing local copies of already
// fetched plaintext are, as always, outside the vault's control). Removing
// the vault's only remaining recipient is refused outright: a vault must
// always keep at least one. The recipient change and the re-encrypted
// secrets commit together in the single Save inside reencryptIfNeeded; a
// failure there rolls the staged removal back.
func (e *Engine) RemoveRecipient(ctx context.Context, name string) error {
	if _, exists := e.config.Recipients[name]; !exists {
		return fmt.Errorf("%w: %s", holterrors.ErrRecipientNotFound, name)
	}
	if len(e.config.Recipients) == 1 {
		return fmt.Errorf("%w: %s", holterrors.ErrLastRecipient, name)
	}

	previousKey := e.config.Recipients[name]
	previousHash := e.config.Holt.RecipientsHash
	previousSecrets := e.config.Secrets
	delete(e.config.Recipients, name)
	e.config.Holt.RecipientsHash = e.config.RecipientsFingerprint()

	if err := e.reencryptIfNeeded(ctx); err != nil {
		e.config.Recipients[name] = previousKey
		e.config.Holt.RecipientsHash = previousHash
		e.config.Secrets = previousSecrets
		return fmt.Errorf("re-encrypting after removing %q: %w", name, err)
	}

	e.log.Infof("removed recipient %q", name)
	return nil
}
