package vault

import (
	"context"
	"fmt"

	holterrors "github.com/holtvault/holt/internal/errors"
)

// RotateResult summarizes a completed rotation.
type RotateResult struct {
	RecipientName      string
	NewPublicKey       string
	SecretsReencrypted int
}

// Rotate generates a fresh keypair for recipientName, archives the old
// project-local private key under a timestamp suffix, stages the new
// public key into the recipient set, and re-encrypts every secret for the
// updated recipient set. The recipient swap and the re-encrypted secrets
// commit together in the single Save inside reencryptIfNeeded. The
// existing secrets are still encrypted for the caller's old key, so
// e.identity is left pointing at the old identity until re-encryption has
// actually decrypted everything under it; only once that succeeds does the
// engine switch to decrypting (and future callers re-encrypting) under the
// new identity. If re-encryption fails, the old identity file has already
// been archived and the new one generated in the key store — by design the
// archive is never deleted, so the previous key is always recoverable by
// hand — but the vault file itself is rolled back in memory to the
// previous recipient set so it stays consistent with what's still on disk.
func (e *Engine) Rotate(ctx context.Context, recipientName string) (RotateResult, error) {
	if _, exists := e.config.Recipients[recipientName]; !exists {
		return RotateResult{}, fmt.Errorf("%w: %s", holterrors.ErrRecipientNotFound, recipientName)
	}

	newIdentity, err := e.store.ArchiveAndRegenerateProject(e.projectID)
	if err != nil {
		return RotateResult{}, err
	}

	previousPublicKey := e.config.Recipients[recipientName]
	previousHash := e.config.Holt.RecipientsHash
	previousSecrets := e.config.Secrets

	newPublicKey := newIdentity.Recipient().String()
	e.config.Recipients[recipientName] = newPublicKey
	e.config.Holt.RecipientsHash = e.config.RecipientsFingerprint()

	secretCount := len(e.config.Secrets)
	if err := e.reencryptIfNeeded(ctx); err != nil {
		e.config.Recipients[recipientName] = previousPublicKey
		e.config.Holt.RecipientsHash = previousHash
		e.config.Secrets = previousSecrets
		return RotateResult{}, fmt.Errorf("re-encrypting after rotation: %w", err)
	}

	e.identity = newIdentity

	e.log.Infof("rotated key for recipient %q", recipientName)
	return RotateResult{
		RecipientName:      recipientName,
		NewPublicKey:       newPublicKey,
		SecretsReencrypted: secretCount,
	}, nil
}
