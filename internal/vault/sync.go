package vault

import "context"

// SyncResult reports what a Sync call did or would do.
type SyncResult struct {
	Secrets    int
	Recipients int
	WasNeeded  bool
}

// NeedsSync reports whether the saved recipients fingerprint differs from
// the fingerprint of the current recipient set. A mismatch means secrets were last encrypted for
// a different recipient set than the one on file now (e.g. the config was
// hand-edited, or merged from a branch that added a recipient without
// re-encrypting).
func (e *Engine) NeedsSync() bool {
	return e.config.Holt.RecipientsHash != e.config.RecipientsFingerprint()
}

// Sync brings every secret's encryption in line with the current
// recipient set. When the fingerprint already matches and force is
// false, Sync is a no-op fast path: no decryption, no re-encryption, no
// write. With dryRun true, Sync reports what it would do without staging
// or writing any ciphertext.
func (e *Engine) Sync(ctx context.Context, dryRun, force bool) (SyncResult, error) {
	needed := e.NeedsSync()
	if !needed && !force {
		return SyncResult{
			Secrets:    len(e.config.Secrets),
			Recipients: len(e.config.Recipients),
			WasNeeded:  false,
		}, nil
	}

	if dryRun {
		return SyncResult{
			Secrets:    len(e.config.Secrets),
			Recipients: len(e.config.Recipients),
			WasNeeded:  true,
		}, nil
	}

	// Stage the fresh fingerprint before re-encrypting so it commits in the
	// same Save as the re-encrypted secrets, rather than a second write
	// after the fact.
	previousHash := e.config.Holt.RecipientsHash
	previousSecrets := e.config.Secrets
	e.config.Holt.RecipientsHash = e.config.RecipientsFingerprint()
	if err := e.reencryptIfNeeded(ctx); err != nil {
		e.config.Holt.RecipientsHash = previousHash
		e.config.Secrets = previousSecrets
		return SyncResult{}, err
	}

	e.log.Infof("synced %d secrets for %d recipients", len(e.config.Secrets), len(e.config.Recipients))
	return SyncResult{
		Secrets:    len(e.config.Secrets),
		Recipients: len(e.config.Recipients),
		WasNeeded:  true,
	}, nil
}
