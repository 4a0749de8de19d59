// Package errors provides typed error values for the holt vault engine.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Config errors: vault state and configuration issues (ErrNotInitialized, ErrNoRecipients)
//   - Cipher errors: encryption/decryption failures (ErrDecryptionFailed, ErrNoMatchingIdentity)
//   - Store errors: key file access issues (ErrKeyReadFailed, ErrUnsafePermissions)
//   - Secret errors: per-entry state issues (ErrSecretNotFound, ErrSecretExists)
//   - Validation errors: malformed user input (ErrInvalidKey, ErrEmptyValue)
//
// # Usage
//
// Return errors from internal packages:
//
//	if !vault.Exists(projectDir) {
//	    return nil, errors.ErrNotInitialized
//	}
//
// Handle errors in the CLI layer:
//
//	err := engine.Set(ctx, key, value, false)
//	if errors.Is(err, holterrors.ErrSecretExists) {
//	    // prompt for --force
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("opening vault at %s: %w", dir, errors.ErrNotInitialized)
package errors
