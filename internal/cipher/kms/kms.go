// Package kms adapts one or more cloud key-management services behind a
// single Backend contract. Real provider implementations are gated behind
// Go build tags (holt_aws, holt_gcp) so that a default build links no
// cloud SDK into the binary; stub variants return ErrBackendNotCompiled.
package kms

import (
	"context"
	"strings"

	holterrors "github.com/holtvault/holt/internal/errors"
)

// Backend performs envelope encryption/decryption against a single
// managed key.
type Backend interface {
	// Encrypt wraps plaintext with the configured key, binding context as
	// additional authenticated data (e.g. the secret name).
	Encrypt(ctx context.Context, plaintext []byte, context map[string]string) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte, context map[string]string) ([]byte, error)
	KeyID() string
}

// New constructs the Backend for the given key resource name. The
// provider is inferred from the resource name's shape.
func New(keyID string) (Backend, error) {
	provider, ok := DetectProvider(keyID)
	if !ok {
		return nil, holterrors.ErrUnsupportedProvider
	}
	switch provider {
	case "aws":
		return newAWS(keyID)
	case "gcp":
		return newGCP(keyID)
	default:
		return nil, holterrors.ErrUnsupportedProvider
	}
}

// DetectProvider infers the provider from a key resource name's shape.
// It is pure and carries no SDK dependency, so it is always compiled in
// and testable regardless of which (if any) real backend build tag is
// active.
func DetectProvider(keyID string) (string, bool) {
	switch {
	case strings.HasPrefix(keyID, "arn:aws:kms:"):
		return "aws", true
	case strings.HasPrefix(keyID, "projects/") && strings.Contains(keyID, "/cryptoKeys/"):
		return "gcp", true
	default:
		return "", false
	}
}
