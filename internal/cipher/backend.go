package cipher

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/holtvault/holt/internal/cipher/kms"
	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/holtvault/holt/internal/zero"
)

func encodeKMS(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func decodeKMS(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// BackendKind selects which cipher backend a vault uses.
type BackendKind string

const (
	BackendAge BackendKind = "age"
	BackendKMS BackendKind = "hybrid"
	BackendGPG BackendKind = "gpg"
)

// Backend is the uniform encrypt/decrypt contract every cipher backend
// implements, so the vault engine never branches on backend kind itself.
type Backend interface {
	// EncryptFor seals plaintext for the given recipient public keys,
	// returning the on-disk textual ciphertext (armored age, a v2
	// envelope, or GPG armor, depending on backend). secretName binds the
	// secret's own key into the ciphertext for backends that support
	// authenticated context (KMS); backends that don't need it ignore it.
	EncryptFor(ctx context.Context, plaintext []byte, recipients []string, secretName string) (string, error)

	// Decrypt opens ciphertext using identity (nil for backends, like
	// GPG, that resolve identity themselves). secretName must match the
	// value passed to EncryptFor for the same secret.
	Decrypt(ctx context.Context, ciphertext string, identity Identity, secretName string) (*zero.Bytes, error)

	Name() string
}

// ageBackend is the default, always-available backend.
type ageBackend struct{}

func NewAgeBackend() Backend { return ageBackend{} }

func (ageBackend) Name() string { return string(BackendAge) }

func (ageBackend) EncryptFor(ctx context.Context, plaintext []byte, recipientKeys []string, secretName string) (string, error) {
	recipients, err := ParseRecipients(recipientKeys)
	if err != nil {
		return "", err
	}
	ciphertext, err := EncryptAge(plaintext, recipients)
	if err != nil {
		return "", err
	}
	return string(ciphertext), nil
}

// Decrypt accepts raw age armor as well as v2 envelopes and v1 legacy
// records, so a vault that was once configured for the hybrid backend and
// later switched back to age-only can still read everything it wrote while
// hybrid was active — it just can't decrypt a secret whose only surviving
// copy is KMS-wrapped.
func (ageBackend) Decrypt(ctx context.Context, ciphertext string, identity Identity, secretName string) (*zero.Bytes, error) {
	if identity == nil {
		return nil, holterrors.ErrNoIdentity
	}

	if env, ok := ParseEnvelope(ciphertext); ok {
		if env.Age == "" {
			return nil, holterrors.ErrBackendNotCompiled
		}
		return DecryptAge([]byte(env.Age), identity)
	}

	plaintext, err := DecryptAge([]byte(ciphertext), identity)
	if err != nil {
		return nil, err
	}
	if _, isV1 := UnwrapV1(plaintext.Bytes()); isV1 {
		plaintext.Wipe()
		return nil, holterrors.ErrBackendNotCompiled
	}
	return plaintext, nil
}

// hybridBackend encrypts for age recipients and, when configured, also
// wraps a copy for a KMS key, producing a v2 envelope so either path can
// decrypt independently.
type hybridBackend struct {
	kmsBackend kms.Backend
}

func NewHybridBackend(kmsBackend kms.Backend) Backend {
	return &hybridBackend{kmsBackend: kmsBackend}
}

func (h *hybridBackend) Name() string { return string(BackendKMS) }

func (h *hybridBackend) EncryptFor(ctx context.Context, plaintext []byte, recipientKeys []string, secretName string) (string, error) {
	var ageCiphertext string
	if len(recipientKeys) > 0 {
		recipients, err := ParseRecipients(recipientKeys)
		if err != nil {
			return "", err
		}
		raw, err := EncryptAge(plaintext, recipients)
		if err != nil {
			return "", err
		}
		ageCiphertext = string(raw)
	}

	var kmsCiphertext string
	var provider Provider
	if h.kmsBackend != nil {
		aad := map[string]string{"holt-secret": secretName}
		raw, err := h.kmsBackend.Encrypt(ctx, plaintext, aad)
		if err != nil {
			return "", fmt.Errorf("%w: %v", holterrors.ErrEncryptionFailed, err)
		}
		kmsCiphertext = encodeKMS(raw)
		if p, ok := DetectProvider(h.kmsBackend.KeyID()); ok {
			provider = p
		}
	}

	if ageCiphertext == "" && kmsCiphertext == "" {
		return "", holterrors.ErrNoRecipients
	}

	env := NewEnvelope(ageCiphertext, kmsCiphertext, provider)
	return env.Seal()
}

func (h *hybridBackend) Decrypt(ctx context.Context, ciphertext string, identity Identity, secretName string) (*zero.Bytes, error) {
	env, ok := ParseEnvelope(ciphertext)
	if !ok {
		// Not a v2 envelope: either a plain age secret written before KMS
		// was ever configured, or a v1 record (KMS ciphertext nested
		// inside the age-decrypted plaintext). Age-decrypt first, then
		// check for the v1 marker before handing the result back.
		if identity == nil {
			return nil, holterrors.ErrNoIdentity
		}
		plaintext, err := DecryptAge([]byte(ciphertext), identity)
		if err != nil {
			return nil, err
		}
		nested, isV1 := UnwrapV1(plaintext.Bytes())
		if !isV1 {
			return plaintext, nil
		}
		plaintext.Wipe()
		if h.kmsBackend == nil {
			return nil, holterrors.ErrBackendNotCompiled
		}
		aad := map[string]string{"holt-secret": secretName}
		raw, err := h.kmsBackend.Decrypt(ctx, nested, aad)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", holterrors.ErrDecryptionFailed, err)
		}
		return zero.NewBytes(raw), nil
	}

	if identity != nil && env.Age != "" {
		plaintext, err := DecryptAge([]byte(env.Age), identity)
		if err == nil {
			return plaintext, nil
		}
	}

	if h.kmsBackend != nil && env.KMS != "" {
		raw, err := decodeKMS(env.KMS)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", holterrors.ErrCorruptCiphertext, err)
		}
		aad := map[string]string{"holt-secret": secretName}
		plaintext, err := h.kmsBackend.Decrypt(ctx, raw, aad)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", holterrors.ErrDecryptionFailed, err)
		}
		return zero.NewBytes(plaintext), nil
	}

	return nil, holterrors.ErrNoMatchingIdentity
}
