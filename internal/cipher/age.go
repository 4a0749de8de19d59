// Package cipher implements the encryption primitives, envelope codec, and
// backend dispatch that the vault engine uses to seal and open secrets. It
// never touches the filesystem layout of a vault or a key store; it only
// turns (plaintext, recipients) into ciphertext and back.
package cipher

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"filippo.io/age/armor"

	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/holtvault/holt/internal/zero"
)

// MaxPayloadSize bounds ciphertext and recovered plaintext on the decrypt
// path only — encryption imposes no cap at the cipher layer. It is
// enforced by wrapping readers in an io.LimitedReader one byte past the
// cap, so the cap itself is a hard error rather than a silent truncation.
const MaxPayloadSize = 10 << 20 // 10 MiB

// Identity is anything that can decrypt age ciphertext addressed to it.
// age.Identity already satisfies this; it is aliased here so callers of
// this package never need to import filippo.io/age directly.
type Identity = age.Identity

// Recipient is anything age can encrypt a stanza for.
type Recipient = age.Recipient

// GenerateIdentity creates a new X25519 keypair.
func GenerateIdentity() (*age.X25519Identity, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrKeyGenerationFailed, err)
	}
	return id, nil
}

// ParseIdentity parses a single age identity (AGE-SECRET-KEY-1...) from its
// textual form.
func ParseIdentity(s string) (age.Identity, error) {
	ids, err := age.ParseIdentities(bytes.NewReader([]byte(s)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrInvalidIdentity, err)
	}
	if len(ids) == 0 {
		return nil, holterrors.ErrInvalidIdentity
	}
	return ids[0], nil
}

// ParseRecipient parses a single age recipient (age1...) from its textual
// form.
func ParseRecipient(s string) (age.Recipient, error) {
	recipients, err := age.ParseRecipients(bytes.NewReader([]byte(s)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrInvalidRecipient, err)
	}
	if len(recipients) == 0 {
		return nil, holterrors.ErrInvalidRecipient
	}
	return recipients[0], nil
}

// ParseRecipients parses a set of recipient public keys, one per string.
// A single invalid key fails the whole call, matching the original
// get_recipients behavior of failing fast on any malformed entry at
// encrypt time (as opposed to the lenient skip-and-warn behavior used
// when simply listing recipients for display).
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	if len(keys) == 0 {
		return nil, holterrors.ErrNoRecipients
	}
	recipients := make([]age.Recipient, 0, len(keys))
	for _, k := range keys {
		r, err := ParseRecipient(k)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, nil
}

// EncryptAge seals plaintext for one or more recipients, returning ASCII
// armored ciphertext.
func EncryptAge(plaintext []byte, recipients []age.Recipient) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, holterrors.ErrNoRecipients
	}

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)
	w, err := age.Encrypt(aw, recipients...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrEncryptionFailed, err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrEncryptionFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrEncryptionFailed, err)
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrEncryptionFailed, err)
	}
	return buf.Bytes(), nil
}

// DecryptAge opens ciphertext with the given identity, returning a
// zeroizable plaintext buffer.
func DecryptAge(ciphertext []byte, identity age.Identity) (*zero.Bytes, error) {
	if len(ciphertext) > MaxPayloadSize {
		return nil, holterrors.ErrPayloadTooLarge
	}

	var src io.Reader = bytes.NewReader(ciphertext)
	if bytes.HasPrefix(ciphertext, []byte(armor.Header)) {
		src = armor.NewReader(src)
	}
	r, err := age.Decrypt(src, identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) || errors.Is(err, age.ErrIncorrectIdentity) {
			return nil, holterrors.ErrNoMatchingIdentity
		}
		return nil, fmt.Errorf("%w: %v", holterrors.ErrCorruptCiphertext, err)
	}

	limited := io.LimitReader(r, MaxPayloadSize+1)
	plaintext, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrDecryptionFailed, err)
	}
	if len(plaintext) > MaxPayloadSize {
		return nil, holterrors.ErrPayloadTooLarge
	}
	return zero.NewBytes(plaintext), nil
}
