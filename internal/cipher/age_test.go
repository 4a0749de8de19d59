package cipher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAgeRoundTrip(t *testing.T) {
	identity, err := GenerateIdentity()
	require.NoError(t, err)

	ciphertext, err := EncryptAge([]byte("hello vault"), []Recipient{identity.Recipient()})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(ciphertext), "-----BEGIN AGE ENCRYPTED FILE-----"))

	plaintext, err := DecryptAge(ciphertext, identity)
	require.NoError(t, err)
	require.Equal(t, "hello vault", plaintext.String())
}

func TestAgeMultiRecipient(t *testing.T) {
	alice, err := GenerateIdentity()
	require.NoError(t, err)
	bob, err := GenerateIdentity()
	require.NoError(t, err)

	ciphertext, err := EncryptAge([]byte("shared"), []Recipient{alice.Recipient(), bob.Recipient()})
	require.NoError(t, err)

	alicePlain, err := DecryptAge(ciphertext, alice)
	require.NoError(t, err)
	require.Equal(t, "shared", alicePlain.String())

	bobPlain, err := DecryptAge(ciphertext, bob)
	require.NoError(t, err)
	require.Equal(t, "shared", bobPlain.String())
}

func TestAgeEncryptNoRecipients(t *testing.T) {
	_, err := EncryptAge([]byte("x"), nil)
	require.Error(t, err)
}

func TestAgeDecryptWrongIdentity(t *testing.T) {
	alice, err := GenerateIdentity()
	require.NoError(t, err)
	mallory, err := GenerateIdentity()
	require.NoError(t, err)

	ciphertext, err := EncryptAge([]byte("for alice only"), []Recipient{alice.Recipient()})
	require.NoError(t, err)

	_, err = DecryptAge(ciphertext, mallory)
	require.Error(t, err)
}

func TestParseRecipientsRejectsAnyInvalidEntry(t *testing.T) {
	identity, err := GenerateIdentity()
	require.NoError(t, err)

	_, err = ParseRecipients([]string{identity.Recipient().String(), "not-a-key"})
	require.Error(t, err)
}
