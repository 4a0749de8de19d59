package cipher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectProviderAWSArn(t *testing.T) {
	p, ok := DetectProvider("arn:aws:kms:us-east-1:111122223333:key/abcd-1234")
	require.True(t, ok)
	require.Equal(t, ProviderAWS, p)
}

func TestDetectProviderGCPResource(t *testing.T) {
	p, ok := DetectProvider("projects/my-proj/locations/global/keyRings/ring/cryptoKeys/key")
	require.True(t, ok)
	require.Equal(t, ProviderGCP, p)
}

func TestDetectProviderInvalid(t *testing.T) {
	_, ok := DetectProvider("not-a-key-resource")
	require.False(t, ok)
}

func TestEnvelopeRoundtrip(t *testing.T) {
	e := NewEnvelope("age-ciphertext", "kms-ciphertext", ProviderAWS)
	sealed, err := e.Seal()
	require.NoError(t, err)

	parsed, ok := ParseEnvelope(sealed)
	require.True(t, ok)
	require.Equal(t, e, parsed)
}

func TestEnvelopeAgeOnly(t *testing.T) {
	e := NewEnvelope("age-ciphertext", "", "")
	sealed, err := e.Seal()
	require.NoError(t, err)

	parsed, ok := ParseEnvelope(sealed)
	require.True(t, ok)
	require.Equal(t, "age-ciphertext", parsed.Age)
	require.Empty(t, parsed.KMS)
}

func TestParseEnvelopeRawAgeReturnsFalse(t *testing.T) {
	raw := "-----BEGIN AGE ENCRYPTED FILE-----\nYWJjZGVm\n-----END AGE ENCRYPTED FILE-----\n"
	_, ok := ParseEnvelope(raw)
	require.False(t, ok)
}

func TestIsEnvelope(t *testing.T) {
	e := NewEnvelope("age-ciphertext", "", "")
	sealed, err := e.Seal()
	require.NoError(t, err)

	require.True(t, IsEnvelope(sealed))
	require.False(t, IsEnvelope("-----BEGIN AGE ENCRYPTED FILE-----"))
}

func TestV1RoundTrip(t *testing.T) {
	wrapped := WrapV1([]byte("kms-ciphertext-bytes"))
	unwrapped, ok := UnwrapV1(wrapped)
	require.True(t, ok)
	require.Equal(t, []byte("kms-ciphertext-bytes"), unwrapped)
}

func TestUnwrapV1RejectsRawPlaintext(t *testing.T) {
	_, ok := UnwrapV1([]byte("just a normal secret value"))
	require.False(t, ok)
}
