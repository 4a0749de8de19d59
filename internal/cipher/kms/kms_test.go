package kms

import (
	"testing"

	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestDetectProviderAWSAlias(t *testing.T) {
	p, ok := DetectProvider("arn:aws:kms:us-west-2:123456789012:alias/holt-prod")
	require.True(t, ok)
	require.Equal(t, "aws", p)
}

func TestDetectProviderGCP(t *testing.T) {
	p, ok := DetectProvider("projects/p/locations/global/keyRings/r/cryptoKeys/k")
	require.True(t, ok)
	require.Equal(t, "gcp", p)
}

func TestDetectProviderUnknown(t *testing.T) {
	_, ok := DetectProvider("not-a-kms-key")
	require.False(t, ok)
}

func TestNewUnsupportedProvider(t *testing.T) {
	_, err := New("not-a-kms-key")
	require.ErrorIs(t, err, holterrors.ErrUnsupportedProvider)
}
