package zero

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWipeZeroesBuffer(t *testing.T) {
	buf := []byte("AGE-SECRET-KEY-1SUPERSECRET")
	z := NewBytes(buf)
	require.Equal(t, "AGE-SECRET-KEY-1SUPERSECRET", z.String())

	z.Wipe()

	for _, b := range z.Bytes() {
		require.Equal(t, byte(0), b)
	}
}

func TestWipeNilReceiver(t *testing.T) {
	var z *Bytes
	z.Wipe()
	require.Nil(t, z.Bytes())
	require.Equal(t, "", z.String())
}
