package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("HOLT_HOME", t.TempDir())
	s, err := Open()
	require.NoError(t, err)
	return s
}

func TestGenerateAndLoadGlobal(t *testing.T) {
	s := openTestStore(t)
	require.False(t, s.HasGlobal())

	id, err := s.GenerateGlobal()
	require.NoError(t, err)
	require.True(t, s.HasGlobal())

	loaded, err := s.LoadGlobal()
	require.NoError(t, err)
	loadedX25519, ok := loaded.(*age.X25519Identity)
	require.True(t, ok)
	require.Equal(t, id.Recipient().String(), loadedX25519.Recipient().String())
}

func TestGenerateProjectWritesOnlyPrivateKey(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GenerateProject("abc123")
	require.NoError(t, err)

	info, err := os.Stat(s.ProjectPrivateKeyPath("abc123"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(s.ProjectDir("abc123"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestArchiveAndRegenerateProjectPreservesOldKey(t *testing.T) {
	s := openTestStore(t)
	original, err := s.GenerateProject("proj")
	require.NoError(t, err)

	newIdentity, err := s.ArchiveAndRegenerateProject("proj")
	require.NoError(t, err)
	require.NotEqual(t, original.Recipient().String(), newIdentity.Recipient().String())

	entries, err := os.ReadDir(s.ProjectDir("proj"))
	require.NoError(t, err)

	var archived int
	for _, e := range entries {
		if e.Name() != projectIdentityName {
			archived++
		}
	}
	require.Equal(t, 1, archived)
}

func TestWriteAndListRequests(t *testing.T) {
	s := openTestStore(t)
	path, err := s.WriteRequest("", "alice-laptop", "age1examplepublickey")
	require.NoError(t, err)
	require.Equal(t, filepath.Dir(path), s.RequestsDir(""))

	requests, err := s.ListRequests("")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, "alice-laptop", requests[0].Label)
	require.NotEmpty(t, requests[0].Ticket)
}

func TestWriteRequestTwiceDoesNotCollide(t *testing.T) {
	s := openTestStore(t)
	first, err := s.WriteRequest("", "alice-laptop", "age1first")
	require.NoError(t, err)
	second, err := s.WriteRequest("", "alice-laptop", "age1second")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	requests, err := s.ListRequests("")
	require.NoError(t, err)
	require.Len(t, requests, 2)
}

func TestListRequestsEmptyWhenDirMissing(t *testing.T) {
	s := openTestStore(t)
	requests, err := s.ListRequests("nonexistent-vault")
	require.NoError(t, err)
	require.Empty(t, requests)
}
