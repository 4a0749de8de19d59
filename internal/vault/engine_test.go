package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	holterrors "github.com/holtvault/holt/internal/errors"
	logger "github.com/holtvault/holt/internal/logging"
)

func setupVault(t *testing.T) (*Engine, string) {
	t.Helper()
	t.Setenv("HOLT_HOME", t.TempDir())
	projectDir := t.TempDir()

	engine, err := Init(projectDir, "alice", logger.Logger{})
	require.NoError(t, err)
	return engine, projectDir
}

func TestInitRejectsDoubleInit(t *testing.T) {
	_, projectDir := setupVault(t)
	_, err := Init(projectDir, "bob", logger.Logger{})
	require.Error(t, err)
}

func TestOpenAfterInit(t *testing.T) {
	_, projectDir := setupVault(t)
	engine, err := Open(projectDir, logger.Logger{})
	require.NoError(t, err)
	require.Len(t, engine.Recipients(), 1)
}

func TestSetAndGet(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "DB_PASSWORD", "hunter2", false))

	value, err := engine.Get(ctx, "DB_PASSWORD")
	require.NoError(t, err)
	require.Equal(t, "hunter2", value.String())
}

func TestSetWithoutForceRejectsExisting(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "API_KEY", "first", false))
	err := engine.Set(ctx, "API_KEY", "second", false)
	require.Error(t, err)

	require.NoError(t, engine.Set(ctx, "API_KEY", "second", true))
	value, err := engine.Get(ctx, "API_KEY")
	require.NoError(t, err)
	require.Equal(t, "second", value.String())
}

func TestSetRejectsInvalidKeyName(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	err := engine.Set(ctx, "1INVALID", "value", false)
	require.Error(t, err)

	err = engine.Set(ctx, "has space", "value", false)
	require.Error(t, err)
}

func TestDeleteAndList(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "A", "1", false))
	require.NoError(t, engine.Set(ctx, "B", "2", false))
	require.Equal(t, []string{"A", "B"}, engine.List())

	require.NoError(t, engine.Delete("A"))
	require.Equal(t, []string{"B"}, engine.List())

	err := engine.Delete("A")
	require.Error(t, err)
}

func TestImportExportRoundtrip(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	pairs := map[string]string{"ONE": "value1", "TWO": "value2"}
	imported, err := engine.Import(ctx, pairs, false)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ONE", "TWO"}, imported)

	exported, err := engine.Export(ctx)
	require.NoError(t, err)
	require.Equal(t, pairs, exported)
}

func TestAddRecipientThenBothCanDecrypt(t *testing.T) {
	engine, projectDir := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "SHARED", "team-secret", false))

	bobStore, err := engine.store.GenerateProject("bob-project-id")
	require.NoError(t, err)

	require.NoError(t, engine.AddRecipient(ctx, "bob", bobStore.Recipient().String()))
	require.Len(t, engine.Recipients(), 2)

	// Simulate bob opening the vault with his own identity.
	bobEngine := &Engine{
		config:     engine.config,
		projectDir: projectDir,
		projectID:  "bob-project-id",
		identity:   bobStore,
		backend:    engine.backend,
		store:      engine.store,
		log:        logger.Logger{},
	}
	value, err := bobEngine.Get(ctx, "SHARED")
	require.NoError(t, err)
	require.Equal(t, "team-secret", value.String())
}

func TestRemoveRecipientReencrypts(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "SHARED", "team-secret", false))

	bobStore, err := engine.store.GenerateProject("bob-project-id")
	require.NoError(t, err)
	require.NoError(t, engine.AddRecipient(ctx, "bob", bobStore.Recipient().String()))

	require.NoError(t, engine.RemoveRecipient(ctx, "bob"))
	require.Len(t, engine.Recipients(), 1)

	_, decryptErr := engine.backend.Decrypt(ctx, engine.config.Secrets["SHARED"], bobStore, "SHARED")
	require.Error(t, decryptErr)
}

func TestRotateGeneratesNewKeyAndReencrypts(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "SHARED", "team-secret", false))
	oldPublicKey := engine.config.Recipients["alice"]

	result, err := engine.Rotate(ctx, "alice")
	require.NoError(t, err)
	require.NotEqual(t, oldPublicKey, result.NewPublicKey)
	require.Equal(t, 1, result.SecretsReencrypted)

	value, err := engine.Get(ctx, "SHARED")
	require.NoError(t, err)
	require.Equal(t, "team-secret", value.String())
}

func TestRemoveRecipientRefusesLastRecipient(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	err := engine.RemoveRecipient(ctx, "alice")
	require.Error(t, err)
	require.ErrorIs(t, err, holterrors.ErrLastRecipient)
	require.Len(t, engine.Recipients(), 1)
}

func TestAddRecipientRollsBackOnReencryptFailure(t *testing.T) {
	engine, projectDir := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "SHARED", "team-secret", false))
	previousHash := engine.config.Holt.RecipientsHash

	// An identity that can't decrypt the existing secrets forces
	// reencryptIfNeeded to fail partway through, so the recipient addition
	// must roll back rather than leaving the vault file half-updated.
	engine.identity = nil

	bobStore, err := engine.store.GenerateProject("bob-project-id")
	require.NoError(t, err)
	err = engine.AddRecipient(ctx, "bob", bobStore.Recipient().String())
	require.Error(t, err)

	require.Len(t, engine.Recipients(), 1)
	require.Equal(t, previousHash, engine.config.Holt.RecipientsHash)

	onDisk, loadErr := LoadConfig(projectDir)
	require.NoError(t, loadErr)
	require.Len(t, onDisk.Recipients, 1)
	require.Equal(t, previousHash, onDisk.Holt.RecipientsHash)
}

func TestOpenDeniesNonRecipientIdentity(t *testing.T) {
	engine, projectDir := setupVault(t)
	ctx := context.Background()
	require.NoError(t, engine.Set(ctx, "SHARED", "team-secret", false))

	bobStore, err := engine.store.GenerateProject("bob-project-id")
	require.NoError(t, err)

	// Bob is never added as a recipient, so his identity parses fine but
	// resolution must refuse it with AccessDenied rather than succeeding.
	// A fresh home leaves no alice key in the key store for resolution to
	// fall through to.
	t.Setenv("HOLT_IDENTITY", bobStore.String())
	t.Setenv("HOLT_HOME", t.TempDir())
	_, err = Open(projectDir, logger.Logger{})
	require.Error(t, err)
	require.ErrorIs(t, err, holterrors.ErrAccessDenied)
}

func TestImportAggregatesPerEntryFailures(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	pairs := map[string]string{"GOOD": "value", "1BAD": "value"}
	imported, err := engine.Import(ctx, pairs, false)
	require.Error(t, err)
	require.Equal(t, []string{"GOOD"}, imported)

	value, getErr := engine.Get(ctx, "GOOD")
	require.NoError(t, getErr)
	require.Equal(t, "value", value.String())
}

func TestSyncFastPathSkipsWhenFingerprintMatches(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, engine.Set(ctx, "SHARED", "team-secret", false))

	result, err := engine.Sync(ctx, false, false)
	require.NoError(t, err)
	require.False(t, result.WasNeeded)
}

func TestSyncDryRunDoesNotWrite(t *testing.T) {
	engine, _ := setupVault(t)
	ctx := context.Background()
	require.NoError(t, engine.Set(ctx, "SHARED", "team-secret", false))

	// Force a mismatch by hand-editing the stored fingerprint.
	engine.config.Holt.RecipientsHash = "stale"
	before := engine.config.Secrets["SHARED"]

	result, err := engine.Sync(ctx, true, false)
	require.NoError(t, err)
	require.True(t, result.WasNeeded)
	require.Equal(t, before, engine.config.Secrets["SHARED"])
}

func TestNeedsSyncReflectsFingerprintMismatch(t *testing.T) {
	engine, _ := setupVault(t)
	require.False(t, engine.NeedsSync())

	engine.config.Holt.RecipientsHash = "stale"
	require.True(t, engine.NeedsSync())
}
