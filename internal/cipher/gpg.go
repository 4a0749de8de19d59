package cipher

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/holtvault/holt/internal/zero"
)

// gpgBackend shells out to the system gpg binary. There is no Go OpenPGP
// client in this stack; the system binary already handles the agent,
// keyring, and trust database, which a pure-Go reimplementation would
// have to reinvent.
type gpgBackend struct {
	binary string
}

func NewGPGBackend() Backend {
	bin := os.Getenv("HOLT_GPG_BINARY")
	if bin == "" {
		bin = "gpg"
	}
	return &gpgBackend{binary: bin}
}

func (g *gpgBackend) Name() string { return string(BackendGPG) }

func (g *gpgBackend) EncryptFor(ctx context.Context, plaintext []byte, recipientKeys []string, secretName string) (string, error) {
	if len(recipientKeys) == 0 {
		return "", holterrors.ErrNoRecipients
	}

	args := []string{"--trust-model", "always", "--batch", "--yes", "--armor", "--encrypt"}
	for _, r := range recipientKeys {
		args = append(args, "--recipient", r)
	}

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Stdin = bytes.NewReader(plaintext)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: gpg encrypt: %s", holterrors.ErrEncryptionFailed, stderr.String())
	}
	return out.String(), nil
}

func (g *gpgBackend) Decrypt(ctx context.Context, ciphertext string, identity Identity, secretName string) (*zero.Bytes, error) {
	args := []string{"--trust-model", "always", "--batch", "--yes", "--decrypt"}

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Stdin = bytes.NewReader([]byte(ciphertext))
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: gpg decrypt: %s", holterrors.ErrDecryptionFailed, stderr.String())
	}
	return zero.NewBytes(out.Bytes()), nil
}
