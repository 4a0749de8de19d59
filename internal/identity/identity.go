// Package identity resolves which age identity the current process should
// decrypt with, trying an ordered list of sources and silently skipping
// any that are absent, unreadable, or insecurely permissioned rather than
// failing the whole resolution on the first bad source.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"

	"filippo.io/age"

	"github.com/holtvault/holt/internal/cipher"
	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/holtvault/holt/internal/keystore"
	"github.com/holtvault/holt/internal/paths"
)

const (
	envInlineKey = "HOLT_IDENTITY"
	envKeyFile   = "HOLT_IDENTITY_FILE"
)

// ProjectID derives the stable identifier a vault's directory is keyed by
// in the key store: a truncated SHA-256 digest of its absolute path, so
// two differently-named checkouts of the same repository on the same
// machine do not collide, and renaming a project directory does not
// silently adopt someone else's keys.
func ProjectID(projectDir string) (string, error) {
	abs, err := paths.ProjectDir(projectDir)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])[:16], nil
}

// Resolve walks the ordered identity source chain — an inline key in
// HOLT_IDENTITY, a file path in HOLT_IDENTITY_FILE, the project-local
// keystore entry for projectID, then the global keystore entry — and
// returns the first one that both parses and whose public key is a
// current member of recipients. A candidate that parses but isn't a
// recipient is silently rejected and resolution continues to the next
// source, matching the original implementation's membership check
// (dot.rs). If at least one source yielded a parseable identity but none
// of them were a recipient, Resolve returns holterrors.ErrAccessDenied;
// if no source yielded anything at all, it returns holterrors.ErrNoIdentity.
func Resolve(store *keystore.Store, projectID string, recipients map[string]string) (age.Identity, error) {
	candidates := []func() (age.Identity, bool){
		fromInlineEnv,
		fromFileEnv,
		func() (age.Identity, bool) {
			if projectID == "" || !store.HasProject(projectID) {
				return nil, false
			}
			id, err := store.LoadProject(projectID)
			return id, err == nil
		},
		func() (age.Identity, bool) {
			if !store.HasGlobal() {
				return nil, false
			}
			id, err := store.LoadGlobal()
			return id, err == nil
		},
	}

	members := make(map[string]bool, len(recipients))
	for _, pubkey := range recipients {
		members[pubkey] = true
	}

	foundAny := false
	for _, candidate := range candidates {
		id, ok := candidate()
		if !ok {
			continue
		}
		foundAny = true
		pubkey, ok := publicKey(id)
		if !ok {
			continue
		}
		if members[pubkey] {
			return id, nil
		}
	}

	if foundAny {
		return nil, holterrors.ErrAccessDenied
	}
	return nil, holterrors.ErrNoIdentity
}

// publicKey extracts the recipient string an identity decrypts for, so it
// can be checked against the vault's recipient set. Every identity this
// package produces or parses is an X25519 identity; a candidate of any
// other concrete type cannot be membership-checked and is treated as
// unverifiable.
func publicKey(id age.Identity) (string, bool) {
	x25519, ok := id.(*age.X25519Identity)
	if !ok {
		return "", false
	}
	return x25519.Recipient().String(), true
}

func fromInlineEnv() (age.Identity, bool) {
	raw := os.Getenv(envInlineKey)
	if raw == "" {
		return nil, false
	}
	id, err := cipher.ParseIdentity(raw)
	if err != nil {
		return nil, false
	}
	return id, true
}

func fromFileEnv() (age.Identity, bool) {
	path := os.Getenv(envKeyFile)
	if path == "" {
		return nil, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&^0600 != 0 {
		// Unsafe permissions disqualify this source silently; the chain
		// moves on to the next candidate rather than hard-failing.
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	id, err := cipher.ParseIdentity(string(data))
	if err != nil {
		return nil, false
	}
	return id, true
}
