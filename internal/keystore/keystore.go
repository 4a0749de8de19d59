// Package keystore manages the on-disk identity key material under
// <home>/.holt/: the global identity, per-project identities, and
// recipient access requests dropped by collaborators who don't yet have
// a key in the vault.
package keystore

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"filippo.io/age"
	"github.com/google/uuid"

	"github.com/holtvault/holt/internal/cipher"
	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/holtvault/holt/internal/paths"
)

const (
	identityFileName    = "identity"
	identityPubFileName = "identity.pub"
	keysDirName         = "keys"
	requestsDirName     = "requests"
	projectIdentityName = "identity.key"
)

// Store locates and manages key material rooted at a single home
// directory (normally the OS user's home, overridable via HOLT_HOME).
type Store struct {
	home string
}

// Open resolves the key store rooted at <HomeDir>/.holt.
func Open() (*Store, error) {
	home, err := paths.AppDir()
	if err != nil {
		return nil, err
	}
	return &Store{home: home}, nil
}

func (s *Store) GlobalPrivateKeyPath() string { return filepath.Join(s.home, identityFileName) }
func (s *Store) GlobalPublicKeyPath() string  { return filepath.Join(s.home, identityPubFileName) }
func (s *Store) ProjectDir(projectID string) string {
	return filepath.Join(s.home, keysDirName, projectID)
}
func (s *Store) ProjectPrivateKeyPath(projectID string) string {
	return filepath.Join(s.ProjectDir(projectID), projectIdentityName)
}
func (s *Store) RequestsDir(vaultLabel string) string {
	if vaultLabel == "" {
		return filepath.Join(s.home, requestsDirName)
	}
	return filepath.Join(s.home, requestsDirName, vaultLabel)
}

// HasGlobal reports whether a global identity already exists.
func (s *Store) HasGlobal() bool {
	_, err := os.Stat(s.GlobalPrivateKeyPath())
	return err == nil
}

// HasProject reports whether a project-local identity already exists.
func (s *Store) HasProject(projectID string) bool {
	_, err := os.Stat(s.ProjectPrivateKeyPath(projectID))
	return err == nil
}

// GenerateGlobal creates a new identity under the home directory, writing
// the private key with 0600 and the public key with 0644.
func (s *Store) GenerateGlobal() (*age.X25519Identity, error) {
	return s.generate(s.home, s.GlobalPrivateKeyPath(), s.GlobalPublicKeyPath())
}

// GenerateProject creates a new identity under keys/<projectID>/.
func (s *Store) GenerateProject(projectID string) (*age.X25519Identity, error) {
	dir := s.ProjectDir(projectID)
	return s.generate(dir, s.ProjectPrivateKeyPath(projectID), "")
}

func (s *Store) generate(dir, privPath, pubPath string) (*age.X25519Identity, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrKeyWriteFailed, err)
	}
	identity, err := cipher.GenerateIdentity()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(privPath, []byte(identity.String()+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrKeyWriteFailed, err)
	}
	if pubPath != "" {
		if err := os.WriteFile(pubPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
			return nil, fmt.Errorf("%w: %v", holterrors.ErrKeyWriteFailed, err)
		}
	}
	return identity, nil
}

// LoadGlobal reads and parses the global identity. A key file with
// permissions looser than 0600 is refused with ErrUnsafePermissions.
func (s *Store) LoadGlobal() (age.Identity, error) {
	return s.loadStrict(s.GlobalPrivateKeyPath())
}

// LoadProject reads and parses a project-local identity, the same way.
func (s *Store) LoadProject(projectID string) (age.Identity, error) {
	return s.loadStrict(s.ProjectPrivateKeyPath(projectID))
}

func (s *Store) loadStrict(path string) (age.Identity, error) {
	if err := checkPermissions(path, 0600); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrKeyReadFailed, err)
	}
	return cipher.ParseIdentity(string(data))
}

// ArchiveAndRegenerateProject archives the current project identity under
// a UTC timestamp suffix before generating and writing a replacement,
// implementing the rotation protocol's TOCTOU-safe key-swap step: the
// archive name is retried with nanosecond resolution until it does not
// collide with an existing file, so two rotations started in the same
// second never clobber each other's archive.
func (s *Store) ArchiveAndRegenerateProject(projectID string) (*age.X25519Identity, error) {
	current := s.ProjectPrivateKeyPath(projectID)
	if _, err := os.Stat(current); err == nil {
		archivePath, err := s.archivePath(current)
		if err != nil {
			return nil, err
		}
		if err := os.Rename(current, archivePath); err != nil {
			return nil, fmt.Errorf("%w: archiving old key: %v", holterrors.ErrKeyWriteFailed, err)
		}
	}
	return s.GenerateProject(projectID)
}

func (s *Store) archivePath(keyPath string) (string, error) {
	for {
		ts := time.Now().UTC().Format("20060102T150405.000000000Z")
		candidate := keyPath + "." + ts
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
}

// WriteRequest drops a collaborator's public key under requests/ for a
// current member to later add as a recipient. It is the filesystem
// primitive behind a "request access" collaborator workflow; this package
// does not implement that workflow's CLI itself.
//
// Each request is stamped with a random ticket so that a collaborator who
// re-requests under the same label (lost laptop, rotated key) doesn't
// silently clobber an earlier pending request an admin hasn't seen yet.
func (s *Store) WriteRequest(vaultLabel, label, publicKey string) (string, error) {
	dir := s.RequestsDir(vaultLabel)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("%w: %v", holterrors.ErrKeyWriteFailed, err)
	}
	ticket := uuid.NewString()[:8]
	path := filepath.Join(dir, requestFileName(label, ticket))
	if err := os.WriteFile(path, []byte(publicKey+"\n"), 0644); err != nil {
		return "", fmt.Errorf("%w: %v", holterrors.ErrKeyWriteFailed, err)
	}
	return path, nil
}

// Request describes a pending access request found under requests/.
type Request struct {
	Label     string
	Ticket    string
	PublicKey string
	Path      string
}

// ListRequests returns all pending requests for a vault label ("" for
// the top-level, unlabeled request directory).
func (s *Store) ListRequests(vaultLabel string) ([]Request, error) {
	dir := s.RequestsDir(vaultLabel)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", holterrors.ErrKeyReadFailed, err)
	}

	var requests []Request
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		label, ticket := parseRequestFileName(entry.Name())
		requests = append(requests, Request{
			Label:     label,
			Ticket:    ticket,
			PublicKey: string(data),
			Path:      filepath.Join(dir, entry.Name()),
		})
	}
	return requests, nil
}

func requestFileName(label, ticket string) string {
	return label + "." + ticket + ".pub"
}

// parseRequestFileName splits "<label>.<ticket>.pub" back into its parts.
// Files that don't carry a ticket suffix (hand-dropped by a collaborator,
// or from before tickets existed) are tolerated: a basename without a dot
// becomes the label and the ticket is left empty. A dotted basename is
// always split at its last dot.
func parseRequestFileName(name string) (label, ticket string) {
	name = trimPubSuffix(name)
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

func trimPubSuffix(name string) string {
	return strings.TrimSuffix(name, ".pub")
}

// checkPermissions verifies path is at least as restrictive as want,
// skipped entirely on platforms without POSIX permission bits.
func checkPermissions(path string, want os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", holterrors.ErrKeyReadFailed, err)
	}
	if info.Mode().Perm()&^want != 0 {
		return holterrors.ErrUnsafePermissions
	}
	return nil
}
