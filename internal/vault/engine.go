package vault

import (
	"fmt"
	"sort"

	"filippo.io/age"

	"github.com/holtvault/holt/internal/cipher"
	"github.com/holtvault/holt/internal/cipher/kms"
	holterrors "github.com/holtvault/holt/internal/errors"
	"github.com/holtvault/holt/internal/identity"
	"github.com/holtvault/holt/internal/keystore"
	logger "github.com/holtvault/holt/internal/logging"
)

// Engine is the primary entry point for all vault operations. It owns the
// parsed configuration, the resolved identity for the current caller, and
// the cipher backend the configuration selects.
type Engine struct {
	config     *Config
	projectDir string
	projectID  string
	identity   age.Identity
	backend    cipher.Backend
	store      *keystore.Store
	log        logger.Logger
}

// Recipient pairs a recipient's display name with their public key.
type Recipient struct {
	Name      string
	PublicKey string
}

// Open loads an existing vault rooted at projectDir and resolves the
// caller's identity via the standard resolution chain.
func Open(projectDir string, log logger.Logger) (*Engine, error) {
	cfg, err := LoadConfig(projectDir)
	if err != nil {
		return nil, err
	}

	store, err := keystore.Open()
	if err != nil {
		return nil, err
	}

	projectID, err := identity.ProjectID(projectDir)
	if err != nil {
		return nil, err
	}

	id, err := identity.Resolve(store, projectID, cfg.Recipients)
	if err != nil {
		return nil, err
	}

	backend, err := backendFor(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Debugf("opened vault at %s (project %s)", projectDir, projectID)

	return &Engine{
		config:     cfg,
		projectDir: projectDir,
		projectID:  projectID,
		identity:   id,
		backend:    backend,
		store:      store,
		log:        log,
	}, nil
}

// Init creates a brand-new vault at projectDir, generates a project-local
// identity for the first recipient, and writes the initial config.
func Init(projectDir, recipientName string, log logger.Logger) (*Engine, error) {
	if Exists(projectDir) {
		return nil, holterrors.ErrAlreadyInitialized
	}

	cfg := NewConfig()

	projectID, err := identity.ProjectID(projectDir)
	if err != nil {
		return nil, err
	}

	store, err := keystore.Open()
	if err != nil {
		return nil, err
	}

	id, err := store.GenerateProject(projectID)
	if err != nil {
		return nil, err
	}

	cfg.Recipients[recipientName] = id.Recipient().String()
	cfg.Holt.RecipientsHash = cfg.RecipientsFingerprint()

	if err := cfg.Save(projectDir); err != nil {
		return nil, err
	}

	backend, err := backendFor(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Infof("initialized vault at %s for recipient %q", projectDir, recipientName)

	return &Engine{
		config:     cfg,
		projectDir: projectDir,
		projectID:  projectID,
		identity:   id,
		backend:    backend,
		store:      store,
		log:        log,
	}, nil
}

func backendFor(cfg *Config, log logger.Logger) (cipher.Backend, error) {
	kind := cipher.BackendKind(cfg.Holt.Cipher)
	if kind == "" && cfg.KMS != nil {
		kind = cipher.BackendKMS
	}
	switch kind {
	case "", cipher.BackendAge:
		return cipher.NewAgeBackend(), nil
	case cipher.BackendGPG:
		return cipher.NewGPGBackend(), nil
	case cipher.BackendKMS:
		if cfg.KMS == nil {
			return nil, fmt.Errorf("%w: hybrid cipher selected without [kms] section", holterrors.ErrInvalidConfig)
		}
		backend, err := kms.New(cfg.KMS.KeyID)
		if err != nil {
			return nil, err
		}
		return cipher.NewHybridBackend(backend), nil
	default:
		return nil, fmt.Errorf("%w: unknown cipher %q", holterrors.ErrInvalidConfig, cfg.Holt.Cipher)
	}
}

// ProjectID returns the project's stable key-store identifier.
func (e *Engine) ProjectID() string { return e.projectID }

// RecipientsFingerprint returns the fingerprint of the currently saved
// recipient set.
func (e *Engine) RecipientsFingerprint() string { return e.config.RecipientsFingerprint() }

// recipientKeys returns the raw public key strings for every saved
// recipient, in insertion-independent sorted order for determinism.
func (e *Engine) recipientKeys() []string {
	keys := make([]string, 0, len(e.config.Recipients))
	for _, pubkey := range e.config.Recipients {
		keys = append(keys, pubkey)
	}
	sort.Strings(keys)
	return keys
}

// Recipients returns every recipient whose public key still parses,
// skipping (not failing on) any that don't — a hand-edited vault file
// with one bad line should not make the whole team listing unusable.
func (e *Engine) Recipients() []Recipient {
	names := make([]string, 0, len(e.config.Recipients))
	for name := range e.config.Recipients {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Recipient, 0, len(names))
	for _, name := range names {
		pubkey := e.config.Recipients[name]
		if _, err := cipher.ParseRecipient(pubkey); err != nil {
			continue
		}
		out = append(out, Recipient{Name: name, PublicKey: pubkey})
	}
	return out
}

// RecipientWarnings returns the names of recipients whose stored public
// key failed to parse, so a caller can surface them without aborting.
func (e *Engine) RecipientWarnings() []string {
	var bad []string
	for name, pubkey := range e.config.Recipients {
		if _, err := cipher.ParseRecipient(pubkey); err != nil {
			bad = append(bad, name)
		}
	}
	sort.Strings(bad)
	return bad
}
