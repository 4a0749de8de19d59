package errors

import "errors"

// Config errors indicate problems with the vault's on-disk configuration.
var (
	// ErrNotInitialized indicates no vault exists at the given project directory.
	ErrNotInitialized = errors.New("vault has not been initialized")

	// ErrAlreadyInitialized indicates a vault already exists at the given project directory.
	ErrAlreadyInitialized = errors.New("vault has already been initialized")

	// ErrNoRecipients indicates the vault has no recipients configured.
	ErrNoRecipients = errors.New("vault has no recipients")

	// ErrRecipientNotFound indicates the named recipient is not present in the vault.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrRecipientExists indicates a recipient with that name is already present.
	ErrRecipientExists = errors.New("recipient already exists")

	// ErrInvalidConfig indicates the vault file could not be parsed.
	ErrInvalidConfig = errors.New("vault configuration is invalid")

	// ErrSchemaMismatch indicates the vault file's schema version is newer
	// than this binary understands.
	ErrSchemaMismatch = errors.New("vault schema is newer than this binary supports")

	// ErrLastRecipient indicates an operation would remove the vault's
	// only remaining recipient.
	ErrLastRecipient = errors.New("cannot remove the vault's last recipient")
)

// Cipher errors indicate failures during encryption, decryption, or key parsing.
var (
	// ErrEncryptionFailed indicates a secret could not be encrypted.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed indicates a secret could not be decrypted.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidRecipient indicates a recipient public key could not be parsed.
	ErrInvalidRecipient = errors.New("invalid recipient key")

	// ErrInvalidIdentity indicates an identity private key could not be parsed.
	ErrInvalidIdentity = errors.New("invalid identity key")

	// ErrNoMatchingIdentity indicates none of the available identities can decrypt this ciphertext.
	ErrNoMatchingIdentity = errors.New("no identity matches this ciphertext")

	// ErrCorruptCiphertext indicates the ciphertext is malformed or has been tampered with.
	ErrCorruptCiphertext = errors.New("ciphertext is corrupt or has been tampered with")

	// ErrPayloadTooLarge indicates decrypted ciphertext exceeds the size cap.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")

	// ErrBackendNotCompiled indicates the selected cipher backend was not compiled into this binary.
	ErrBackendNotCompiled = errors.New("cipher backend not compiled into this binary")

	// ErrUnsupportedProvider indicates a KMS key resource name did not match any known provider.
	ErrUnsupportedProvider = errors.New("unrecognized KMS provider")
)

// Store errors indicate problems reading or writing key material on disk.
var (
	// ErrNoIdentity indicates no usable identity could be resolved.
	ErrNoIdentity = errors.New("no identity available")

	// ErrAccessDenied indicates an identity resolved successfully but its
	// public key is not a member of the vault's current recipient set.
	ErrAccessDenied = errors.New("identity is not a current recipient of this vault")

	// ErrKeyGenerationFailed indicates a new identity keypair could not be generated.
	ErrKeyGenerationFailed = errors.New("key generation failed")

	// ErrKeyReadFailed indicates an identity file could not be read.
	ErrKeyReadFailed = errors.New("failed to read key file")

	// ErrKeyWriteFailed indicates an identity file could not be written.
	ErrKeyWriteFailed = errors.New("failed to write key file")

	// ErrInvalidKeyFormat indicates key file contents did not parse as an age key.
	ErrInvalidKeyFormat = errors.New("invalid key file format")

	// ErrUnsafePermissions indicates a key file's permissions are more permissive than required.
	ErrUnsafePermissions = errors.New("key file has unsafe permissions")
)

// Secret errors indicate problems with individual vault entries.
var (
	// ErrSecretNotFound indicates the named secret does not exist in the vault.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretExists indicates the named secret already exists in the vault.
	ErrSecretExists = errors.New("secret already exists")
)

// Validation errors indicate user-supplied input failed a format check.
var (
	// ErrInvalidKey indicates a secret key name fails the naming rules.
	ErrInvalidKey = errors.New("invalid secret key name")

	// ErrEmptyKey indicates a secret key name was empty.
	ErrEmptyKey = errors.New("secret key name must not be empty")

	// ErrEmptyValue indicates a secret value was empty.
	ErrEmptyValue = errors.New("secret value must not be empty")
)
