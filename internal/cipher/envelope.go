package cipher

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

const envelopeV2Marker = "holt-envelope-v2"

// envelopeV1Marker prefixes the plaintext of a legacy-format secret: the
// KMS ciphertext nested inside an outer age layer, base64-encoded after
// the marker. v1 predates the v2 JSON envelope and is only ever produced
// by older vault files; new writes always use v2.
const envelopeV1Marker = "\x00HOLT-KMS-V1\x00"

// Provider identifies which cloud KMS produced a ciphertext.
type Provider string

const (
	ProviderAWS Provider = "aws"
	ProviderGCP Provider = "gcp"
)

// DetectProvider infers the KMS provider from a key resource name, using
// the same prefix conventions the provider SDKs themselves use for key
// identifiers.
func DetectProvider(key string) (Provider, bool) {
	switch {
	case strings.HasPrefix(key, "arn:aws:kms:"):
		return ProviderAWS, true
	case strings.HasPrefix(key, "projects/") && strings.Contains(key, "/cryptoKeys/"):
		return ProviderGCP, true
	default:
		return "", false
	}
}

// Envelope is the canonical (v2) hybrid ciphertext record. At least one of
// Age or KMS must be present; both present means the secret was sealed for
// both local age recipients and a KMS key.
type Envelope struct {
	Version  string   `json:"version"`
	Age      string   `json:"age,omitempty"`
	KMS      string   `json:"kms,omitempty"`
	Provider Provider `json:"provider,omitempty"`
}

// NewEnvelope builds a v2 envelope. ageCiphertext and kmsCiphertext are the
// base64-armored (or ascii-armored, for age) ciphertext strings; either may
// be empty but not both.
func NewEnvelope(ageCiphertext, kmsCiphertext string, provider Provider) Envelope {
	return Envelope{
		Version:  envelopeV2Marker,
		Age:      ageCiphertext,
		KMS:      kmsCiphertext,
		Provider: provider,
	}
}

// Seal serializes the envelope to its single-line on-disk textual form.
func (e Envelope) Seal() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseEnvelope attempts to interpret raw as a v2 envelope. It returns
// false, not an error, when raw is not an envelope at all — that is the
// expected shape for a raw or v1 ciphertext, not a failure.
func ParseEnvelope(raw string) (Envelope, bool) {
	if !IsEnvelope(raw) {
		return Envelope{}, false
	}
	var e Envelope
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Envelope{}, false
	}
	if e.Version != envelopeV2Marker {
		return Envelope{}, false
	}
	return e, true
}

// IsEnvelope reports whether raw looks like a v2 envelope record, without
// fully parsing it.
func IsEnvelope(raw string) bool {
	return strings.HasPrefix(raw, "{") && strings.Contains(raw, envelopeV2Marker)
}

// WrapV1 nests a base64-encoded KMS ciphertext inside the plaintext that is
// about to be age-encrypted, producing the legacy v1 on-disk shape.
func WrapV1(kmsCiphertext []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(kmsCiphertext)
	return append([]byte(envelopeV1Marker), []byte(encoded)...)
}

// UnwrapV1 checks whether plaintext (already age-decrypted) carries the v1
// marker and, if so, returns the nested KMS ciphertext. The second return
// value is false for raw plaintext, which callers should then treat as the
// final secret value.
func UnwrapV1(plaintext []byte) ([]byte, bool) {
	marker := []byte(envelopeV1Marker)
	if len(plaintext) < len(marker) || string(plaintext[:len(marker)]) != envelopeV1Marker {
		return nil, false
	}
	decoded, err := base64.StdEncoding.DecodeString(string(plaintext[len(marker):]))
	if err != nil {
		return nil, false
	}
	return decoded, true
}
