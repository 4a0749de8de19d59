// Package zero provides a small zeroizing container for plaintext and
// private-key material, so secrets spend the minimum possible time
// resident in process memory.
package zero

// Bytes is a byte slice that callers must explicitly Wipe once the
// sensitive data it holds is no longer needed. It is not a substitute for
// care at call sites: copies made with append, string conversion, or
// slicing before Wipe escape its protection.
type Bytes struct {
	b []byte
}

// NewBytes takes ownership of b. Callers must not retain their own
// reference to b after calling NewBytes.
func NewBytes(b []byte) *Bytes {
	return &Bytes{b: b}
}

// Bytes returns the underlying buffer. The returned slice is only valid
// until Wipe is called.
func (z *Bytes) Bytes() []byte {
	if z == nil {
		return nil
	}
	return z.b
}

// String copies the buffer into a new string. Prefer Bytes where possible;
// Go strings are immutable and cannot be wiped.
func (z *Bytes) String() string {
	if z == nil {
		return ""
	}
	return string(z.b)
}

// Wipe overwrites the buffer with zeros. Safe to call multiple times and
// on a nil receiver.
func (z *Bytes) Wipe() {
	if z == nil {
		return
	}
	for i := range z.b {
		z.b[i] = 0
	}
}
