// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest of an extracted payload file.
type Hash [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures that the same input bytes produce different
// hashes in different contexts, preventing cross-domain collisions.
type domainKey [32]byte

// payloadDomainKey is a fixed constant — changing it invalidates the
// integrity blocks of all existing manifests. The byte values are the
// ASCII encoding of the domain name, zero-padded to 32 bytes, so the
// key is inspectable in hex dumps (BLAKE3 keyed mode treats the key
// as an opaque 32-byte value).
var payloadDomainKey = domainKey{
	'n', 'w', 'k', 'i', 't', '.', 'm', 'a', 'n', 'i', 'f', 'e', 's', 't', '.',
	'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Algorithm is the value of the Integrity.Algorithm field written by
// this package. Readers reject any other value rather than silently
// skipping verification.
const Algorithm = "blake3-keyed"

// Integrity is the optional digest block embedded in a manifest. Keys
// of Digests are payload names relative to the manifest (sheet file
// names for fonts, archive-internal paths for archives), values are
// hex-encoded payload-domain digests.
type Integrity struct {
	Algorithm string            `json:"algorithm"`
	Digests   map[string]string `json:"digests"`
}

// NewIntegrity returns an empty integrity block ready for Add calls.
func NewIntegrity() *Integrity {
	return &Integrity{
		Algorithm: Algorithm,
		Digests:   make(map[string]string),
	}
}

// Add records the digest of one payload under the given name,
// replacing any previous digest for that name.
func (in *Integrity) Add(name string, data []byte) {
	in.Digests[name] = FormatHash(HashPayload(data))
}

// Verify checks data against the recorded digest for name. It fails
// when the algorithm is unknown, the name has no recorded digest, or
// the digest does not match.
func (in *Integrity) Verify(name string, data []byte) error {
	if in.Algorithm != Algorithm {
		return fmt.Errorf("unsupported integrity algorithm %q (want %q)", in.Algorithm, Algorithm)
	}
	recorded, ok := in.Digests[name]
	if !ok {
		return fmt.Errorf("no integrity digest recorded for %q", name)
	}
	want, err := ParseHash(recorded)
	if err != nil {
		return fmt.Errorf("integrity digest for %q: %w", name, err)
	}
	if got := HashPayload(data); got != want {
		return fmt.Errorf("integrity mismatch for %q: payload hash %s, manifest records %s",
			name, FormatHash(got), recorded)
	}
	return nil
}

// HashPayload computes the payload-domain BLAKE3 keyed hash of data.
func HashPayload(data []byte) Hash {
	return keyedHash(payloadDomainKey, data)
}

// FormatHash returns the hex-encoded string representation of a hash.
func FormatHash(hash Hash) string {
	return hex.EncodeToString(hash[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing payload hash: %w", err)
	}
	if len(decoded) != 32 {
		return hash, fmt.Errorf("payload hash is %d bytes, want 32", len(decoded))
	}
	copy(hash[:], decoded)
	return hash, nil
}

// keyedHash computes a BLAKE3 keyed hash with the given domain key.
func keyedHash(key domainKey, data []byte) Hash {
	// NewKeyed requires exactly 32 bytes, which domainKey guarantees.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("manifest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash
}
