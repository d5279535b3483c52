// Package store implements the oracle's authenticated map:
// (H(name), type) -> RRSet{inception, inserted, fingerprint}. It is a
// flat map, not a B-tree or arena. It holds no lock of its own; the
// oracle package serializes every call through a single mutex, so the
// store itself only has to behave correctly under sequential access.
package store

import "crypto/sha256"

// RRSet is the persisted record for one (name, type) pair.
type RRSet struct {
	// Inception is the RRSIG inception time (seconds) of the submission
	// that last set this entry.
	Inception uint32
	// Inserted is the oracle wall-clock time (seconds) at which this
	// entry was written. It is zero iff the entry does not exist.
	Inserted uint64
	// Fingerprint is a truncated SHA-256 digest of the canonical RR
	// bytes the submission's RRSIG covered.
	Fingerprint [20]byte
}

// Key identifies a stored entry by the hash of the exact wire-format
// owner name bytes and the record type. Hashing the exact bytes means
// two names differing only in case are different keys; case-folding,
// if desired, is the caller's responsibility.
type Key struct {
	NameHash [32]byte
	Type     uint16
}

// NewKey derives the Key for a wire-format name and type.
func NewKey(nameWire []byte, dnsType uint16) Key {
	return Key{NameHash: sha256.Sum256(nameWire), Type: dnsType}
}

// AnchorName is the sentinel owner-name key for the trust anchor entry:
// the single byte 0x20 (ASCII space). No valid wire-format name can
// ever equal this byte string. A real name is either the single
// zero-length-label root (0x00) or begins with a length octet followed
// by that many label bytes, so it can never be exactly one non-zero,
// non-length-consistent byte. The anchor key can therefore never
// collide with a name a submitter controls.
var AnchorName = []byte{0x20}

// Store is the flat (name,type) -> RRSet map.
type Store struct {
	entries map[Key]RRSet
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[Key]RRSet)}
}

// Get returns the stored entry for (nameWire, dnsType), or the zero
// RRSet if absent.
func (s *Store) Get(nameWire []byte, dnsType uint16) RRSet {
	return s.entries[NewKey(nameWire, dnsType)]
}

// Put writes rrset unconditionally; replay and fingerprint checks are
// the validation engine's responsibility, not the store's.
func (s *Store) Put(nameWire []byte, dnsType uint16, rrset RRSet) {
	s.entries[NewKey(nameWire, dnsType)] = rrset
}

// Delete removes the entry for (nameWire, dnsType), if any.
func (s *Store) Delete(nameWire []byte, dnsType uint16) {
	delete(s.entries, NewKey(nameWire, dnsType))
}

// Fingerprint20 computes the store's 20-byte fingerprint of data: the
// first 20 bytes of its SHA-256 digest.
func Fingerprint20(data []byte) [20]byte {
	sum := sha256.Sum256(data)
	var fp [20]byte
	copy(fp[:], sum[:20])
	return fp
}
