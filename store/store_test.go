package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMissingIsZeroValue(t *testing.T) {
	s := New()
	got := s.Get([]byte{0x00}, 48)
	assert.Equal(t, RRSet{}, got)
	assert.Zero(t, got.Inserted)
}

func TestPutGetDelete(t *testing.T) {
	s := New()
	name := []byte{0x03, 'f', 'o', 'o', 0x00}
	rrset := RRSet{Inception: 100, Inserted: 200, Fingerprint: Fingerprint20([]byte("data"))}

	s.Put(name, 48, rrset)
	assert.Equal(t, rrset, s.Get(name, 48))

	// A different type under the same name is a distinct entry.
	assert.Zero(t, s.Get(name, 43).Inserted)

	s.Delete(name, 48)
	assert.Zero(t, s.Get(name, 48).Inserted)
}

func TestNewKeyDistinguishesNameAndType(t *testing.T) {
	a := NewKey([]byte{0x03, 'f', 'o', 'o', 0x00}, 48)
	b := NewKey([]byte{0x03, 'f', 'o', 'o', 0x00}, 43)
	c := NewKey([]byte{0x03, 'b', 'a', 'r', 0x00}, 48)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestAnchorNameCannotBeARealWireName(t *testing.T) {
	// A real wire-format name is either the zero-length root (single
	// 0x00 byte) or starts with a length octet followed by that many
	// label bytes and eventually a terminating 0x00. AnchorName is
	// neither.
	assert.NotEqual(t, []byte{0x00}, AnchorName)
	assert.Len(t, AnchorName, 1)
	assert.NotEqual(t, byte(0x00), AnchorName[0])
}

func TestFingerprint20Length(t *testing.T) {
	fp := Fingerprint20([]byte("some canonical rrset bytes"))
	assert.Len(t, fp, 20)
}

func TestFingerprint20Sensitivity(t *testing.T) {
	a := Fingerprint20([]byte("data one"))
	b := Fingerprint20([]byte("data two"))
	assert.NotEqual(t, a, b)
}
