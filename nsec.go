package oracle

import (
	"bytes"

	"github.com/dnssec-oracle/core/wire"
)

// checkNsecName checks an NSEC denial-of-existence proof. rrs is the
// canonicalized NSEC RRSET bytes, rr is its (already-parsed) first and
// only consulted RR, nsecName is the NSEC owner name.
func (o *Oracle) checkNsecName(rrs []byte, rr wire.RR, nsecName, deleteName []byte, deleteType uint16) error {
	buf := wire.NewBuffer(rrs)

	nextNameLength, err := buf.NameLength(rr.RdataOffset)
	if err != nil {
		return fail(MalformedWire, "checkNsecName", err)
	}
	if rr.RdataLength <= nextNameLength {
		return fail(MalformedWire, "checkNsecName", nil)
	}

	cmp := wire.CompareNames(deleteName, nsecName)
	if cmp == 0 {
		bitmapOffset := rr.RdataOffset + nextNameLength
		bitmapEnd := rr.RdataOffset + rr.RdataLength
		present, err := buf.CheckTypeBitmapBounded(bitmapOffset, bitmapEnd, deleteType, o.MaxBitmapWindows)
		if err == wire.ErrTooManyWindows {
			return fail(ResourceExceeded, "checkNsecName", err)
		}
		if err != nil {
			return fail(MalformedWire, "checkNsecName", err)
		}
		if present {
			return fail(DenialProofFailed, "checkNsecName", nil)
		}
		return nil
	}

	nextName, err := buf.Substring(rr.RdataOffset, nextNameLength)
	if err != nil {
		return fail(MalformedWire, "checkNsecName", err)
	}

	if wire.CompareNames(nsecName, nextName) < 0 {
		// Normal interval: deleteName must fall strictly between
		// nsecName and nextName.
		if cmp > 0 && wire.CompareNames(deleteName, nextName) < 0 {
			return nil
		}
		return fail(DenialProofFailed, "checkNsecName", nil)
	}

	// Wrap-around interval: nextName is the zone apex, so every name
	// canonically after nsecName is covered.
	if cmp > 0 {
		return nil
	}
	return fail(DenialProofFailed, "checkNsecName", nil)
}

// checkNsec3Name checks an NSEC3 denial-of-existence proof.
func (o *Oracle) checkNsec3Name(rrs []byte, rr wire.RR, nsecName, deleteName []byte, deleteType uint16) error {
	buf := wire.NewBuffer(rrs)
	r := rr.RdataOffset

	hashAlg, err := buf.ReadU8(r)
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}
	iterations, err := buf.ReadU16(r + 2)
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}
	saltLength, err := buf.ReadU8(r + 4)
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}
	salt, err := buf.Substring(r+5, int(saltLength))
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}

	hasher := o.registry.NSEC3Digest(hashAlg)
	if hasher == nil {
		return fail(DenialProofFailed, "checkNsec3Name", nil)
	}
	deleteHash := hasher.Hash(salt, deleteName, iterations)

	nextLengthOffset := r + 5 + int(saltLength)
	nextLength, err := buf.ReadU8(nextLengthOffset)
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}
	if nextLength > 32 {
		return fail(MalformedWire, "checkNsec3Name", nil)
	}
	nextHash, err := buf.ReadBytesN(nextLengthOffset+1, int(nextLength))
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}

	nsecNameBuf := wire.NewBuffer(nsecName)
	firstLabelLength, err := nsecNameBuf.ReadU8(0)
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}
	nsecHash, err := nsecNameBuf.DecodeBase32HexWord(1, int(firstLabelLength))
	if err != nil {
		return fail(MalformedWire, "checkNsec3Name", err)
	}

	bitmapOffset := nextLengthOffset + 1 + int(nextLength)

	if deleteHash == nsecHash {
		present, err := buf.CheckTypeBitmapBounded(bitmapOffset, r+rr.RdataLength, deleteType, o.MaxBitmapWindows)
		if err == wire.ErrTooManyWindows {
			return fail(ResourceExceeded, "checkNsec3Name", err)
		}
		if err != nil {
			return fail(MalformedWire, "checkNsec3Name", err)
		}
		if present {
			return fail(DenialProofFailed, "checkNsec3Name", nil)
		}
		return nil
	}

	if bytes.Compare(nextHash[:], nsecHash[:]) > 0 {
		// Normal interval.
		if bytes.Compare(deleteHash[:], nsecHash[:]) > 0 && bytes.Compare(deleteHash[:], nextHash[:]) < 0 {
			return nil
		}
		return fail(DenialProofFailed, "checkNsec3Name", nil)
	}

	// Wrap-around interval.
	if bytes.Compare(deleteHash[:], nsecHash[:]) > 0 {
		return nil
	}
	return fail(DenialProofFailed, "checkNsec3Name", nil)
}
