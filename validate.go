package oracle

import (
	"github.com/dnssec-oracle/core/store"
	"github.com/dnssec-oracle/core/wire"
)

// validateSignedSet implements validate_signed_set: it checks the
// RRSIG prefix embedded in input against proof and sig, and returns
// the covered RRSET's owner name and canonical RR bytes on success.
//
// input is the RRSIG rdata's 18-byte fixed prefix and signer name
// (everything except the trailing signature field) followed by the
// canonicalized RR bytes the signature covers. proof is either a
// trusted DNSKEY RRSET or DS RRSET, in the same owner/type/class/ttl/
// rdlen/rdata concatenation the RR iterator consumes.
func (o *Oracle) validateSignedSet(input, sig, proof []byte, now uint64) (name, rrs []byte, err error) {
	data := wire.NewBuffer(input)

	signerNameLen, err := data.NameLength(rrsigSignerNameOffset)
	if err != nil {
		return nil, nil, fail(MalformedWire, "validateSignedSet", err)
	}
	signerName, err := data.Substring(rrsigSignerNameOffset, signerNameLen)
	if err != nil {
		return nil, nil, fail(MalformedWire, "validateSignedSet", err)
	}

	if err := o.validProof(signerName, proof); err != nil {
		return nil, nil, err
	}

	typeCovered, err := data.ReadU16(rrsigTypeCoveredOffset)
	if err != nil {
		return nil, nil, fail(MalformedWire, "validateSignedSet", err)
	}
	labels, err := data.ReadU8(rrsigLabelsOffset)
	if err != nil {
		return nil, nil, fail(MalformedWire, "validateSignedSet", err)
	}
	inception, err := data.ReadU32(rrsigInceptionOffset)
	if err != nil {
		return nil, nil, fail(MalformedWire, "validateSignedSet", err)
	}
	expiration, err := data.ReadU32(rrsigExpirationOffset)
	if err != nil {
		return nil, nil, fail(MalformedWire, "validateSignedSet", err)
	}

	rrsOffset := rrsigSignerNameOffset + signerNameLen
	rrs, err = data.Substring(rrsOffset, len(input)-rrsOffset)
	if err != nil {
		return nil, nil, fail(MalformedWire, "validateSignedSet", err)
	}

	name, err = o.validateRRs(rrs, typeCovered)
	if err != nil {
		return nil, nil, err
	}

	if err := o.checkNameLabels(name, labels); err != nil {
		return nil, nil, err
	}

	if err := o.verifySignature(name, input, sig, proof, signerName); err != nil {
		return nil, nil, err
	}

	// Plain 32-bit comparison against now, not RFC 1982 serial-number
	// arithmetic. TODO: this breaks down once `now` and
	// `inception`/`expiration` straddle the 2^32 second wraparound in
	// 2106; switching to serial-number comparison is deferred.
	if !(expiration > uint32(now) && inception < uint32(now)) {
		return nil, nil, fail(TimeWindow, "validateSignedSet", nil)
	}

	return name, rrs, nil
}

// validProof checks that proof is a trusted, unmodified RRSET.
//
// A DS-type proof always authenticates against the single globally
// configured trust anchor (store.AnchorName): store.AnchorName is the
// single byte 0x20, which can never be the result of wire-parsing a
// real signer name (a valid wire name is either the one-byte root
// 0x00, or a length byte followed by that many more label bytes;
// 0x20 as a length byte demands 32 bytes that aren't there), so the
// anchor can only ever be reached this way, never by a caller-supplied
// signerName. This also means the configured trust anchors are the one
// and only root of trust; a DS RRSET submitted and stored for some
// other zone is data, not a usable verify_with_ds proof.
//
// A DNSKEY-type proof authenticates against whatever was previously
// trusted for signerName, the general multi-level chaining case where
// a zone's own DNSKEY RRSET was stored by an earlier submitRRSet.
func (o *Oracle) validProof(signerName, proof []byte) error {
	_, rrType, err := firstRRNameAndType(proof)
	if err != nil {
		return fail(MalformedWire, "validProof", err)
	}

	lookupName := signerName
	if rrType == TypeDS {
		lookupName = store.AnchorName
	}

	stored := o.store.Get(lookupName, rrType)
	if stored.Inserted == 0 {
		return fail(NoTrust, "validProof", nil)
	}
	if stored.Fingerprint != store.Fingerprint20(proof) {
		return fail(NoTrust, "validProof", nil)
	}
	return nil
}

// validateRRs implements validate_rrs: it requires every RR in rrs to
// be class IN, share one owner name, and have type typeCovered. It
// returns that owner name (the wire-format root name 0x00 if rrs is
// empty, so checkNameLabels can still apply its "root only" rule).
// Every RR's owner name after the first is checked against the first
// by offset, through Buffer.Equals, rather than by re-slicing and
// comparing byte copies.
func (o *Oracle) validateRRs(rrs []byte, typeCovered uint16) ([]byte, error) {
	cursor := wire.NewCursor(rrs, 0)
	buf := wire.NewBuffer(rrs)

	nameOffset := -1
	nameLength := 0
	count := 0
	for !cursor.Done() {
		rr, next, err := cursor.Next()
		if err != nil {
			return nil, fail(MalformedWire, "validateRRs", err)
		}
		count++
		if count > o.MaxRRCount {
			return nil, fail(ResourceExceeded, "validateRRs", nil)
		}
		if rr.Class != ClassIN {
			return nil, fail(UnsupportedClass, "validateRRs", nil)
		}
		rrNameLength, err := buf.NameLength(rr.NameOffset)
		if err != nil {
			return nil, fail(MalformedWire, "validateRRs", err)
		}
		switch {
		case nameOffset < 0:
			nameOffset, nameLength = rr.NameOffset, rrNameLength
		case rrNameLength != nameLength:
			return nil, fail(NameMismatch, "validateRRs", nil)
		default:
			eq, err := buf.Equals(nameOffset, buf, rr.NameOffset, nameLength)
			if err != nil {
				return nil, fail(MalformedWire, "validateRRs", err)
			}
			if !eq {
				return nil, fail(NameMismatch, "validateRRs", nil)
			}
		}
		if rr.Type != typeCovered {
			return nil, fail(TypeMismatch, "validateRRs", nil)
		}
		cursor = next
	}
	if nameOffset < 0 {
		return []byte{0x00}, nil
	}
	name, err := buf.Substring(nameOffset, nameLength)
	if err != nil {
		return nil, fail(MalformedWire, "validateRRs", err)
	}
	return append([]byte{}, name...), nil
}

// checkNameLabels implements check_name_labels: the RRSIG's labels
// field must equal name's label count, or name must be a wildcard
// expansion one label longer than labels.
func (o *Oracle) checkNameLabels(name []byte, labels uint8) error {
	count, err := wire.NewBuffer(name).LabelCount(0)
	if err != nil {
		return fail(MalformedWire, "checkNameLabels", err)
	}
	if count == int(labels) {
		return nil
	}
	if count == int(labels)+1 && wire.IsWildcardName(name) {
		return nil
	}
	return fail(NameMismatch, "checkNameLabels", nil)
}

// verifySignature implements verify_signature: it requires the RRSIG
// signer name to be a suffix of name, then dispatches to
// verifyWithDS or verifyWithKnownKey based on proof's record type.
func (o *Oracle) verifySignature(name, data, sig, proof, signerName []byte) error {
	if len(signerName) > len(name) {
		return fail(NameMismatch, "verifySignature", nil)
	}
	eq, err := wire.NewBuffer(name).Equals(len(name)-len(signerName), wire.NewBuffer(signerName), 0, len(signerName))
	if err != nil || !eq {
		return fail(NameMismatch, "verifySignature", nil)
	}

	_, proofType, err := firstRRNameAndType(proof)
	if err != nil {
		return fail(MalformedWire, "verifySignature", err)
	}

	switch proofType {
	case TypeDS:
		firstRROffset := rrsigSignerNameOffset + len(signerName)
		return o.verifyWithDS(data, sig, firstRROffset, proof)
	case TypeDNSKEY:
		return o.verifyWithKnownKey(data, sig, proof, signerName)
	default:
		return fail(UnsupportedProofType, "verifySignature", nil)
	}
}

// verifyWithKnownKey implements verify_with_known_key: it tries every
// DNSKEY RR in proof whose owner name equals signerName, returning
// success on the first one whose signature verifies.
func (o *Oracle) verifyWithKnownKey(data, sig, proof, signerName []byte) error {
	algorithm, keytag, err := rrsigAlgorithmAndKeytag(data)
	if err != nil {
		return fail(MalformedWire, "verifyWithKnownKey", err)
	}

	buf := wire.NewBuffer(proof)
	cursor := wire.NewCursor(proof, 0)
	for !cursor.Done() {
		rr, next, err := cursor.Next()
		if err != nil {
			return fail(MalformedWire, "verifyWithKnownKey", err)
		}
		if rr.Type == TypeDNSKEY {
			dnskeyNameLength, err := buf.NameLength(rr.NameOffset)
			if err != nil {
				return fail(MalformedWire, "verifyWithKnownKey", err)
			}
			if dnskeyNameLength == len(signerName) {
				eq, err := buf.Equals(rr.NameOffset, wire.NewBuffer(signerName), 0, dnskeyNameLength)
				if err != nil {
					return fail(MalformedWire, "verifyWithKnownKey", err)
				}
				if eq {
					dnskeyRdata, err := rr.Rdata(buf)
					if err != nil {
						return fail(MalformedWire, "verifyWithKnownKey", err)
					}
					if o.verifySignatureWithKey(dnskeyRdata, algorithm, keytag, data, sig) {
						return nil
					}
				}
			}
		}
		cursor = next
	}
	return fail(SignatureFailed, "verifyWithKnownKey", nil)
}

// verifyWithDS implements verify_with_ds: it tries every DNSKEY RR in
// data starting at offset (the covered RR region, i.e. the RRSET being
// submitted). On the first one whose signature verifies, it requires
// that same key to match a DS record in proof; a verifying signature
// with no matching DS is a conclusive failure, not a reason to try the
// next key.
func (o *Oracle) verifyWithDS(data, sig []byte, offset int, proof []byte) error {
	algorithm, keytag, err := rrsigAlgorithmAndKeytag(data)
	if err != nil {
		return fail(MalformedWire, "verifyWithDS", err)
	}

	buf := wire.NewBuffer(data)
	cursor := wire.NewCursor(data, offset)
	for !cursor.Done() {
		rr, next, err := cursor.Next()
		if err != nil {
			return fail(MalformedWire, "verifyWithDS", err)
		}
		if rr.Type != TypeDNSKEY {
			return fail(TypeMismatch, "verifyWithDS", nil)
		}
		dnskeyRdata, err := rr.Rdata(buf)
		if err != nil {
			return fail(MalformedWire, "verifyWithDS", err)
		}
		if o.verifySignatureWithKey(dnskeyRdata, algorithm, keytag, data, sig) {
			dnskeyName, err := rr.Name(buf)
			if err != nil {
				return fail(MalformedWire, "verifyWithDS", err)
			}
			if o.verifyKeyWithDS(dnskeyName, dnskeyRdata, keytag, algorithm, proof) {
				return nil
			}
			return fail(DSMismatch, "verifyWithDS", nil)
		}
		cursor = next
	}
	return fail(SignatureFailed, "verifyWithDS", nil)
}

// verifySignatureWithKey implements verify_signature_with_key: the
// candidate DNSKEY must be protocol 3, the same algorithm as the
// RRSIG, have a matching keytag, carry the zone-key flag, and have a
// registered verifier that accepts (data, sig).
func (o *Oracle) verifySignatureWithKey(keyRdata []byte, algorithm uint8, keytag uint16, data, sig []byte) bool {
	verifier := o.registry.Algorithm(algorithm)
	if verifier == nil {
		return false
	}
	key := wire.NewBuffer(keyRdata)
	protocol, err := key.ReadU8(dnskeyProtocolOffset)
	if err != nil || protocol != 3 {
		return false
	}
	keyAlgorithm, err := key.ReadU8(dnskeyAlgoOffset)
	if err != nil || keyAlgorithm != algorithm {
		return false
	}
	if wire.ComputeKeytag(keyRdata) != keytag {
		return false
	}
	flags, err := key.ReadU16(dnskeyFlagsOffset)
	if err != nil || flags&dnskeyZoneKeyFlag == 0 {
		return false
	}
	return verifier.Verify(keyRdata, data, sig)
}

// verifyKeyWithDS implements verify_key_with_ds: it requires a DS
// record in dsProof whose keytag and algorithm match, and whose digest
// verifier accepts the concatenation of the key's owner name and rdata.
func (o *Oracle) verifyKeyWithDS(keyName, keyRdata []byte, keytag uint16, algorithm uint8, dsProof []byte) bool {
	buf := wire.NewBuffer(dsProof)
	cursor := wire.NewCursor(dsProof, 0)
	for !cursor.Done() {
		rr, next, err := cursor.Next()
		if err != nil {
			return false
		}
		cursor = next
		if rr.Type != TypeDS {
			continue
		}
		dsRdata, err := rr.Rdata(buf)
		if err != nil {
			continue
		}
		dsBuf := wire.NewBuffer(dsRdata)
		dsKeytag, err := dsBuf.ReadU16(dsKeytagOffset)
		if err != nil || dsKeytag != keytag {
			continue
		}
		dsAlgorithm, err := dsBuf.ReadU8(dsAlgorithmOffset)
		if err != nil || dsAlgorithm != algorithm {
			continue
		}
		digestType, err := dsBuf.ReadU8(dsDigestTypeOffset)
		if err != nil {
			continue
		}
		expectedDigest, err := dsBuf.Substring(dsDigestOffset, len(dsRdata)-dsDigestOffset)
		if err != nil {
			continue
		}
		digest := o.registry.Digest(digestType)
		if digest == nil {
			continue
		}
		material := append(append([]byte{}, keyName...), keyRdata...)
		if digest.Verify(material, expectedDigest) {
			return true
		}
	}
	return false
}

// firstRRNameAndType reads the owner name and type of the first RR in
// a wire-format RR concatenation, the representation both rrs and
// proof use.
func firstRRNameAndType(data []byte) ([]byte, uint16, error) {
	cursor := wire.NewCursor(data, 0)
	rr, _, err := cursor.Next()
	if err != nil {
		return nil, 0, err
	}
	name, err := rr.Name(wire.NewBuffer(data))
	if err != nil {
		return nil, 0, err
	}
	return name, rr.Type, nil
}

// rrsigAlgorithmAndKeytag reads the algorithm and keytag fields common
// to every candidate-key check for one RRSIG.
func rrsigAlgorithmAndKeytag(data []byte) (algorithm uint8, keytag uint16, err error) {
	buf := wire.NewBuffer(data)
	algorithm, err = buf.ReadU8(rrsigAlgorithmOffset)
	if err != nil {
		return 0, 0, err
	}
	keytag, err = buf.ReadU16(rrsigKeytagOffset)
	if err != nil {
		return 0, 0, err
	}
	return algorithm, keytag, nil
}
