package oracle

import (
	"github.com/dnssec-oracle/core/store"
	"github.com/dnssec-oracle/core/wire"
)

// SubmitRRSet validates and stores a signed RRSET. input is the
// RRSIG's 18-byte fixed prefix and signer name, followed by the
// canonicalized RR bytes it covers; sig is the RRSIG signature; proof
// authenticates the signing key, as a previously trusted DNSKEY or DS
// RRSET.
//
// A successful call either installs a new entry and emits
// RRSetUpdated, or is a no-op if the submission is byte-identical to
// what is already stored. now is the oracle's wall-clock time in
// seconds, supplied by the caller; the core has no clock of its own.
func (o *Oracle) SubmitRRSet(now uint64, input, sig, proof []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	name, rrs, err := o.validateSignedSet(input, sig, proof, now)
	if err != nil {
		return err
	}

	data := wire.NewBuffer(input)
	inception, err := data.ReadU32(rrsigInceptionOffset)
	if err != nil {
		return fail(MalformedWire, "SubmitRRSet", err)
	}
	typeCovered, err := data.ReadU16(rrsigTypeCoveredOffset)
	if err != nil {
		return fail(MalformedWire, "SubmitRRSet", err)
	}

	existing := o.store.Get(name, typeCovered)
	if existing.Inserted > 0 && inception < existing.Inception {
		return fail(ReplayRejected, "SubmitRRSet", nil)
	}

	fingerprint := store.Fingerprint20(rrs)
	if existing.Inserted > 0 && existing.Fingerprint == fingerprint {
		// Idempotent re-submission: identical bytes, no mutation, no event.
		return nil
	}

	o.store.Put(name, typeCovered, store.RRSet{
		Inception:   inception,
		Inserted:    now,
		Fingerprint: fingerprint,
	})
	o.log.WithField("type", typeCovered).WithField("inception", inception).Debug("rrset updated")
	o.events.RRSetUpdated(name, rrs)
	return nil
}
