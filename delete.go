package oracle

import (
	"github.com/dnssec-oracle/core/wire"
)

// DeleteRRSet removes the entry for (deleteName, deleteType) once nsec
// (an NSEC or NSEC3 RRSET, signed by sig over proof) proves that
// name/type does not exist. Only the first RR of the NSEC(3) RRSET is
// consulted; a multi-RR NSEC(3) RRSET silently ignores the rest.
func (o *Oracle) DeleteRRSet(now uint64, deleteType uint16, deleteName, nsec, sig, proof []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	nsecName, rrs, err := o.validateSignedSet(nsec, sig, proof, now)
	if err != nil {
		return err
	}

	data := wire.NewBuffer(nsec)
	nsecInception, err := data.ReadU32(rrsigInceptionOffset)
	if err != nil {
		return fail(MalformedWire, "DeleteRRSet", err)
	}

	existing := o.store.Get(deleteName, deleteType)
	if existing.Inserted > 0 && existing.Inception > nsecInception {
		return fail(ReplayRejected, "DeleteRRSet", nil)
	}

	cursor := wire.NewCursor(rrs, 0)
	if cursor.Done() {
		return fail(MalformedWire, "DeleteRRSet", nil)
	}
	rr, _, err := cursor.Next()
	if err != nil {
		return fail(MalformedWire, "DeleteRRSet", err)
	}

	switch rr.Type {
	case TypeNSEC:
		err = o.checkNsecName(rrs, rr, nsecName, deleteName, deleteType)
	case TypeNSEC3:
		err = o.checkNsec3Name(rrs, rr, nsecName, deleteName, deleteType)
	default:
		err = fail(UnrecognizedRecordType, "DeleteRRSet", nil)
	}
	if err != nil {
		return err
	}

	o.store.Delete(deleteName, deleteType)
	o.log.WithField("type", deleteType).Debug("rrset deleted")
	return nil
}
