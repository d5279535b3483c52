package oracle

import "fmt"

// ErrorKind is the taxonomy of ways a submission or deletion can be
// rejected. Every kind aborts the whole call with no state change.
type ErrorKind int

const (
	// MalformedWire covers truncated buffers, out-of-bounds offsets,
	// compression pointers, and inconsistent rdata lengths.
	MalformedWire ErrorKind = iota
	// UnsupportedClass is any class other than IN (1).
	UnsupportedClass
	// TypeMismatch covers a covered type disagreeing with an RR's
	// actual type, or a proof RR that is required to be a DNSKEY but
	// isn't.
	TypeMismatch
	// NameMismatch covers a signer name that is not a suffix of the
	// owner name, owner names disagreeing across RRs in one RRSET, a
	// DNSKEY owner not matching the signer name, or a label-count
	// disagreement.
	NameMismatch
	// ReplayRejected is an inception older than the stored inception
	// on submit, or a stored inception newer than the NSEC(3)
	// inception on delete.
	ReplayRejected
	// NoTrust is a proof that is not found in the store, or whose
	// fingerprint does not match the stored fingerprint.
	NoTrust
	// SignatureFailed is every candidate key rejecting the signature,
	// or failing the keytag/flags/protocol/algorithm pre-checks.
	SignatureFailed
	// DSMismatch is no DS record matching keytag, algorithm and digest.
	DSMismatch
	// TimeWindow is inception >= now or expiration <= now.
	TimeWindow
	// UnsupportedProofType is a proof that is neither DNSKEY nor DS.
	UnsupportedProofType
	// UnrecognizedRecordType is a delete proof RR that is neither NSEC
	// nor NSEC3.
	UnrecognizedRecordType
	// DenialProofFailed is an NSEC/NSEC3 interval or type-bitmap check
	// that failed.
	DenialProofFailed
	// Unauthorized is an admin operation invoked by a non-admin.
	Unauthorized
	// ResourceExceeded is an implementation-imposed bound (max RR
	// count, max bitmap windows) being exceeded. Not named in the core
	// state machine itself, but explicitly allowed by it.
	ResourceExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedWire:
		return "MalformedWire"
	case UnsupportedClass:
		return "UnsupportedClass"
	case TypeMismatch:
		return "TypeMismatch"
	case NameMismatch:
		return "NameMismatch"
	case ReplayRejected:
		return "ReplayRejected"
	case NoTrust:
		return "NoTrust"
	case SignatureFailed:
		return "SignatureFailed"
	case DSMismatch:
		return "DSMismatch"
	case TimeWindow:
		return "TimeWindow"
	case UnsupportedProofType:
		return "UnsupportedProofType"
	case UnrecognizedRecordType:
		return "UnrecognizedRecordType"
	case DenialProofFailed:
		return "DenialProofFailed"
	case Unauthorized:
		return "Unauthorized"
	case ResourceExceeded:
		return "ResourceExceeded"
	default:
		return "Unknown"
	}
}

// Error is the error type every rejected operation returns. Op names
// the failing step (e.g. "verifySignature"); Err, when present, carries
// the lower-level cause (an out-of-bounds read, say).
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("oracle: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so
// callers can write errors.Is(err, &oracle.Error{Kind: oracle.ReplayRejected})
// or, more simply, compare e.Kind after an errors.As.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && other.Kind == e.Kind
}

func fail(kind ErrorKind, op string, cause error) error {
	return &Error{Kind: kind, Op: op, Err: cause}
}
