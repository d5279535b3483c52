// Package oracle implements an on-chain-style DNSSEC validating oracle:
// it ingests signed DNS record sets, verifies them against a chain of
// trust rooted at a configured set of trust anchors, and persists a
// compact authenticated summary (fingerprint + inception time) keyed
// by (owner name, record type). It also supports authenticated
// deletion of a record through an NSEC or NSEC3 non-existence proof.
//
// The package never performs a DNS query of its own; every byte it
// validates is supplied by the caller. Concrete cryptographic
// primitives, the submission transport, and admin access control are
// all external collaborators reached through the interfaces in this
// package (see registry.Registry, Authorizer, EventSink).
package oracle

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dnssec-oracle/core/registry"
	"github.com/dnssec-oracle/core/store"
)

// AlgorithmVerifier, DigestVerifier and NSEC3DigestVerifier re-export
// the registry package's verifier interfaces so callers wiring an
// Oracle don't need a second import for admin calls.
type (
	AlgorithmVerifier   = registry.Algorithm
	DigestVerifier      = registry.Digest
	NSEC3DigestVerifier = registry.NSEC3Digest
)

// Default resource bounds.
const (
	DefaultMaxRRCount       = 4096
	DefaultMaxBitmapWindows = 256
)

// Oracle is the validation state machine. Every exported method is
// atomic with respect to every other exported method: a single mutex
// guards the whole body, matching the single-threaded, transactional
// model the core specifies.
type Oracle struct {
	mu sync.Mutex

	store    *store.Store
	registry *registry.Registry
	authz    Authorizer
	events   EventSink
	log      *logrus.Entry

	anchors []byte

	MaxRRCount       int
	MaxBitmapWindows int
}

// Option configures an Oracle at construction time.
type Option func(*Oracle)

// WithAuthorizer overrides the default SingleAdmin authorizer.
func WithAuthorizer(authz Authorizer) Option {
	return func(o *Oracle) { o.authz = authz }
}

// WithEventSink overrides the default no-op EventSink.
func WithEventSink(sink EventSink) Option {
	return func(o *Oracle) { o.events = sink }
}

// WithLogger overrides the default logrus logger.
func WithLogger(log *logrus.Logger) Option {
	return func(o *Oracle) { o.log = log.WithField("component", "oracle") }
}

// WithRegistry supplies a pre-populated registry (e.g. one already
// carrying registry/verifiers.RegisterDefaults) instead of an empty one.
func WithRegistry(r *registry.Registry) Option {
	return func(o *Oracle) { o.registry = r }
}

// New constructs an Oracle and installs the trust anchor bootstrap
// entry: the synthetic owner name 0x20, type DS, inception 0,
// inserted=now, fingerprint=fingerprint20(anchors).
func New(anchors []byte, now uint64, admin Identity, opts ...Option) *Oracle {
	o := &Oracle{
		store:            store.New(),
		registry:         registry.New(),
		authz:            SingleAdmin{Admin: admin},
		events:           discardSink{},
		log:              logrus.NewEntry(logrus.StandardLogger()),
		anchors:          append([]byte{}, anchors...),
		MaxRRCount:       DefaultMaxRRCount,
		MaxBitmapWindows: DefaultMaxBitmapWindows,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.store.Put(store.AnchorName, TypeDS, store.RRSet{
		Inception:   0,
		Inserted:    now,
		Fingerprint: store.Fingerprint20(anchors),
	})
	return o
}

// Anchors returns the installed trust anchor byte string.
func (o *Oracle) Anchors() []byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]byte{}, o.anchors...)
}

// RRData is a pure read: it returns the stored (inception, inserted,
// fingerprint) triple for (dnsType, name), or the zero triple if
// absent.
func (o *Oracle) RRData(dnsType uint16, nameWire []byte) (inception uint32, inserted uint64, fingerprint [20]byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	rrset := o.store.Get(nameWire, dnsType)
	return rrset.Inception, rrset.Inserted, rrset.Fingerprint
}
