package oracle

// EventSink receives the events the oracle emits on successful state
// transitions. It is the only externally observable effect besides the
// store mutation itself; an indexer is expected to implement it. All
// methods are called synchronously, inside the mutation they describe,
// never from a background goroutine.
type EventSink interface {
	RRSetUpdated(name []byte, rrs []byte)
	AlgorithmUpdated(id uint8, identity Identity)
	DigestUpdated(id uint8, identity Identity)
	NSEC3DigestUpdated(id uint8, identity Identity)
}

// discardSink drops every event. It is the default when no sink is
// configured.
type discardSink struct{}

func (discardSink) RRSetUpdated([]byte, []byte)        {}
func (discardSink) AlgorithmUpdated(uint8, Identity)   {}
func (discardSink) DigestUpdated(uint8, Identity)      {}
func (discardSink) NSEC3DigestUpdated(uint8, Identity) {}

// RecordingSink accumulates every event it receives, in order. It
// exists for tests that want to assert on emitted events without
// standing up a real indexer.
type RecordingSink struct {
	RRSetUpdates       []RRSetUpdateEvent
	AlgorithmUpdates   []AdminUpdateEvent
	DigestUpdates      []AdminUpdateEvent
	NSEC3DigestUpdates []AdminUpdateEvent
}

// RRSetUpdateEvent records one RRSetUpdated call.
type RRSetUpdateEvent struct {
	Name []byte
	RRs  []byte
}

// AdminUpdateEvent records one registry-mutation event.
type AdminUpdateEvent struct {
	ID       uint8
	Identity Identity
}

func (s *RecordingSink) RRSetUpdated(name []byte, rrs []byte) {
	s.RRSetUpdates = append(s.RRSetUpdates, RRSetUpdateEvent{Name: name, RRs: rrs})
}

func (s *RecordingSink) AlgorithmUpdated(id uint8, identity Identity) {
	s.AlgorithmUpdates = append(s.AlgorithmUpdates, AdminUpdateEvent{ID: id, Identity: identity})
}

func (s *RecordingSink) DigestUpdated(id uint8, identity Identity) {
	s.DigestUpdates = append(s.DigestUpdates, AdminUpdateEvent{ID: id, Identity: identity})
}

func (s *RecordingSink) NSEC3DigestUpdated(id uint8, identity Identity) {
	s.NSEC3DigestUpdates = append(s.NSEC3DigestUpdates, AdminUpdateEvent{ID: id, Identity: identity})
}
