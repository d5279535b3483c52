package oracle

// Identity names the caller of a privileged operation. The core treats
// it as an opaque comparable value; how an identity is established
// (a signature, an mTLS certificate, a chain account) is the transport's
// concern, not the oracle's.
type Identity string

// Authorizer decides whether identity may invoke admin operations. It
// is the only access-control policy the core consults, and it is
// orthogonal to validation: an authorized caller can still submit
// cryptographically invalid data, and an unauthorized caller's
// otherwise-valid admin call is still rejected.
type Authorizer interface {
	IsAdmin(identity Identity) bool
}

// SingleAdmin authorizes exactly one configured identity. It is the
// default Authorizer so the oracle is usable standalone; most
// deployments will supply their own.
type SingleAdmin struct {
	Admin Identity
}

// IsAdmin implements Authorizer.
func (s SingleAdmin) IsAdmin(identity Identity) bool {
	return identity == s.Admin
}

// SetAlgorithm registers (or replaces) the signature verifier for
// algorithm id. Privileged: identity must be an admin.
func (o *Oracle) SetAlgorithm(identity Identity, id uint8, v AlgorithmVerifier) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.authz.IsAdmin(identity) {
		return fail(Unauthorized, "SetAlgorithm", nil)
	}
	o.registry.SetAlgorithm(id, v)
	o.log.WithField("id", id).WithField("identity", identity).Info("algorithm registered")
	o.events.AlgorithmUpdated(id, identity)
	return nil
}

// SetDigest registers (or replaces) the DS digest verifier for digest
// type id. Privileged: identity must be an admin.
func (o *Oracle) SetDigest(identity Identity, id uint8, v DigestVerifier) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.authz.IsAdmin(identity) {
		return fail(Unauthorized, "SetDigest", nil)
	}
	o.registry.SetDigest(id, v)
	o.log.WithField("id", id).WithField("identity", identity).Info("digest registered")
	o.events.DigestUpdated(id, identity)
	return nil
}

// SetNSEC3Digest registers (or replaces) the NSEC3 hasher for hash
// algorithm id. Privileged: identity must be an admin.
func (o *Oracle) SetNSEC3Digest(identity Identity, id uint8, v NSEC3DigestVerifier) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.authz.IsAdmin(identity) {
		return fail(Unauthorized, "SetNSEC3Digest", nil)
	}
	o.registry.SetNSEC3Digest(id, v)
	o.log.WithField("id", id).WithField("identity", identity).Info("nsec3 digest registered")
	o.events.NSEC3DigestUpdated(id, identity)
	return nil
}
