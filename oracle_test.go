package oracle

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnssec-oracle/core/store"
)

// buildRootAnchor returns the trust-anchor DS proof bytes, the root
// DNSKEY RRSET bytes (already installed in the returned Oracle), and
// the ed25519 private key and keytag that sign every record in this
// test's fixture zone.
func buildRootAnchor(t *testing.T) (o *Oracle, priv ed25519.PrivateKey, keytag uint16, dnskeyRRs []byte) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	keyRdata := dnskeyRdata(0x0101, 15, pub)
	keytag = mustKeytag(keyRdata)

	material := append(append([]byte{}, rootName()...), keyRdata...)
	digest := sha256Sum(material)
	dsR := dsRdata(keytag, 15, 2, digest)
	anchors := rrWire(rootName(), TypeDS, ClassIN, 3600, dsR)

	o = New(anchors, 1000, Identity("admin"), WithRegistry(newTestRegistry()))

	dnskeyRRs = rrWire(rootName(), TypeDNSKEY, ClassIN, 3600, keyRdata)
	input, sig := signedSubmission(priv, TypeDNSKEY, 0, 3600, 2000, 500, keytag, rootName(), dnskeyRRs)

	require.NoError(t, o.SubmitRRSet(1000, input, sig, anchors))
	return o, priv, keytag, dnskeyRRs
}

func TestSubmitRRSetAcceptsRootDNSKEYViaAnchor(t *testing.T) {
	o, _, _, dnskeyRRs := buildRootAnchor(t)
	inception, inserted, fp := o.RRData(TypeDNSKEY, rootName())
	assert.Equal(t, uint32(500), inception)
	assert.Equal(t, uint64(1000), inserted)
	assert.Equal(t, store.Fingerprint20(dnskeyRRs), fp)
}

func TestSubmitRRSetViaKnownKey(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("data")
	rrs := rrWire(name, 99, ClassIN, 3600, []byte{0x01})
	input, sig := signedSubmission(priv, 99, 1, 3600, 2000, 600, keytag, rootName(), rrs)

	require.NoError(t, o.SubmitRRSet(1000, input, sig, dnskeyRRs))

	inception, inserted, fp := o.RRData(99, name)
	assert.Equal(t, uint32(600), inception)
	assert.Equal(t, uint64(1000), inserted)
	assert.Equal(t, store.Fingerprint20(rrs), fp)
}

func TestSubmitRRSetReplayRejected(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("data")
	rrs1 := rrWire(name, 99, ClassIN, 3600, []byte{0x01})
	input1, sig1 := signedSubmission(priv, 99, 1, 3600, 2000, 600, keytag, rootName(), rrs1)
	require.NoError(t, o.SubmitRRSet(1000, input1, sig1, dnskeyRRs))

	rrs2 := rrWire(name, 99, ClassIN, 3600, []byte{0x02})
	input2, sig2 := signedSubmission(priv, 99, 1, 3600, 2000, 500, keytag, rootName(), rrs2)
	err := o.SubmitRRSet(1000, input2, sig2, dnskeyRRs)

	require.Error(t, err)
	oerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ReplayRejected, oerr.Kind)

	// Rejected submission must not have mutated the stored entry.
	inception, _, fp := o.RRData(99, name)
	assert.Equal(t, uint32(600), inception)
	assert.Equal(t, store.Fingerprint20(rrs1), fp)
}

func TestSubmitRRSetIdempotent(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("data")
	rrs := rrWire(name, 99, ClassIN, 3600, []byte{0x01})
	input, sig := signedSubmission(priv, 99, 1, 3600, 2000, 600, keytag, rootName(), rrs)

	require.NoError(t, o.SubmitRRSet(1000, input, sig, dnskeyRRs))
	_, firstInserted, _ := o.RRData(99, name)

	// Re-submitting byte-identical rrs at a later wall-clock time (still
	// before the signature's expiration of 2000) must be a pure no-op:
	// inserted must not advance.
	require.NoError(t, o.SubmitRRSet(1500, input, sig, dnskeyRRs))
	_, secondInserted, _ := o.RRData(99, name)
	assert.Equal(t, firstInserted, secondInserted)
}

func TestSubmitRRSetWildcard(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("*", "example")
	rrs := rrWire(name, 99, ClassIN, 3600, []byte{0x09})
	input, sig := signedSubmission(priv, 99, 1, 3600, 2000, 600, keytag, rootName(), rrs)

	err := o.SubmitRRSet(1000, input, sig, dnskeyRRs)
	require.NoError(t, err)

	_, inserted, _ := o.RRData(99, name)
	assert.NotZero(t, inserted)
}

func TestSubmitRRSetRejectsExpiredSignature(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("data")
	rrs := rrWire(name, 99, ClassIN, 3600, []byte{0x01})
	input, sig := signedSubmission(priv, 99, 1, 3600, 900, 600, keytag, rootName(), rrs)

	err := o.SubmitRRSet(1000, input, sig, dnskeyRRs)
	require.Error(t, err)
	oerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, TimeWindow, oerr.Kind)
}

func TestSubmitRRSetRejectsBadSignature(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("data")
	rrs := rrWire(name, 99, ClassIN, 3600, []byte{0x01})
	input, sig := signedSubmission(priv, 99, 1, 3600, 2000, 600, keytag, rootName(), rrs)
	sig[0] ^= 0xFF

	err := o.SubmitRRSet(1000, input, sig, dnskeyRRs)
	require.Error(t, err)
	oerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, SignatureFailed, oerr.Kind)
}

func TestDeleteRRSetWithNSEC(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("data")
	rrs := rrWire(name, 99, ClassIN, 3600, []byte{0x01})
	input, sig := signedSubmission(priv, 99, 1, 3600, 2000, 600, keytag, rootName(), rrs)
	require.NoError(t, o.SubmitRRSet(1000, input, sig, dnskeyRRs))

	nsecRdata := append(append([]byte{}, rootName()...), 0x00, 0x01, 0x00)
	nsecRRs := rrWire(name, TypeNSEC, ClassIN, 3600, nsecRdata)
	nsecInput, nsecSig := signedSubmission(priv, TypeNSEC, 1, 3600, 2000, 700, keytag, rootName(), nsecRRs)

	err := o.DeleteRRSet(1000, 99, name, nsecInput, nsecSig, dnskeyRRs)
	require.NoError(t, err)

	_, inserted, _ := o.RRData(99, name)
	assert.Zero(t, inserted)
}

func TestDeleteRRSetDenialProofFailsWhenTypePresent(t *testing.T) {
	o, priv, keytag, dnskeyRRs := buildRootAnchor(t)

	name := labelName("data")
	rrs := rrWire(name, 99, ClassIN, 3600, []byte{0x01})
	input, sig := signedSubmission(priv, 99, 1, 3600, 2000, 600, keytag, rootName(), rrs)
	require.NoError(t, o.SubmitRRSet(1000, input, sig, dnskeyRRs))

	// Type 99 falls in window 0, bitmap byte index 99/8=12; setting its
	// bit proves the type is present, so deletion must be refused.
	bitmap := make([]byte, 13)
	bitmap[12] = 0x80 >> (99 % 8)
	nsecRdata := append(append([]byte{}, rootName()...), byte(0x00), byte(len(bitmap)))
	nsecRdata = append(nsecRdata, bitmap...)
	nsecRRs := rrWire(name, TypeNSEC, ClassIN, 3600, nsecRdata)
	nsecInput, nsecSig := signedSubmission(priv, TypeNSEC, 1, 3600, 2000, 700, keytag, rootName(), nsecRRs)

	err := o.DeleteRRSet(1000, 99, name, nsecInput, nsecSig, dnskeyRRs)
	require.Error(t, err)
	oerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, DenialProofFailed, oerr.Kind)
}

func TestSubmitRRSetEmitsEvent(t *testing.T) {
	sink := &RecordingSink{}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	keyRdata := dnskeyRdata(0x0101, 15, pub)
	keytag := mustKeytag(keyRdata)
	material := append(append([]byte{}, rootName()...), keyRdata...)
	digest := sha256Sum(material)
	dsR := dsRdata(keytag, 15, 2, digest)
	anchors := rrWire(rootName(), TypeDS, ClassIN, 3600, dsR)

	o := New(anchors, 1000, Identity("admin"), WithRegistry(newTestRegistry()), WithEventSink(sink))

	dnskeyRRs := rrWire(rootName(), TypeDNSKEY, ClassIN, 3600, keyRdata)
	input, sig := signedSubmission(priv, TypeDNSKEY, 0, 3600, 2000, 500, keytag, rootName(), dnskeyRRs)
	require.NoError(t, o.SubmitRRSet(1000, input, sig, anchors))

	require.Len(t, sink.RRSetUpdates, 1)
	assert.Equal(t, rootName(), sink.RRSetUpdates[0].Name)
}

func TestAdminSetAlgorithmRequiresAuthorization(t *testing.T) {
	o, _, _, _ := buildRootAnchor(t)

	err := o.SetAlgorithm(Identity("not-admin"), 200, nil)
	require.Error(t, err)
	oerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, Unauthorized, oerr.Kind)
}
