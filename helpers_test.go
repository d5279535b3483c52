package oracle

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/dnssec-oracle/core/registry"
	"github.com/dnssec-oracle/core/registry/verifiers"
	"github.com/dnssec-oracle/core/wire"
)

// The helpers in this file hand-assemble wire-format DNSSEC records for
// end-to-end tests, rather than depending on a full resolver library to
// build them. They exercise exactly the byte layouts validate.go reads.

func rootName() []byte { return []byte{0x00} }

func labelName(labels ...string) []byte {
	var out []byte
	for _, l := range labels {
		out = append(out, byte(len(l)))
		out = append(out, l...)
	}
	return append(out, 0x00)
}

func u16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func u32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// rrWire concatenates one RR in owner/type/class/ttl/rdlen/rdata form.
func rrWire(name []byte, rrtype, class uint16, ttl uint32, rdata []byte) []byte {
	out := append([]byte{}, name...)
	out = append(out, u16(rrtype)...)
	out = append(out, u16(class)...)
	out = append(out, u32(ttl)...)
	out = append(out, u16(uint16(len(rdata)))...)
	return append(out, rdata...)
}

func dnskeyRdata(flags uint16, algorithm uint8, pubkey []byte) []byte {
	out := append([]byte{}, u16(flags)...)
	out = append(out, 3, algorithm)
	return append(out, pubkey...)
}

func dsRdata(keytag uint16, algorithm, digestType uint8, digest []byte) []byte {
	out := append([]byte{}, u16(keytag)...)
	out = append(out, algorithm, digestType)
	return append(out, digest...)
}

// signedSubmission builds the (input, sig) pair SubmitRRSet/DeleteRRSet
// expect: an 18-byte RRSIG prefix plus signer name, followed by the
// canonical RR bytes of rrs, signed with priv over exactly those bytes.
func signedSubmission(priv ed25519.PrivateKey, typeCovered uint16, labels uint8, origTTL, expiration, inception uint32, keytag uint16, signerName []byte, rrs []byte) (input, sig []byte) {
	prefix := append([]byte{}, u16(typeCovered)...)
	prefix = append(prefix, verifiers.AlgorithmEd25519, labels)
	prefix = append(prefix, u32(origTTL)...)
	prefix = append(prefix, u32(expiration)...)
	prefix = append(prefix, u32(inception)...)
	prefix = append(prefix, u16(keytag)...)
	prefix = append(prefix, signerName...)

	input = append(prefix, rrs...)
	sig = ed25519.Sign(priv, input)
	return input, sig
}

func newTestRegistry() *registry.Registry {
	r := registry.New()
	verifiers.RegisterDefaults(r)
	return r
}

func mustKeytag(rdata []byte) uint16 { return wire.ComputeKeytag(rdata) }

func sha256Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
