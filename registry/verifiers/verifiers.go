// Package verifiers supplies reference registry.Algorithm,
// registry.Digest, and registry.NSEC3Digest implementations for the
// signature algorithms, DS digest types, and NSEC3 hash function most
// commonly deployed. The validation engine treats these as opaque
// external collaborators; none of this package is imported by the
// oracle's core, only by whatever wires a Registry at startup.
package verifiers

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"math/big"

	"github.com/miekg/dns"

	"github.com/dnssec-oracle/core/registry"
	"github.com/dnssec-oracle/core/wire"
)

// DNSKEY rdata algorithm numbers (RFC 8624).
const (
	AlgorithmRSASHA256 uint8 = 8
	AlgorithmECDSAP256 uint8 = 13
	AlgorithmEd25519   uint8 = 15
)

// DS rdata digest type numbers (RFC 4509, RFC 8624 §3.3).
const (
	DigestSHA1   uint8 = 1
	DigestSHA256 uint8 = 2
	DigestSHA384 uint8 = 4
)

// NSEC3 hash algorithm numbers (RFC 5155 §11).
const NSEC3DigestSHA1 uint8 = 1

// dnskeyPubKeyOffset is where the public-key field starts in DNSKEY
// rdata, after the flags, protocol and algorithm fields.
const dnskeyPubKeyOffset = 4

// RegisterDefaults wires every verifier this package defines into r.
func RegisterDefaults(r *registry.Registry) {
	r.SetAlgorithm(AlgorithmRSASHA256, registry.AlgorithmFunc(verifyRSASHA256))
	r.SetAlgorithm(AlgorithmECDSAP256, registry.AlgorithmFunc(verifyECDSAP256SHA256))
	r.SetAlgorithm(AlgorithmEd25519, registry.AlgorithmFunc(verifyEd25519))

	r.SetDigest(DigestSHA1, registry.DigestFunc(verifySHA1))
	r.SetDigest(DigestSHA256, registry.DigestFunc(verifySHA256))
	r.SetDigest(DigestSHA384, registry.DigestFunc(verifySHA384))

	r.SetNSEC3Digest(NSEC3DigestSHA1, registry.NSEC3DigestFunc(hashIteratedSHA1))
}

// verifyRSASHA256 verifies an RSASHA256 RRSIG signature. keyRdata is
// the whole DNSKEY rdata; its public-key field for RSA algorithms (RFC
// 3110) is an exponent length octet (or 0 followed by a 16-bit length
// for long exponents), the exponent, then the modulus, never
// ASN.1/x.509, so this parses the raw layout directly rather than
// reaching for an x509 decoder.
func verifyRSASHA256(keyRdata, data, signature []byte) bool {
	if len(keyRdata) < dnskeyPubKeyOffset {
		return false
	}
	pub, ok := parseRSAPublicKey(keyRdata[dnskeyPubKeyOffset:])
	if !ok {
		return false
	}
	digest := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], signature) == nil
}

func parseRSAPublicKey(keyRdata []byte) (*rsa.PublicKey, bool) {
	if len(keyRdata) < 1 {
		return nil, false
	}
	expLen := int(keyRdata[0])
	offset := 1
	if expLen == 0 {
		if len(keyRdata) < 3 {
			return nil, false
		}
		expLen = int(keyRdata[1])<<8 | int(keyRdata[2])
		offset = 3
	}
	if offset+expLen > len(keyRdata) {
		return nil, false
	}
	exponent := new(big.Int).SetBytes(keyRdata[offset : offset+expLen])
	modulus := new(big.Int).SetBytes(keyRdata[offset+expLen:])
	if modulus.Sign() == 0 || exponent.Sign() == 0 {
		return nil, false
	}
	return &rsa.PublicKey{N: modulus, E: int(exponent.Int64())}, true
}

// verifyECDSAP256SHA256 verifies an ECDSAP256SHA256 RRSIG signature.
// keyRdata is the whole DNSKEY rdata; its public-key field for this
// algorithm (RFC 6605 §4) is the raw, concatenated big-endian X and Y
// coordinates; the RRSIG signature is the concatenated big-endian R
// and S values, not an ASN.1 SEQUENCE.
func verifyECDSAP256SHA256(keyRdata, data, signature []byte) bool {
	curve := elliptic.P256()
	size := (curve.Params().BitSize + 7) / 8
	if len(keyRdata) < dnskeyPubKeyOffset {
		return false
	}
	pubKey := keyRdata[dnskeyPubKeyOffset:]
	if len(pubKey) != 2*size || len(signature) != 2*size {
		return false
	}
	x := new(big.Int).SetBytes(pubKey[:size])
	y := new(big.Int).SetBytes(pubKey[size:])
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}

	digest := sha256.Sum256(data)
	r := new(big.Int).SetBytes(signature[:size])
	s := new(big.Int).SetBytes(signature[size:])
	return ecdsa.Verify(pub, digest[:], r, s)
}

// verifyEd25519 verifies an ED25519 RRSIG signature (RFC 8080). keyRdata
// is the whole DNSKEY rdata; its public-key field is the raw 32-byte
// public key.
func verifyEd25519(keyRdata, data, signature []byte) bool {
	if len(keyRdata) != dnskeyPubKeyOffset+ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(keyRdata[dnskeyPubKeyOffset:]), data, signature)
}

func verifySHA1(data, expected []byte) bool {
	sum := sha1.Sum(data)
	return constantTimeEqual(sum[:], expected)
}

func verifySHA256(data, expected []byte) bool {
	sum := sha256.Sum256(data)
	return constantTimeEqual(sum[:], expected)
}

func verifySHA384(data, expected []byte) bool {
	sum := sha512.Sum384(data)
	return constantTimeEqual(sum[:], expected)
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

// hashIteratedSHA1 computes the RFC 5155 §5 iterated hashed-owner-name
// value via miekg/dns's own HashName, rather than re-rolling the
// iterated SHA-1 loop: unpack the wire-format name into presentation
// form, hand it and the hex-encoded salt to HashName, then decode the
// base32hex result back into the fixed-width word the rest of this
// package compares as a byte array.
func hashIteratedSHA1(salt, nameWire []byte, iterations uint16) [32]byte {
	name, _, err := dns.UnpackDomainName(nameWire, 0)
	if err != nil {
		return [32]byte{}
	}
	encoded := dns.HashName(name, dns.SHA1, iterations, hex.EncodeToString(salt))
	word, err := wire.NewBuffer([]byte(encoded)).DecodeBase32HexWord(0, len(encoded))
	if err != nil {
		return [32]byte{}
	}
	return word
}
