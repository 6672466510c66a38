// Package kdf implements the key-derivation and uniform-hash primitives that
// feed every Fiat-Shamir challenge in the library: a NIST SP 800-108
// counter-mode KDF over HMAC-SHA-512, rejection-sampled uniform integers, and
// a branchable SHA-512 transcript digest.
package kdf

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
)

const (
	generatorLabel = "generator"
	polyasContext  = "Polyas"
)

// Compute derives length bytes from key using SP 800-108 in counter mode with
// HMAC-SHA-512 as the PRF. Block i is HMAC(key, BE32(i) || label || 0x00 ||
// context || BE32(length)).
func Compute(key, label, context bytestr.ByteString, length int) bytestr.ByteString {
	if length <= 0 {
		return bytestr.ByteString{}
	}
	out := make([]byte, 0, length)
	var idx [4]byte
	var lenTrailer [4]byte
	binary.BigEndian.PutUint32(lenTrailer[:], uint32(length))
	for block := 0; len(out) < length; block++ {
		mac := hmac.New(sha512.New, key)
		binary.BigEndian.PutUint32(idx[:], uint32(block))
		mac.Write(idx[:])
		mac.Write(label)
		mac.Write([]byte{0x00})
		mac.Write(context)
		mac.Write(lenTrailer[:])
		out = append(out, mac.Sum(nil)...)
	}
	return bytestr.ByteString(out[:length])
}

// NumberFromSeed derives a pseudo-uniform integer in [0, m) from seed by
// rejection sampling over the KDF output stream.
func NumberFromSeed(m *big.Int, seed bytestr.ByteString) *big.Int {
	return NewNumberStream(m, seed).Next()
}

// NumberStream draws successive pseudo-uniform integers in [0, m) from a
// single seed. Each call to Next continues the internal counter, so a stream
// can also back element derivation loops that discard candidates of their own.
type NumberStream struct {
	m       *big.Int
	seed    bytestr.ByteString
	counter uint32
}

// NewNumberStream prepares a stream over [0, m). m must be positive.
func NewNumberStream(m *big.Int, seed bytestr.ByteString) *NumberStream {
	if m.Sign() <= 0 {
		panic("kdf: modulus must be positive")
	}
	return &NumberStream{m: m, seed: seed}
}

// Next returns the next integer of the stream.
func (s *NumberStream) Next() *big.Int {
	bitLen := s.m.BitLen()
	byteLen := (bitLen + 7) / 8
	excessBits := uint(8*byteLen - bitLen)
	var ctr [4]byte
	for {
		s.counter++
		binary.BigEndian.PutUint32(ctr[:], s.counter)
		material := s.seed.Concat(bytestr.ByteString(ctr[:]))
		block := Compute(material, bytestr.FromString(generatorLabel),
			bytestr.FromString(polyasContext), byteLen)
		// A leading zero byte keeps the candidate non-negative; the top
		// excess bits are cleared so the candidate has at most bitLen bits.
		candidate := make([]byte, 1+byteLen)
		copy(candidate[1:], block)
		candidate[1] &= 0xff >> excessBits
		w := new(big.Int).SetBytes(candidate)
		if w.Cmp(s.m) < 0 {
			return w
		}
	}
}

// UniformHash maps a transcript to a pseudo-uniform integer in [0, m) via
// NumberFromSeed over the SHA-512 digest of the transcript.
func UniformHash(m *big.Int, transcript bytestr.ByteString) *big.Int {
	sum := sha512.Sum512(transcript)
	return NumberFromSeed(m, bytestr.New(sum[:]))
}
