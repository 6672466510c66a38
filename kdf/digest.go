package kdf

import (
	"crypto/sha512"
	"encoding"
	"encoding/binary"
	"hash"
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
)

// Digest is an append-only SHA-512 transcript state. Clone produces an
// independent branch, so a shared prefix can be extended in several
// directions without re-hashing it; the shuffle proof derives its per-input
// challenge vector and its final challenge from branches of one prefix.
//
// Every item is framed before hashing: byte strings and UTF-8 strings carry a
// BE32 length prefix, integers are fixed-width big-endian, and big integers
// are BE32(len) followed by their minimal two's-complement bytes.
type Digest struct {
	h hash.Hash
}

// NewDigest returns an empty transcript.
func NewDigest() *Digest {
	return &Digest{h: sha512.New()}
}

// WriteBytes hashes raw bytes without any framing.
func (d *Digest) WriteBytes(p []byte) *Digest {
	d.h.Write(p)
	return d
}

// WriteByteString hashes a length-prefixed byte string.
func (d *Digest) WriteByteString(s bytestr.ByteString) *Digest {
	d.writeLen(len(s))
	d.h.Write(s)
	return d
}

// WriteString hashes a length-prefixed UTF-8 string.
func (d *Digest) WriteString(s string) *Digest {
	d.writeLen(len(s))
	d.h.Write([]byte(s))
	return d
}

// WriteInt32 hashes v as big-endian two's complement.
func (d *Digest) WriteInt32(v int32) *Digest {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	d.h.Write(tmp[:])
	return d
}

// WriteInt64 hashes v as big-endian two's complement.
func (d *Digest) WriteInt64(v int64) *Digest {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	d.h.Write(tmp[:])
	return d
}

// WriteBigInt hashes v as BE32(len) followed by minimal two's-complement
// bytes.
func (d *Digest) WriteBigInt(v *big.Int) *Digest {
	b := bytestr.BigIntBytes(v)
	d.writeLen(len(b))
	d.h.Write(b)
	return d
}

func (d *Digest) writeLen(n int) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(n))
	d.h.Write(tmp[:])
}

// Clone returns an independent copy of the current state. Extending the clone
// does not affect the parent.
func (d *Digest) Clone() *Digest {
	m, err := d.h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		panic(err) // sha512 state marshaling cannot fail
	}
	fresh := sha512.New()
	if err := fresh.(encoding.BinaryUnmarshaler).UnmarshalBinary(m); err != nil {
		panic(err)
	}
	return &Digest{h: fresh}
}

// Sum finalizes a copy of the state and returns the SHA-512 digest. The
// transcript itself stays extensible.
func (d *Digest) Sum() bytestr.ByteString {
	return bytestr.New(d.h.Sum(nil))
}

// UniformScalar finalizes a copy of the state into a pseudo-uniform integer
// in [0, m).
func (d *Digest) UniformScalar(m *big.Int) *big.Int {
	return NumberFromSeed(m, d.Sum())
}
