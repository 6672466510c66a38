// Package bytestr provides an immutable byte-string container together with
// an append-only builder and a positional reader. All multi-byte integers are
// big-endian two's complement, and length prefixes are 32-bit big-endian.
package bytestr

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"math/big"
)

// ByteString is an immutable sequence of bytes. Slicing shares the underlying
// storage; no operation mutates the contents.
type ByteString []byte

// New copies b into a fresh ByteString.
func New(b []byte) ByteString {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// FromString interprets s as UTF-8 bytes.
func FromString(s string) ByteString {
	return ByteString(s)
}

// FromHex decodes a hex representation.
func FromHex(s string) (ByteString, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return ByteString(b), nil
}

// MustFromHex is FromHex for literals; it panics on malformed input.
func MustFromHex(s string) ByteString {
	b, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return b
}

// FromBase64 decodes a standard base64 representation.
func FromBase64(s string) (ByteString, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return ByteString(b), nil
}

// Len returns the number of bytes.
func (s ByteString) Len() int {
	return len(s)
}

// IsEmpty reports whether the string has no bytes.
func (s ByteString) IsEmpty() bool {
	return len(s) == 0
}

// Bytes exposes the underlying storage. Callers must not modify the result.
func (s ByteString) Bytes() []byte {
	return s
}

// Slice returns s[from:to] sharing storage with s.
func (s ByteString) Slice(from, to int) ByteString {
	return s[from:to]
}

// Concat returns a new ByteString holding s followed by others.
func (s ByteString) Concat(others ...ByteString) ByteString {
	total := len(s)
	for _, o := range others {
		total += len(o)
	}
	out := make([]byte, 0, total)
	out = append(out, s...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out
}

// Equal reports byte-wise equality.
func (s ByteString) Equal(other ByteString) bool {
	return bytes.Equal(s, other)
}

// Hex returns the lowercase hex representation.
func (s ByteString) Hex() string {
	return hex.EncodeToString(s)
}

// Base64 returns the standard base64 representation.
func (s ByteString) Base64() string {
	return base64.StdEncoding.EncodeToString(s)
}

// String interprets the bytes as UTF-8.
func (s ByteString) String() string {
	return string(s)
}

// BigIntBytes returns the minimal big-endian two's-complement encoding of v.
// Non-negative values carry a leading zero byte only when the high bit of the
// magnitude would otherwise be set; zero encodes as a single zero byte.
func BigIntBytes(v *big.Int) ByteString {
	if v.Sign() == 0 {
		return ByteString{0x00}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			return append(ByteString{0x00}, b...)
		}
		return ByteString(b)
	}
	// Negative: two's complement over the smallest width that keeps the sign
	// bit set.
	bits := v.BitLen()
	width := (bits + 8) / 8 // room for the sign bit
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*width))
	tc := new(big.Int).Add(mod, v)
	b := tc.Bytes()
	out := make([]byte, width)
	copy(out[width-len(b):], b)
	// Trim redundant 0xff lead bytes while the sign bit stays set.
	for len(out) > 1 && out[0] == 0xff && out[1]&0x80 != 0 {
		out = out[1:]
	}
	return ByteString(out)
}

// BigIntFromBytes decodes a big-endian two's-complement encoding.
func BigIntFromBytes(b ByteString) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
		v.Sub(v, mod)
	}
	return v
}
