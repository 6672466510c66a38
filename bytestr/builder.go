package bytestr

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/xerrors"
)

// Builder accumulates a ByteString through structured appends. The zero value
// is ready to use.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AppendBytes appends raw bytes.
func (b *Builder) AppendBytes(p []byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

// AppendByteString appends the bytes of s without a prefix.
func (b *Builder) AppendByteString(s ByteString) *Builder {
	b.buf = append(b.buf, s...)
	return b
}

// AppendString appends the UTF-8 bytes of s.
func (b *Builder) AppendString(s string) *Builder {
	b.buf = append(b.buf, s...)
	return b
}

// AppendInt16 appends v as a big-endian signed 16-bit integer.
func (b *Builder) AppendInt16(v int16) *Builder {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// AppendInt32 appends v as a big-endian signed 32-bit integer.
func (b *Builder) AppendInt32(v int32) *Builder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// AppendInt64 appends v as a big-endian signed 64-bit integer.
func (b *Builder) AppendInt64(v int64) *Builder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// AppendLenBytes appends a 32-bit big-endian length prefix followed by p.
func (b *Builder) AppendLenBytes(p []byte) *Builder {
	b.AppendInt32(int32(len(p)))
	b.buf = append(b.buf, p...)
	return b
}

// AppendLenString appends a length-prefixed UTF-8 string.
func (b *Builder) AppendLenString(s string) *Builder {
	return b.AppendLenBytes([]byte(s))
}

// AppendLenByteString appends a length-prefixed nested byte-string.
func (b *Builder) AppendLenByteString(s ByteString) *Builder {
	return b.AppendLenBytes(s)
}

// AppendBigInt appends v as BE32(len) followed by the minimal big-endian
// two's-complement bytes of v.
func (b *Builder) AppendBigInt(v *big.Int) *Builder {
	return b.AppendLenBytes(BigIntBytes(v))
}

// Build returns the accumulated ByteString. The builder stays usable.
func (b *Builder) Build() ByteString {
	return New(b.buf)
}

// Reader consumes a ByteString positionally.
type Reader struct {
	data ByteString
	pos  int
}

// NewReader starts reading s from the beginning.
func NewReader(s ByteString) *Reader {
	return &Reader{data: s}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadBytes consumes n bytes as a sub-string sharing storage.
func (r *Reader) ReadBytes(n int) (ByteString, error) {
	if n < 0 {
		return nil, xerrors.Errorf("bytestr: negative read length %d", n)
	}
	if r.Remaining() < n {
		return nil, xerrors.Errorf("bytestr: need %d bytes, %d remain", n, r.Remaining())
	}
	out := r.data.Slice(r.pos, r.pos+n)
	r.pos += n
	return out, nil
}

// ReadInt32 consumes a big-endian signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadLenBytes consumes a BE32 length prefix and then that many bytes.
func (r *Reader) ReadLenBytes() (ByteString, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, xerrors.Errorf("bytestr: negative length prefix %d", n)
	}
	return r.ReadBytes(int(n))
}

// Remainder consumes everything left.
func (r *Reader) Remainder() ByteString {
	out := r.data.Slice(r.pos, len(r.data))
	r.pos = len(r.data)
	return out
}
