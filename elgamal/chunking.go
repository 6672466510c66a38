package elgamal

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/xerrors"
)

// blockSize returns the chunk width in bytes for a message bound: one bit of
// headroom keeps every block strictly below the bound.
func blockSize(bound *big.Int) int {
	return (bound.BitLen() - 1) / 8
}

// EncodeChunks splits msg into non-negative integers below bound. The layout
// before splitting is BE16(padLen) || msg || zero pad, where padLen makes the
// total a multiple of the block size.
func EncodeChunks(bound *big.Int, msg []byte) []*big.Int {
	b := blockSize(bound)
	padLen := (b - (len(msg)+2)%b) % b
	padded := make([]byte, 2+len(msg)+padLen)
	binary.BigEndian.PutUint16(padded[:2], uint16(padLen))
	copy(padded[2:], msg)

	blocks := make([]*big.Int, 0, len(padded)/b)
	for off := 0; off < len(padded); off += b {
		blocks = append(blocks, new(big.Int).SetBytes(padded[off:off+b]))
	}
	return blocks
}

// DecodeChunks reassembles the byte string from its blocks, validating the
// pad: the recorded number of trailing bytes must all be zero.
func DecodeChunks(bound *big.Int, blocks []*big.Int) ([]byte, error) {
	b := blockSize(bound)
	buf := make([]byte, 0, len(blocks)*b)
	for i, block := range blocks {
		if block.Sign() < 0 {
			return nil, xerrors.Errorf("elgamal: negative block %d", i)
		}
		raw := block.Bytes()
		// A two's-complement style encoding may carry one leading zero byte.
		if len(raw) == b+1 && raw[0] == 0x00 {
			raw = raw[1:]
		}
		if len(raw) > b {
			return nil, xerrors.Errorf("elgamal: block %d spans %d bytes, block size is %d", i, len(raw), b)
		}
		padded := make([]byte, b)
		copy(padded[b-len(raw):], raw)
		buf = append(buf, padded...)
	}
	if len(buf) < 2 {
		return nil, xerrors.Errorf("elgamal: chunked message shorter than its header")
	}
	padLen := int(binary.BigEndian.Uint16(buf[:2]))
	if padLen > len(buf)-2 {
		return nil, xerrors.Errorf("elgamal: pad length %d exceeds payload %d", padLen, len(buf)-2)
	}
	body := buf[2 : len(buf)-padLen]
	for _, v := range buf[len(buf)-padLen:] {
		if v != 0 {
			return nil, xerrors.Errorf("elgamal: nonzero pad byte %#02x", v)
		}
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
