package bytestr_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openvote/cryptocore/bytestr"
)

func Test_ByteString_HexBase64(t *testing.T) {
	s := bytestr.New([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Equal(t, "deadbeef", s.Hex())

	back, err := bytestr.FromHex("deadbeef")
	require.NoError(t, err)
	require.True(t, s.Equal(back))

	b64, err := bytestr.FromBase64(s.Base64())
	require.NoError(t, err)
	require.True(t, s.Equal(b64))

	_, err = bytestr.FromHex("zz")
	require.Error(t, err)
}

func Test_ByteString_SlicingSharesStorage(t *testing.T) {
	raw := []byte("hello world")
	s := bytestr.New(raw)

	// Mutating the source must not reach the copy.
	raw[0] = 'X'
	require.Equal(t, "hello world", s.String())

	sub := s.Slice(6, 11)
	require.Equal(t, "world", sub.String())
	require.Equal(t, 5, sub.Len())
}

func Test_Builder_Reader_RoundTrip(t *testing.T) {
	b := bytestr.NewBuilder()
	b.AppendInt32(-7)
	b.AppendLenString("ballot")
	b.AppendLenBytes([]byte{1, 2, 3})
	b.AppendBytes([]byte{0xff})
	built := b.Build()

	r := bytestr.NewReader(built)
	v, err := r.ReadInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-7), v)

	name, err := r.ReadLenBytes()
	require.NoError(t, err)
	require.Equal(t, "ballot", name.String())

	payload, err := r.ReadLenBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, payload.Bytes())

	rest := r.Remainder()
	require.Equal(t, []byte{0xff}, rest.Bytes())
	require.Equal(t, 0, r.Remaining())
}

func Test_Reader_FailsFast(t *testing.T) {
	r := bytestr.NewReader(bytestr.New([]byte{0, 0}))

	_, err := r.ReadBytes(-1)
	require.Error(t, err)

	_, err = r.ReadBytes(3)
	require.Error(t, err)

	_, err = r.ReadInt32()
	require.Error(t, err)
}

func Test_BigIntBytes_Minimal(t *testing.T) {
	cases := []struct {
		value    int64
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x00, 0x80}},
		{255, []byte{0x00, 0xff}},
		{256, []byte{0x01, 0x00}},
		{-1, []byte{0xff}},
		{-128, []byte{0x80}},
		{-129, []byte{0xff, 0x7f}},
	}
	for _, tc := range cases {
		v := big.NewInt(tc.value)
		enc := bytestr.BigIntBytes(v)
		require.Equal(t, tc.expected, enc.Bytes(), "encoding of %d", tc.value)
		require.Zero(t, bytestr.BigIntFromBytes(enc).Cmp(v), "round trip of %d", tc.value)
	}
}

func Test_Builder_AppendBigInt(t *testing.T) {
	v := big.NewInt(128)
	built := bytestr.NewBuilder().AppendBigInt(v).Build()

	r := bytestr.NewReader(built)
	raw, err := r.ReadLenBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x80}, raw.Bytes())
}
