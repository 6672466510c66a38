package kdf_test

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/kdf"
)

// The off-the-shelf hash collaborators must behave as published.
func Test_SHA_Fixtures(t *testing.T) {
	sum256 := sha256.Sum256([]byte("abc"))
	require.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		hex.EncodeToString(sum256[:]))

	sum512 := sha512.Sum512([]byte("abc"))
	require.Equal(t,
		"ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a"+
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		hex.EncodeToString(sum512[:]))
}

func Test_KDF_Deterministic(t *testing.T) {
	key := bytestr.FromString("key-derivation-key")
	label := bytestr.FromString("label")
	context := bytestr.FromString("context")

	first := kdf.Compute(key, label, context, 100)
	second := kdf.Compute(key, label, context, 100)
	require.True(t, first.Equal(second))
	require.Equal(t, 100, first.Len())

	// Any input change reaches the output.
	require.False(t, first.Equal(kdf.Compute(key, label, bytestr.FromString("other"), 100)))
	require.False(t, first.Slice(0, 50).Equal(kdf.Compute(key, label, context, 50)))

	// Output lengths are exact across block boundaries.
	for _, n := range []int{1, 63, 64, 65, 128, 200} {
		require.Equal(t, n, kdf.Compute(key, label, context, n).Len())
	}
}

func Test_NumberFromSeed_Bounds(t *testing.T) {
	seed := bytestr.FromString("seed")
	for _, m := range []*big.Int{
		big.NewInt(2),
		big.NewInt(1000),
		new(big.Int).Lsh(big.NewInt(1), 255),
	} {
		v := kdf.NumberFromSeed(m, seed)
		require.True(t, v.Sign() >= 0)
		require.True(t, v.Cmp(m) < 0)
		require.Zero(t, v.Cmp(kdf.NumberFromSeed(m, seed)))
	}
}

func Test_NumberStream_Continues(t *testing.T) {
	m := big.NewInt(1 << 30)
	seed := bytestr.FromString("stream")
	s := kdf.NewNumberStream(m, seed)
	first := s.Next()
	second := s.Next()
	require.NotZero(t, first.Cmp(second))

	// A fresh stream replays the same sequence.
	s2 := kdf.NewNumberStream(m, seed)
	require.Zero(t, first.Cmp(s2.Next()))
	require.Zero(t, second.Cmp(s2.Next()))
}

func Test_UniformHash_MatchesDigest(t *testing.T) {
	m := new(big.Int).Lsh(big.NewInt(1), 128)
	transcript := bytestr.FromString("transcript bytes")
	sum := sha512.Sum512(transcript)
	require.Zero(t, kdf.UniformHash(m, transcript).Cmp(
		kdf.NumberFromSeed(m, bytestr.New(sum[:]))))
}

func Test_Digest_CloneBranches(t *testing.T) {
	m := new(big.Int).Lsh(big.NewInt(1), 128)

	parent := kdf.NewDigest()
	parent.WriteString("shared prefix")
	parent.WriteBigInt(big.NewInt(42))

	branchA := parent.Clone().WriteInt32(1)
	branchB := parent.Clone().WriteInt32(2)
	require.NotZero(t, branchA.UniformScalar(m).Cmp(branchB.UniformScalar(m)))

	// Branching must not disturb the parent.
	direct := kdf.NewDigest()
	direct.WriteString("shared prefix")
	direct.WriteBigInt(big.NewInt(42))
	require.Zero(t, parent.UniformScalar(m).Cmp(direct.UniformScalar(m)))

	// The clone continues from the branch point, not from scratch.
	expect := kdf.NewDigest()
	expect.WriteString("shared prefix")
	expect.WriteBigInt(big.NewInt(42))
	expect.WriteInt32(1)
	require.Zero(t, branchA.UniformScalar(m).Cmp(expect.UniformScalar(m)))
}
