package commitment_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/commitment"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/group/schnorr"
	"github.com/openvote/cryptocore/group/secp256k1"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok)
	return v
}

func Test_Pedersen_KeyFixture(t *testing.T) {
	g := secp256k1.NewGroup()
	ped := commitment.NewPedersen[secp256k1.Point](g)
	require.Equal(t,
		"0373744f99d31509eb5f8caaabc0cc3fab70e571a5db4d762020723b9cd6ada260",
		g.ElementBytes(ped.Key()).Hex())
}

func Test_Pedersen_CommitmentFixture(t *testing.T) {
	g := secp256k1.NewGroup()
	ped := commitment.NewPedersen[secp256k1.Point](g)

	v := big.NewInt(42)
	r := mustBig(t, "1897394776788888888854555455455455455455455455455455765")
	require.Equal(t,
		"021d51f3a8dd18477bafcb5e149314d6e03669bbfc65bf8cb975f46e2527be7901",
		g.ElementBytes(ped.Commit(v, r)).Hex())
}

func Test_Pedersen_SecondDeviceFixture(t *testing.T) {
	g := secp256k1.NewGroup()
	ped := commitment.NewPedersen[secp256k1.Point](g)

	challenge := mustBig(t,
		"108039209026641834721998202775536164454916176078442584841940316235417705823230")
	coin := mustBig(t,
		"44267717001895006656767798790813376597351395807170189462353830054915294464906")
	require.Equal(t,
		"030e1a9be2459151057e9d731b524ca435f1c05bc0a95d3d82b30512d306172b17",
		g.ElementBytes(ped.Commit(challenge, coin)).Hex())
}

func Test_Pedersen_HidingAndCoinEquivalence(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	ped := commitment.NewPedersen(g)

	v := big.NewInt(42)
	r1, err := group.RandomExponent(g)
	require.NoError(t, err)
	r2, err := group.RandomExponent(g)
	require.NoError(t, err)

	// Distinct coins hide: the commitments differ.
	require.False(t, g.Equal(ped.Commit(v, r1), ped.Commit(v, r2)))

	// Coins equivalent mod q commit identically.
	shifted := new(big.Int).Add(r1, g.Order())
	require.True(t, g.Equal(ped.Commit(v, r1), ped.Commit(v, shifted)))
}

func Test_MultiCommitment(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	key := commitment.NewMultiKey(g, 4, bytestr.FromString("vector-commitment-key"))
	require.Equal(t, 4, key.Size())

	vals := []*big.Int{big.NewInt(3), big.NewInt(1), big.NewInt(4)}
	r, err := group.RandomExponent(g)
	require.NoError(t, err)

	com, err := key.Commit(g, vals, r)
	require.NoError(t, err)

	// Matches the unrolled product h^r * prod h_i^{v_i}.
	expect := g.Power(key.H, r)
	for i, v := range vals {
		expect = g.Multiply(expect, g.Power(key.Hs[i], v))
	}
	require.True(t, g.Equal(com, expect))

	// Fewer values than bases is allowed, more is not.
	_, err = key.Commit(g, make([]*big.Int, 5), r)
	require.Error(t, err)

	// Derivation is reproducible.
	again := commitment.NewMultiKey(g, 4, bytestr.FromString("vector-commitment-key"))
	require.True(t, g.Equal(key.H, again.H))
	for i := range key.Hs {
		require.True(t, g.Equal(key.Hs[i], again.Hs[i]))
	}
}
