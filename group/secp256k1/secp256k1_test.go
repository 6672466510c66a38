package secp256k1_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/group/secp256k1"
)

func randomPoint(t *testing.T, g *secp256k1.Group) secp256k1.Point {
	t.Helper()
	e, err := group.RandomExponent[secp256k1.Point](g)
	require.NoError(t, err)
	return g.Power(g.Generator(), e)
}

func Test_Secp256k1_GroupLaws(t *testing.T) {
	g := secp256k1.NewGroup()
	a := randomPoint(t, g)
	b := randomPoint(t, g)
	c := randomPoint(t, g)

	ab := g.Multiply(a, b)
	require.True(t, g.IsGroupElement(ab))
	require.True(t, g.Equal(ab, g.Multiply(b, a)))
	require.True(t, g.Equal(g.Multiply(ab, c), g.Multiply(a, g.Multiply(b, c))))

	require.True(t, g.Equal(g.Multiply(g.Identity(), a), a))
	require.True(t, g.Equal(g.Multiply(a, g.Invert(a)), g.Identity()))

	x := big.NewInt(31337)
	y := big.NewInt(99991)
	require.True(t, g.Equal(
		g.Power(g.Power(a, x), y),
		g.Power(a, new(big.Int).Mul(x, y))))
	require.True(t, g.Equal(
		g.Power(a, new(big.Int).Add(x, y)),
		g.Multiply(g.Power(a, x), g.Power(a, y))))
	require.True(t, g.Equal(g.Power(a, big.NewInt(-1)), g.Invert(a)))

	require.True(t, g.Equal(g.Power(g.Generator(), g.Order()), g.Identity()))
}

func Test_Secp256k1_EncodeDecode(t *testing.T) {
	g := secp256k1.NewGroup()
	messages := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(1 << 20),
		new(big.Int).Sub(g.MessageUpperBound(), big.NewInt(1)),
	}
	for _, m := range messages {
		e, err := g.Encode(m)
		require.NoError(t, err)
		require.True(t, g.IsGroupElement(e))
		require.Zero(t, g.Decode(e).Cmp(m))
	}

	_, err := g.Encode(big.NewInt(-1))
	require.Error(t, err)
	_, err = g.Encode(g.MessageUpperBound())
	require.Error(t, err)
}

func Test_Secp256k1_BytesRoundTrip(t *testing.T) {
	g := secp256k1.NewGroup()
	e := randomPoint(t, g)

	raw := g.ElementBytes(e)
	require.Equal(t, 33, raw.Len())
	back, err := g.ElementFromBytes(raw)
	require.NoError(t, err)
	require.True(t, g.Equal(e, back))

	// The identity serializes to a single zero byte.
	idRaw := g.ElementBytes(g.Identity())
	require.Equal(t, []byte{0x00}, idRaw.Bytes())
	id, err := g.ElementFromBytes(idRaw)
	require.NoError(t, err)
	require.True(t, g.Equal(id, g.Identity()))

	// Garbage is rejected.
	_, err = g.ElementFromBytes(bytestr.New(make([]byte, 33)))
	require.Error(t, err)
	_, err = g.ElementFromBytes(bytestr.FromString("short"))
	require.Error(t, err)
}

func Test_Secp256k1_ElementsFromSeed(t *testing.T) {
	g := secp256k1.NewGroup()
	seed := bytestr.FromString("independent-generators")

	first := g.ElementsFromSeed(3, seed)
	second := g.ElementsFromSeed(3, seed)
	require.Len(t, first, 3)
	for i := range first {
		require.False(t, first[i].IsInfinity())
		require.True(t, g.IsGroupElement(first[i]))
		require.True(t, g.Equal(first[i], second[i]))
		for j := i + 1; j < len(first); j++ {
			require.False(t, g.Equal(first[i], first[j]))
		}
	}
}

func Test_Secp256k1_MessageUpperBound(t *testing.T) {
	g := secp256k1.NewGroup()
	expect := new(big.Int).Div(g.FieldPrime(), big.NewInt(80))
	require.Zero(t, g.MessageUpperBound().Cmp(expect))
}
