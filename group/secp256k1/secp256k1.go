// Package secp256k1 instantiates the group contract on the secp256k1 curve.
// Point arithmetic is delegated to btcec; elements are affine points with the
// point at infinity as identity, and messages embed through the Koblitz
// method with k = 80 candidate offsets.
package secp256k1

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/kdf"
	"golang.org/x/xerrors"
)

// koblitzK is the number of candidate x-coordinates tried per message.
const koblitzK = 80

// Point is an affine curve point. The point at infinity is represented by
// X = Y = 0.
type Point struct {
	X *big.Int
	Y *big.Int
}

// NewPoint builds a point from affine coordinates.
func NewPoint(x, y *big.Int) Point {
	return Point{X: x, Y: y}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return (p.X == nil || p.X.Sign() == 0) && (p.Y == nil || p.Y.Sign() == 0)
}

// Group implements group.Group[Point] over secp256k1.
type Group struct {
	curve *btcec.KoblitzCurve
	bound *big.Int // floor(p / 80)
}

// NewGroup returns the secp256k1 group.
func NewGroup() *Group {
	curve := btcec.S256()
	return &Group{
		curve: curve,
		bound: new(big.Int).Div(curve.P, big.NewInt(koblitzK)),
	}
}

// Order returns the curve order.
func (g *Group) Order() *big.Int {
	return new(big.Int).Set(g.curve.N)
}

// FieldPrime returns the prime of the underlying field.
func (g *Group) FieldPrime() *big.Int {
	return new(big.Int).Set(g.curve.P)
}

// Identity returns the point at infinity.
func (g *Group) Identity() Point {
	return Point{X: new(big.Int), Y: new(big.Int)}
}

// Generator returns the curve base point.
func (g *Group) Generator() Point {
	return Point{X: new(big.Int).Set(g.curve.Gx), Y: new(big.Int).Set(g.curve.Gy)}
}

// MessageUpperBound returns floor(p/80).
func (g *Group) MessageUpperBound() *big.Int {
	return new(big.Int).Set(g.bound)
}

// Multiply adds the two points.
func (g *Group) Multiply(a, b Point) Point {
	if a.IsInfinity() {
		return Point{X: new(big.Int).Set(b.X), Y: new(big.Int).Set(b.Y)}
	}
	if b.IsInfinity() {
		return Point{X: new(big.Int).Set(a.X), Y: new(big.Int).Set(a.Y)}
	}
	x, y := g.curve.Add(a.X, a.Y, b.X, b.Y)
	return Point{X: x, Y: y}
}

// Power returns exp*a with exp reduced modulo the curve order first.
func (g *Group) Power(a Point, exp *big.Int) Point {
	e := group.NormalizeExponent(exp, g.curve.N)
	if e.Sign() == 0 || a.IsInfinity() {
		return g.Identity()
	}
	x, y := g.curve.ScalarMult(a.X, a.Y, e.Bytes())
	return Point{X: x, Y: y}
}

// Invert negates the point.
func (g *Group) Invert(a Point) Point {
	if a.IsInfinity() {
		return g.Identity()
	}
	y := new(big.Int).Sub(g.curve.P, a.Y)
	return Point{X: new(big.Int).Set(a.X), Y: y.Mod(y, g.curve.P)}
}

// Equal reports coordinate equality.
func (g *Group) Equal(a, b Point) bool {
	if a.IsInfinity() || b.IsInfinity() {
		return a.IsInfinity() == b.IsInfinity()
	}
	return a.X.Cmp(b.X) == 0 && a.Y.Cmp(b.Y) == 0
}

// Encode embeds m in [0, MessageUpperBound) as a curve point: the candidates
// x = 80m + i for i in 1..80 are tried until x^3 + 7 is a quadratic residue.
func (g *Group) Encode(m *big.Int) (Point, error) {
	if m.Sign() < 0 || m.Cmp(g.bound) >= 0 {
		return Point{}, xerrors.Errorf("secp256k1: message outside [0, p/80)")
	}
	base := new(big.Int).Mul(m, big.NewInt(koblitzK))
	for i := int64(1); i <= koblitzK; i++ {
		x := new(big.Int).Add(base, big.NewInt(i))
		x.Mod(x, g.curve.P)
		y, ok := g.liftX(x)
		if !ok {
			continue
		}
		if !g.curve.IsOnCurve(x, y) {
			continue
		}
		return Point{X: x, Y: y}, nil
	}
	return Point{}, xerrors.Errorf("secp256k1: no curve point for message %v after %d offsets", m, koblitzK)
}

// Decode recovers the message from the affine x-coordinate: (x-1)/80 rounds
// away the candidate offset.
func (g *Group) Decode(e Point) *big.Int {
	x := new(big.Int).Sub(e.X, big.NewInt(1))
	return x.Div(x, big.NewInt(koblitzK))
}

// ElementBytes returns the 33-byte compressed SEC1 encoding; the point at
// infinity serializes as a single zero byte.
func (g *Group) ElementBytes(e Point) bytestr.ByteString {
	if e.IsInfinity() {
		return bytestr.ByteString{0x00}
	}
	prefix := byte(0x02)
	if e.Y.Bit(0) == 1 {
		prefix = 0x03
	}
	out := make([]byte, 33)
	out[0] = prefix
	e.X.FillBytes(out[1:])
	return bytestr.ByteString(out)
}

// ElementFromBytes parses and validates a compressed SEC1 encoding.
func (g *Group) ElementFromBytes(raw bytestr.ByteString) (Point, error) {
	if len(raw) == 1 && raw[0] == 0x00 {
		return g.Identity(), nil
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return Point{}, xerrors.Errorf("secp256k1: parsing point: %v", err)
	}
	return Point{X: pub.X(), Y: pub.Y()}, nil
}

// IsGroupElement reports whether e lies on the curve (the whole curve is the
// prime-order group; the identity is a member).
func (g *Group) IsGroupElement(e Point) bool {
	if e.IsInfinity() {
		return true
	}
	return g.curve.IsOnCurve(e.X, e.Y)
}

// ElementsFromSeed derives n independent generators. Candidates w stream
// uniformly from [0, 2p); x = w mod p is kept when x^3 + 7 is a residue, and
// the square root's sign flips when w >= p.
func (g *Group) ElementsFromSeed(n int, seed bytestr.ByteString) []Point {
	doubleP := new(big.Int).Lsh(g.curve.P, 1)
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		stream := kdf.NewNumberStream(doubleP, group.ElementSeed(seed, i))
		for {
			w := stream.Next()
			x := new(big.Int).Mod(w, g.curve.P)
			y, ok := g.liftX(x)
			if !ok {
				continue
			}
			if w.Cmp(g.curve.P) >= 0 {
				y.Sub(g.curve.P, y)
			}
			p := Point{X: x, Y: y}
			if p.IsInfinity() || !g.curve.IsOnCurve(x, y) {
				continue
			}
			out[i] = p
			break
		}
	}
	return out
}

// liftX solves y^2 = x^3 + 7 over the field, reporting whether the right
// hand side is a quadratic residue.
func (g *Group) liftX(x *big.Int) (*big.Int, bool) {
	rhs := new(big.Int).Exp(x, big.NewInt(3), g.curve.P)
	rhs.Add(rhs, g.curve.B)
	rhs.Mod(rhs, g.curve.P)
	y := new(big.Int).ModSqrt(rhs, g.curve.P)
	if y == nil {
		return nil, false
	}
	return y, true
}
