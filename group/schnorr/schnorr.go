// Package schnorr implements the prime-order subgroup of quadratic residues
// modulo a safe prime p = 2q+1. Elements are integers in [1, p); all
// arithmetic is math/big modular arithmetic, with exponents reduced modulo q.
package schnorr

import (
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/kdf"
	"golang.org/x/xerrors"
)

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Group is the subgroup of quadratic residues modulo the safe prime p.
// It implements group.Group[*big.Int].
type Group struct {
	p *big.Int // modulus, p = 2q+1
	q *big.Int // subgroup order
	g *big.Int // generator, a quadratic residue
}

// New builds the group for modulus p and generator g. The subgroup order is
// q = (p-1)/2; g must be a quadratic residue other than 1. Primality of p and
// q is the caller's trust decision (the predefined groups carry published
// safe primes).
func New(p, g *big.Int) (*Group, error) {
	if p.Sign() <= 0 || p.Bit(0) == 0 {
		return nil, xerrors.Errorf("schnorr: modulus must be an odd positive integer")
	}
	q := new(big.Int).Rsh(new(big.Int).Sub(p, one), 1)
	grp := &Group{p: p, q: q, g: g}
	if g.Cmp(two) < 0 || g.Cmp(p) >= 0 || !grp.IsGroupElement(g) {
		return nil, xerrors.Errorf("schnorr: generator %v is not a quadratic residue in [2, p)", g)
	}
	return grp, nil
}

// Order returns q.
func (g *Group) Order() *big.Int {
	return g.q
}

// Modulus returns p.
func (g *Group) Modulus() *big.Int {
	return g.p
}

// Identity returns 1.
func (g *Group) Identity() *big.Int {
	return big.NewInt(1)
}

// Generator returns the group generator.
func (g *Group) Generator() *big.Int {
	return new(big.Int).Set(g.g)
}

// MessageUpperBound returns q: every integer in [0, q) encodes.
func (g *Group) MessageUpperBound() *big.Int {
	return new(big.Int).Set(g.q)
}

// Multiply returns a*b mod p.
func (g *Group) Multiply(a, b *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Mod(out, g.p)
}

// Power returns a^exp mod p with exp reduced modulo q first.
func (g *Group) Power(a *big.Int, exp *big.Int) *big.Int {
	e := group.NormalizeExponent(exp, g.q)
	return new(big.Int).Exp(a, e, g.p)
}

// Invert returns a^-1 mod p.
func (g *Group) Invert(a *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, g.p)
}

// Equal reports numeric equality.
func (g *Group) Equal(a, b *big.Int) bool {
	return a.Cmp(b) == 0
}

// Encode maps m in [0, q) to a quadratic residue: x = m+1, flipped to p-x
// when x itself is not a residue.
func (g *Group) Encode(m *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(g.q) >= 0 {
		return nil, xerrors.Errorf("schnorr: message %v outside [0, q)", m)
	}
	x := new(big.Int).Add(m, one)
	if g.isResidue(x) {
		return x, nil
	}
	return x.Sub(g.p, x), nil
}

// Decode inverts Encode: a-1 when a <= q, p-a-1 otherwise.
func (g *Group) Decode(e *big.Int) *big.Int {
	if e.Cmp(g.q) <= 0 {
		return new(big.Int).Sub(e, one)
	}
	out := new(big.Int).Sub(g.p, e)
	return out.Sub(out, one)
}

// ElementBytes returns the minimal big-endian two's-complement encoding.
func (g *Group) ElementBytes(e *big.Int) bytestr.ByteString {
	return bytestr.BigIntBytes(e)
}

// ElementFromBytes parses a two's-complement encoding and validates group
// membership.
func (g *Group) ElementFromBytes(raw bytestr.ByteString) (*big.Int, error) {
	if len(raw) == 0 {
		return nil, xerrors.New("schnorr: empty element encoding")
	}
	v := bytestr.BigIntFromBytes(raw)
	if !g.IsGroupElement(v) {
		return nil, xerrors.Errorf("schnorr: %v is not a group element", v)
	}
	return v, nil
}

// IsGroupElement reports 1 <= a < p and a^q = 1 (mod p).
func (g *Group) IsGroupElement(a *big.Int) bool {
	if a.Sign() <= 0 || a.Cmp(g.p) >= 0 {
		return false
	}
	return g.isResidue(a)
}

func (g *Group) isResidue(a *big.Int) bool {
	return new(big.Int).Exp(a, g.q, g.p).Cmp(one) == 0
}

// ElementsFromSeed derives n independent generators: for each index the
// uniform stream over [0, p) is squared modulo p and the first result >= 2 is
// taken.
func (g *Group) ElementsFromSeed(n int, seed bytestr.ByteString) []*big.Int {
	out := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		stream := kdf.NewNumberStream(g.p, group.ElementSeed(seed, i))
		for {
			w := stream.Next()
			e := w.Mul(w, w)
			e.Mod(e, g.p)
			if e.Cmp(two) >= 0 {
				out[i] = e
				break
			}
		}
	}
	return out
}
