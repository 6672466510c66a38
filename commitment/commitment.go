// Package commitment implements Pedersen commitments and their vector
// generalization over seeded commitment keys. Commitments are perfectly
// hiding and computationally binding under the discrete-log assumption.
package commitment

import (
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"golang.org/x/xerrors"
)

// PedersenKeySeed is the domain seed of the single-value commitment key.
const PedersenKeySeed = "pedersen-commitment-key"

// Pedersen commits to single values under the fixed seeded key.
type Pedersen[E any] struct {
	grp group.Group[E]
	key E
}

// NewPedersen derives the commitment key from the well-known seed.
func NewPedersen[E any](g group.Group[E]) Pedersen[E] {
	key := g.ElementsFromSeed(1, bytestr.FromString(PedersenKeySeed))[0]
	return Pedersen[E]{grp: g, key: key}
}

// Key exposes the commitment key element.
func (p Pedersen[E]) Key() E {
	return p.key
}

// Commit returns g^v * key^r.
func (p Pedersen[E]) Commit(v, r *big.Int) E {
	g := p.grp
	return g.Multiply(g.Power(g.Generator(), v), g.Power(p.key, r))
}

// MultiKey is a vector commitment key (h, h_1..h_n) derived from a seed.
type MultiKey[E any] struct {
	H  E
	Hs []E
}

// NewMultiKey derives n+1 independent elements from seed: the blinder base h
// and the n value bases.
func NewMultiKey[E any](g group.Group[E], n int, seed bytestr.ByteString) MultiKey[E] {
	elems := g.ElementsFromSeed(n+1, seed)
	return MultiKey[E]{H: elems[0], Hs: elems[1:]}
}

// Size returns the number of value bases.
func (k MultiKey[E]) Size() int {
	return len(k.Hs)
}

// Commit returns h^r * prod h_i^{vals_i} for up to Size values.
func (k MultiKey[E]) Commit(g group.Group[E], vals []*big.Int, r *big.Int) (E, error) {
	if len(vals) > len(k.Hs) {
		var zero E
		return zero, xerrors.Errorf("commitment: %d values exceed key size %d", len(vals), len(k.Hs))
	}
	acc := g.Power(k.H, r)
	for i, v := range vals {
		acc = g.Multiply(acc, g.Power(k.Hs[i], v))
	}
	return acc, nil
}
