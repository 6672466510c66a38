// Package shuffle implements the verifiable re-encryption mix: a random
// permutation with fresh re-encryption of every ciphertext, and the
// Haenni-Locher-Koenig-Dubuis zero-knowledge proof of correct shuffling with
// its verifier.
package shuffle

import (
	"math/big"

	"github.com/openvote/cryptocore/random"
	"golang.org/x/xerrors"
)

// Permutation is a bijection of {0..n-1} stored as the forward array with a
// precomputed inverse.
type Permutation struct {
	forward []int
	inverse []int
}

// NewPermutation validates the forward array and precomputes the inverse.
func NewPermutation(forward []int) (*Permutation, error) {
	inverse := make([]int, len(forward))
	for i := range inverse {
		inverse[i] = -1
	}
	for i, v := range forward {
		if v < 0 || v >= len(forward) {
			return nil, xerrors.Errorf("shuffle: permutation image %d outside [0, %d)", v, len(forward))
		}
		if inverse[v] != -1 {
			return nil, xerrors.Errorf("shuffle: permutation image %d repeated", v)
		}
		inverse[v] = i
	}
	return &Permutation{forward: append([]int(nil), forward...), inverse: inverse}, nil
}

// RandomPermutation draws a uniform permutation of size n by Fisher-Yates.
func RandomPermutation(n int) (*Permutation, error) {
	forward := make([]int, n)
	for i := range forward {
		forward[i] = i
	}
	for i := n - 1; i > 0; i-- {
		jBig, err := random.Int(big.NewInt(int64(i + 1)))
		if err != nil {
			return nil, xerrors.Errorf("shuffle: drawing permutation: %v", err)
		}
		j := int(jBig.Int64())
		if j != i {
			forward[i], forward[j] = forward[j], forward[i]
		}
	}
	return NewPermutation(forward)
}

// Size returns n.
func (p *Permutation) Size() int {
	return len(p.forward)
}

// Apply returns pi(i).
func (p *Permutation) Apply(i int) int {
	return p.forward[i]
}

// Inv returns pi^-1(i).
func (p *Permutation) Inv(i int) int {
	return p.inverse[i]
}

// Permute places xs[i] at position pi(i) of the result.
func Permute[T any](p *Permutation, xs []T) []T {
	out := make([]T, len(xs))
	for i, x := range xs {
		out[p.forward[i]] = x
	}
	return out
}
