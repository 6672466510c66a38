// Package group defines the algebraic contract shared by every cryptographic
// component of the library: a cyclic group of prime order with a fixed
// generator, message encoding, canonical serialization, and reproducible
// derivation of independent generators.
//
// The contract is a pure capability set parameterized by the element type;
// the concrete instantiations (a Schnorr group of quadratic residues and the
// secp256k1 curve) live in subpackages and share no code.
package group

import (
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/random"
	"golang.org/x/xerrors"
)

// Group is a cyclic group of prime order with generator g. Exponents are
// normalized modulo the order before use; negative exponents are allowed.
type Group[E any] interface {
	// Order returns the prime order q of the group.
	Order() *big.Int
	// Identity returns the neutral element.
	Identity() E
	// Generator returns the fixed generator g.
	Generator() E
	// MessageUpperBound is the exclusive upper bound of the integers that
	// Encode accepts.
	MessageUpperBound() *big.Int
	// Multiply returns a*b.
	Multiply(a, b E) E
	// Power returns a^exp with exp reduced modulo Order first.
	Power(a E, exp *big.Int) E
	// Invert returns the multiplicative inverse of a.
	Invert(a E) E
	// Equal reports structural algebraic equality.
	Equal(a, b E) bool
	// Encode maps an integer in [0, MessageUpperBound) to a group element.
	Encode(m *big.Int) (E, error)
	// Decode is the left inverse of Encode.
	Decode(e E) *big.Int
	// ElementBytes returns the canonical byte serialization of e.
	ElementBytes(e E) bytestr.ByteString
	// ElementFromBytes parses a canonical serialization, rejecting any byte
	// string that does not denote a valid group element.
	ElementFromBytes(raw bytestr.ByteString) (E, error)
	// IsGroupElement reports whether e is a valid element of the group.
	IsGroupElement(e E) bool
	// ElementsFromSeed reproducibly derives n pseudo-random independent
	// generators from seed.
	ElementsFromSeed(n int, seed bytestr.ByteString) []E
}

// Product returns the product of xs, or the identity for an empty slice.
func Product[E any](g Group[E], xs []E) E {
	acc := g.Identity()
	for _, x := range xs {
		acc = g.Multiply(acc, x)
	}
	return acc
}

// PowerProduct returns the product of bases[i]^exps[i].
func PowerProduct[E any](g Group[E], bases []E, exps []*big.Int) (E, error) {
	if len(bases) != len(exps) {
		var zero E
		return zero, xerrors.Errorf("group: %d bases against %d exponents", len(bases), len(exps))
	}
	acc := g.Identity()
	for i := range bases {
		acc = g.Multiply(acc, g.Power(bases[i], exps[i]))
	}
	return acc, nil
}

// RandomExponent draws a uniform exponent in [0, q).
func RandomExponent[E any](g Group[E]) (*big.Int, error) {
	return random.Int(g.Order())
}

// RandomUnit draws a uniform exponent in [1, q).
func RandomUnit[E any](g Group[E]) (*big.Int, error) {
	return RandomExponentMin(g, 1)
}

// RandomExponentMin draws a uniform exponent in [min, q).
func RandomExponentMin[E any](g Group[E], min int64) (*big.Int, error) {
	return random.IntRange(big.NewInt(min), g.Order())
}

// NormalizeExponent reduces exp into [0, q); Mod is Euclidean, so negative
// exponents land in range.
func NormalizeExponent(exp, q *big.Int) *big.Int {
	return new(big.Int).Mod(exp, q)
}
