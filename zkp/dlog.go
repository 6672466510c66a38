package zkp

import (
	"math/big"

	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/kdf"
	"golang.org/x/xerrors"
)

// DlogProof is a Fiat-Shamir proof of knowledge of x with X = g^x.
type DlogProof struct {
	C *big.Int
	F *big.Int
}

// Challenger derives the proof challenge from the statement X and the
// announcement A. The default challenger digests (g, X, A); Schnorr-signature
// style variants substitute their own transcript.
type Challenger[E any] func(g group.Group[E], statement, announcement E) *big.Int

// DefaultChallenger digests the generator, the statement and the
// announcement.
func DefaultChallenger[E any](g group.Group[E], statement, announcement E) *big.Int {
	d := kdf.NewDigest()
	d.WriteByteString(g.ElementBytes(g.Generator()))
	d.WriteByteString(g.ElementBytes(statement))
	d.WriteByteString(g.ElementBytes(announcement))
	return d.UniformScalar(g.Order())
}

// ProveDlog proves knowledge of x for X = g^x with the default challenger.
func ProveDlog[E any](g group.Group[E], x *big.Int, statement E) (DlogProof, error) {
	return ProveDlogWithChallenger(g, x, statement, DefaultChallenger[E])
}

// ProveDlogWithChallenger proves knowledge of x for X = g^x, deriving the
// challenge through ch.
func ProveDlogWithChallenger[E any](g group.Group[E], x *big.Int, statement E, ch Challenger[E]) (DlogProof, error) {
	a, err := group.RandomExponent(g)
	if err != nil {
		return DlogProof{}, xerrors.Errorf("zkp: drawing dlog nonce: %v", err)
	}
	announcement := g.Power(g.Generator(), a)
	c := ch(g, statement, announcement)
	f := new(big.Int).Mul(c, x)
	f.Add(f, a)
	f.Mod(f, g.Order())
	return DlogProof{C: c, F: f}, nil
}

// VerifyDlog checks the proof against X with the default challenger.
func VerifyDlog[E any](g group.Group[E], statement E, proof DlogProof) VerificationResult {
	return VerifyDlogWithChallenger(g, statement, proof, DefaultChallenger[E])
}

// VerifyDlogWithChallenger reconstructs the announcement A' = g^f * X^-c and
// accepts iff the challenge reproduces.
func VerifyDlogWithChallenger[E any](g group.Group[E], statement E, proof DlogProof, ch Challenger[E]) VerificationResult {
	if proof.C == nil || proof.F == nil {
		return Failed("dlog proof is missing components")
	}
	if !g.IsGroupElement(statement) {
		return Failed("dlog statement is not a group element")
	}
	negC := new(big.Int).Neg(proof.C)
	announcement := g.Multiply(g.Power(g.Generator(), proof.F), g.Power(statement, negC))
	return Check(ch(g, statement, announcement).Cmp(proof.C) == 0, "dlog challenge mismatch")
}
