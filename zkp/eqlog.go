package zkp

import (
	"math/big"

	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/kdf"
	"golang.org/x/xerrors"
)

// EqlogProof is a Chaum-Pedersen proof that two statements share one discrete
// logarithm: X = gX^x and Y = gY^x.
type EqlogProof struct {
	C *big.Int
	F *big.Int
}

func eqlogChallenge[E any](g group.Group[E], baseX, baseY, stX, stY, annA, annB E) *big.Int {
	d := kdf.NewDigest()
	d.WriteByteString(g.ElementBytes(baseX))
	d.WriteByteString(g.ElementBytes(baseY))
	d.WriteByteString(g.ElementBytes(stX))
	d.WriteByteString(g.ElementBytes(stY))
	d.WriteByteString(g.ElementBytes(annA))
	d.WriteByteString(g.ElementBytes(annB))
	return d.UniformScalar(g.Order())
}

// ProveEqlog proves that x is the joint discrete log of X under baseX and Y
// under baseY.
func ProveEqlog[E any](g group.Group[E], x *big.Int, baseX, baseY, stX, stY E) (EqlogProof, error) {
	a, err := group.RandomExponent(g)
	if err != nil {
		return EqlogProof{}, xerrors.Errorf("zkp: drawing eqlog nonce: %v", err)
	}
	annA := g.Power(baseX, a)
	annB := g.Power(baseY, a)
	c := eqlogChallenge(g, baseX, baseY, stX, stY, annA, annB)
	f := new(big.Int).Mul(c, x)
	f.Add(f, a)
	f.Mod(f, g.Order())
	return EqlogProof{C: c, F: f}, nil
}

// VerifyEqlog reconstructs both announcements and accepts iff the challenge
// reproduces.
func VerifyEqlog[E any](g group.Group[E], baseX, baseY, stX, stY E, proof EqlogProof) VerificationResult {
	if proof.C == nil || proof.F == nil {
		return Failed("eqlog proof is missing components")
	}
	if !g.IsGroupElement(stX) || !g.IsGroupElement(stY) {
		return Failed("eqlog statement is not a group element")
	}
	negC := new(big.Int).Neg(proof.C)
	annA := g.Multiply(g.Power(baseX, proof.F), g.Power(stX, negC))
	annB := g.Multiply(g.Power(baseY, proof.F), g.Power(stY, negC))
	return Check(eqlogChallenge(g, baseX, baseY, stX, stY, annA, annB).Cmp(proof.C) == 0,
		"eqlog challenge mismatch")
}
