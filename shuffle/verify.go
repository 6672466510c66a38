package shuffle

import (
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/openvote/cryptocore/commitment"
	"github.com/openvote/cryptocore/elgamal"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/zkp"
)

// Verify recomputes the challenge stream from the public instance and checks
// the announcement tuple against its verification equations. Size checks run
// first; the result names the first failing clause.
func Verify[E any](g group.Group[E], ck commitment.MultiKey[E], pk E,
	inputs, outputs []elgamal.MultiCiphertext[E], proof *Proof[E]) zkp.VerificationResult {

	res := checkSizes(g, ck, inputs, outputs, proof)
	if !res.IsCorrect() {
		return res.OnFailure(logFailure)
	}
	n := len(inputs)
	width := inputs[0].Width()
	q := g.Order()
	h := ck.H
	h1 := ck.Hs[0]

	seed := seedDigest(g, ck, pk, inputs, outputs, proof.C)
	u := challengeVector(g, seed, n)
	chal := finalChallenge(g, seed, proof.CHat, proof.T1, proof.T2, proof.T3,
		proof.T4X, proof.T4Y, proof.THat)
	negChal := new(big.Int).Neg(chal)

	// t1 = cBar^-C * h^s1 with cBar = (prod c_i) / (prod h_i).
	cBar := g.Multiply(
		parallelProduct(g, n, func(i int) E { return proof.C[i] }),
		g.Invert(parallelProduct(g, n, func(i int) E { return ck.Hs[i] })))
	expectT1 := g.Multiply(g.Power(cBar, negChal), g.Power(h, proof.S1))
	if !g.Equal(proof.T1, expectT1) {
		return zkp.Failed("shuffle: t1 does not verify").OnFailure(logFailure)
	}

	// t2 = cHatBar^-C * h^s2 with cHatBar = cHat[n-1] / h1^{prod u_i}.
	uProd := big.NewInt(1)
	for _, ui := range u {
		uProd.Mul(uProd, ui)
		uProd.Mod(uProd, q)
	}
	cHatBar := g.Multiply(proof.CHat[n-1], g.Invert(g.Power(h1, uProd)))
	expectT2 := g.Multiply(g.Power(cHatBar, negChal), g.Power(h, proof.S2))
	if !g.Equal(proof.T2, expectT2) {
		return zkp.Failed("shuffle: t2 does not verify").OnFailure(logFailure)
	}

	// t3 = cTilde^-C * h^s3 * prod h_i^{s'_i} with cTilde = prod c_i^{u_i}.
	cTilde := parallelProduct(g, n, func(i int) E { return g.Power(proof.C[i], u[i]) })
	expectT3 := g.Multiply(g.Power(cTilde, negChal),
		g.Multiply(g.Power(h, proof.S3),
			parallelProduct(g, n, func(i int) E { return g.Power(ck.Hs[i], proof.SPrime[i]) })))
	if !g.Equal(proof.T3, expectT3) {
		return zkp.Failed("shuffle: t3 does not verify").OnFailure(logFailure)
	}

	// Per width j, both ciphertext components.
	negS4 := make([]*big.Int, width)
	for j := range negS4 {
		negS4[j] = new(big.Int).Neg(proof.S4[j])
	}
	for j := 0; j < width; j++ {
		j := j
		aX := parallelProduct(g, n, func(i int) E {
			return g.Power(inputs[i].Ciphertexts[j].X, u[i])
		})
		expectT4X := g.Multiply(g.Power(aX, negChal),
			g.Multiply(g.Power(g.Generator(), negS4[j]),
				parallelProduct(g, n, func(i int) E {
					return g.Power(outputs[i].Ciphertexts[j].X, proof.SPrime[i])
				})))
		if !g.Equal(proof.T4X[j], expectT4X) {
			return zkp.Failed("shuffle: t4x[%d] does not verify", j).OnFailure(logFailure)
		}
		aY := parallelProduct(g, n, func(i int) E {
			return g.Power(inputs[i].Ciphertexts[j].Y, u[i])
		})
		expectT4Y := g.Multiply(g.Power(aY, negChal),
			g.Multiply(g.Power(pk, negS4[j]),
				parallelProduct(g, n, func(i int) E {
					return g.Power(outputs[i].Ciphertexts[j].Y, proof.SPrime[i])
				})))
		if !g.Equal(proof.T4Y[j], expectT4Y) {
			return zkp.Failed("shuffle: t4y[%d] does not verify", j).OnFailure(logFailure)
		}
	}

	// tHat_i = cHat[i]^-C * h^{sHat_i} * prev^{s'_i}.
	failed := make([]bool, n)
	parallelRange(n, func(i int) {
		base := h1
		if i > 0 {
			base = proof.CHat[i-1]
		}
		expect := g.Multiply(g.Power(proof.CHat[i], negChal),
			g.Multiply(g.Power(h, proof.SHat[i]), g.Power(base, proof.SPrime[i])))
		failed[i] = !g.Equal(proof.THat[i], expect)
	})
	for i, bad := range failed {
		if bad {
			return zkp.Failed("shuffle: tHat[%d] does not verify", i).OnFailure(logFailure)
		}
	}
	return zkp.Correct()
}

func logFailure(reason string) {
	log.Warn().Str("clause", reason).Msg("shuffle proof rejected")
}

// checkSizes validates the shape of the instance and the proof, and that
// every proof element is a member of the group.
func checkSizes[E any](g group.Group[E], ck commitment.MultiKey[E],
	inputs, outputs []elgamal.MultiCiphertext[E], proof *Proof[E]) zkp.VerificationResult {

	if proof == nil {
		return zkp.Failed("shuffle: missing proof")
	}
	widthIn, err := uniformWidth(inputs)
	if err != nil {
		return zkp.Failed("shuffle: inputs: %v", err)
	}
	widthOut, err := uniformWidth(outputs)
	if err != nil {
		return zkp.Failed("shuffle: outputs: %v", err)
	}
	n := len(inputs)
	res := zkp.Check(len(outputs) == n, "shuffle: %d outputs against %d inputs", len(outputs), n).
		AndExpect(widthIn == widthOut, "shuffle: input width %d against output width %d", widthIn, widthOut).
		AndExpect(ck.Size() >= n, "shuffle: commitment key holds %d bases, need %d", ck.Size(), n).
		AndExpect(len(proof.C) == n, "shuffle: permutation commitment sized %d, want %d", len(proof.C), n).
		AndExpect(len(proof.CHat) == n, "shuffle: chain commitment sized %d, want %d", len(proof.CHat), n).
		AndExpect(len(proof.THat) == n, "shuffle: tHat sized %d, want %d", len(proof.THat), n).
		AndExpect(len(proof.SHat) == n, "shuffle: sHat sized %d, want %d", len(proof.SHat), n).
		AndExpect(len(proof.SPrime) == n, "shuffle: sPrime sized %d, want %d", len(proof.SPrime), n).
		AndExpect(len(proof.T4X) == widthIn, "shuffle: t4x sized %d, want %d", len(proof.T4X), widthIn).
		AndExpect(len(proof.T4Y) == widthIn, "shuffle: t4y sized %d, want %d", len(proof.T4Y), widthIn).
		AndExpect(len(proof.S4) == widthIn, "shuffle: s4 sized %d, want %d", len(proof.S4), widthIn).
		AndExpect(proof.S1 != nil && proof.S2 != nil && proof.S3 != nil, "shuffle: missing scalar responses")
	if !res.IsCorrect() {
		return res
	}
	for i := range proof.SHat {
		if proof.SHat[i] == nil || proof.SPrime[i] == nil {
			return zkp.Failed("shuffle: missing scalar response %d", i)
		}
	}
	for j := range proof.S4 {
		if proof.S4[j] == nil {
			return zkp.Failed("shuffle: missing s4 response %d", j)
		}
	}
	for i := range proof.C {
		if !g.IsGroupElement(proof.C[i]) || !g.IsGroupElement(proof.CHat[i]) || !g.IsGroupElement(proof.THat[i]) {
			return zkp.Failed("shuffle: proof element %d is not a group element", i)
		}
	}
	for j := range proof.T4X {
		if !g.IsGroupElement(proof.T4X[j]) || !g.IsGroupElement(proof.T4Y[j]) {
			return zkp.Failed("shuffle: t4 element %d is not a group element", j)
		}
	}
	if !g.IsGroupElement(proof.T1) || !g.IsGroupElement(proof.T2) || !g.IsGroupElement(proof.T3) {
		return zkp.Failed("shuffle: announcement is not a group element")
	}
	return zkp.Correct()
}
