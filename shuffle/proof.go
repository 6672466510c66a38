package shuffle

import (
	"math/big"

	"github.com/openvote/cryptocore/commitment"
	"github.com/openvote/cryptocore/elgamal"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/kdf"
	"golang.org/x/xerrors"
)

// Proof is the shuffle proof: the permutation commitment c, the chain
// commitment cHat, the announcement tuple t and the response tuple s.
type Proof[E any] struct {
	C    []E
	CHat []E

	T1   E
	T2   E
	T3   E
	T4X  []E
	T4Y  []E
	THat []E

	S1     *big.Int
	S2     *big.Int
	S3     *big.Int
	S4     []*big.Int
	SHat   []*big.Int
	SPrime []*big.Int
}

// seedDigest hashes the public shuffle instance: generator, public key,
// commitment key, inputs, outputs and the permutation commitment. Challenge
// branches clone this shared prefix.
func seedDigest[E any](g group.Group[E], ck commitment.MultiKey[E], pk E,
	inputs, outputs []elgamal.MultiCiphertext[E], c []E) *kdf.Digest {

	d := kdf.NewDigest()
	d.WriteByteString(g.ElementBytes(g.Generator()))
	d.WriteByteString(g.ElementBytes(pk))
	d.WriteByteString(g.ElementBytes(ck.H))
	for i := 0; i < len(inputs); i++ {
		d.WriteByteString(g.ElementBytes(ck.Hs[i]))
	}
	for _, batch := range [][]elgamal.MultiCiphertext[E]{inputs, outputs} {
		for _, mc := range batch {
			for _, ct := range mc.Ciphertexts {
				d.WriteByteString(g.ElementBytes(ct.X))
				d.WriteByteString(g.ElementBytes(ct.Y))
			}
		}
	}
	for _, ci := range c {
		d.WriteByteString(g.ElementBytes(ci))
	}
	return d
}

// challengeVector derives u[i] from branch i+1 of the seed digest.
func challengeVector[E any](g group.Group[E], seed *kdf.Digest, n int) []*big.Int {
	u := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		u[i] = seed.Clone().WriteInt32(int32(i + 1)).UniformScalar(g.Order())
	}
	return u
}

// finalChallenge extends a branch of the seed with the chain commitment and
// the announcement tuple.
func finalChallenge[E any](g group.Group[E], seed *kdf.Digest, cHat []E,
	t1, t2, t3 E, t4x, t4y, tHat []E) *big.Int {

	d := seed.Clone()
	for _, e := range cHat {
		d.WriteByteString(g.ElementBytes(e))
	}
	d.WriteByteString(g.ElementBytes(t1))
	d.WriteByteString(g.ElementBytes(t2))
	d.WriteByteString(g.ElementBytes(t3))
	for j := range t4x {
		d.WriteByteString(g.ElementBytes(t4x[j]))
		d.WriteByteString(g.ElementBytes(t4y[j]))
	}
	for _, e := range tHat {
		d.WriteByteString(g.ElementBytes(e))
	}
	return d.UniformScalar(g.Order())
}

// Prove builds the shuffle proof for outputs = shuffle(inputs) under the
// witness.
func Prove[E any](g group.Group[E], ck commitment.MultiKey[E], pk E,
	inputs, outputs []elgamal.MultiCiphertext[E], w *Witness) (*Proof[E], error) {

	width, err := uniformWidth(inputs)
	if err != nil {
		return nil, err
	}
	n := len(inputs)
	if len(outputs) != n {
		return nil, xerrors.Errorf("shuffle: %d outputs against %d inputs", len(outputs), n)
	}
	if w.Perm.Size() != n || len(w.Coins) != n {
		return nil, xerrors.Errorf("shuffle: witness sized for %d, batch is %d", w.Perm.Size(), n)
	}
	if ck.Size() < n {
		return nil, xerrors.Errorf("shuffle: commitment key holds %d bases, need %d", ck.Size(), n)
	}
	q := g.Order()
	h := ck.H
	h1 := ck.Hs[0]

	// Permutation commitment c_i = h^{r_i} * h_{pi(i)}.
	r := make([]*big.Int, n)
	c := make([]E, n)
	for i := 0; i < n; i++ {
		ri, err := group.RandomExponent(g)
		if err != nil {
			return nil, xerrors.Errorf("shuffle: drawing commitment coin: %v", err)
		}
		r[i] = ri
		c[i] = g.Multiply(g.Power(h, ri), ck.Hs[w.Perm.Apply(i)])
	}

	// Challenge vector from the shared transcript prefix.
	seed := seedDigest(g, ck, pk, inputs, outputs, c)
	u := challengeVector(g, seed, n)
	uPrime := Permute(w.Perm, u)

	// Chain commitment over the permuted challenges.
	rHat := make([]*big.Int, n)
	cHat := make([]E, n)
	prev := h1
	for i := 0; i < n; i++ {
		ri, err := group.RandomExponent(g)
		if err != nil {
			return nil, xerrors.Errorf("shuffle: drawing chain coin: %v", err)
		}
		rHat[i] = ri
		cHat[i] = g.Multiply(g.Power(h, ri), g.Power(prev, uPrime[i]))
		prev = cHat[i]
	}

	// Witness aggregates.
	rBar := new(big.Int)
	rTilde := new(big.Int)
	for i := 0; i < n; i++ {
		rBar.Add(rBar, r[i])
		rTilde.Add(rTilde, new(big.Int).Mul(r[i], u[i]))
	}
	rBar.Mod(rBar, q)
	rTilde.Mod(rTilde, q)

	rStar := make([]*big.Int, width)
	for j := 0; j < width; j++ {
		acc := new(big.Int)
		for i := 0; i < n; i++ {
			acc.Add(acc, new(big.Int).Mul(w.Coins[i][j], u[i]))
		}
		rStar[j] = acc.Mod(acc, q)
	}

	rDiamond := new(big.Int)
	uRun := big.NewInt(1)
	for i := n - 1; i >= 0; i-- {
		rDiamond.Add(rDiamond, new(big.Int).Mul(rHat[i], uRun))
		rDiamond.Mod(rDiamond, q)
		uRun = uRun.Mul(uRun, uPrime[i])
		uRun.Mod(uRun, q)
	}

	// Announcement.
	omega1, err := group.RandomExponentMin(g, 2)
	if err != nil {
		return nil, xerrors.Errorf("shuffle: drawing blinder: %v", err)
	}
	omega2, err := group.RandomExponentMin(g, 2)
	if err != nil {
		return nil, xerrors.Errorf("shuffle: drawing blinder: %v", err)
	}
	omega3, err := group.RandomExponentMin(g, 2)
	if err != nil {
		return nil, xerrors.Errorf("shuffle: drawing blinder: %v", err)
	}
	omega4 := make([]*big.Int, width)
	for j := range omega4 {
		if omega4[j], err = group.RandomExponent(g); err != nil {
			return nil, xerrors.Errorf("shuffle: drawing blinder: %v", err)
		}
	}
	omegaHat := make([]*big.Int, n)
	omegaPrime := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		if omegaHat[i], err = group.RandomExponent(g); err != nil {
			return nil, xerrors.Errorf("shuffle: drawing blinder: %v", err)
		}
		if omegaPrime[i], err = group.RandomExponent(g); err != nil {
			return nil, xerrors.Errorf("shuffle: drawing blinder: %v", err)
		}
	}

	t1 := g.Power(h, omega1)
	t2 := g.Power(h, omega2)
	t3 := g.Multiply(g.Power(h, omega3),
		parallelProduct(g, n, func(i int) E { return g.Power(ck.Hs[i], omegaPrime[i]) }))

	t4x := make([]E, width)
	t4y := make([]E, width)
	negOmega4 := func(j int) *big.Int { return new(big.Int).Neg(omega4[j]) }
	for j := 0; j < width; j++ {
		j := j
		prodX := parallelProduct(g, n, func(i int) E {
			return g.Power(outputs[i].Ciphertexts[j].X, omegaPrime[i])
		})
		prodY := parallelProduct(g, n, func(i int) E {
			return g.Power(outputs[i].Ciphertexts[j].Y, omegaPrime[i])
		})
		t4x[j] = g.Multiply(g.Power(g.Generator(), negOmega4(j)), prodX)
		t4y[j] = g.Multiply(g.Power(pk, negOmega4(j)), prodY)
	}

	tHat := make([]E, n)
	parallelRange(n, func(i int) {
		base := h1
		if i > 0 {
			base = cHat[i-1]
		}
		tHat[i] = g.Multiply(g.Power(h, omegaHat[i]), g.Power(base, omegaPrime[i]))
	})

	chal := finalChallenge(g, seed, cHat, t1, t2, t3, t4x, t4y, tHat)

	// Responses s = omega + C * witness mod q.
	respond := func(omega, witness *big.Int) *big.Int {
		out := new(big.Int).Mul(chal, witness)
		out.Add(out, omega)
		return out.Mod(out, q)
	}
	s4 := make([]*big.Int, width)
	for j := 0; j < width; j++ {
		s4[j] = respond(omega4[j], rStar[j])
	}
	sHat := make([]*big.Int, n)
	sPrime := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		sHat[i] = respond(omegaHat[i], rHat[i])
		sPrime[i] = respond(omegaPrime[i], uPrime[i])
	}

	return &Proof[E]{
		C:      c,
		CHat:   cHat,
		T1:     t1,
		T2:     t2,
		T3:     t3,
		T4X:    t4x,
		T4Y:    t4y,
		THat:   tHat,
		S1:     respond(omega1, rBar),
		S2:     respond(omega2, rDiamond),
		S3:     respond(omega3, rTilde),
		S4:     s4,
		SHat:   sHat,
		SPrime: sPrime,
	}, nil
}

// ShuffleAndProve shuffles the batch and proves it in one step.
func ShuffleAndProve[E any](g group.Group[E], ck commitment.MultiKey[E], pk E,
	inputs []elgamal.MultiCiphertext[E]) ([]elgamal.MultiCiphertext[E], *Proof[E], error) {

	outputs, witness, err := Shuffle(g, pk, inputs)
	if err != nil {
		return nil, nil, err
	}
	proof, err := Prove(g, ck, pk, inputs, outputs, witness)
	if err != nil {
		return nil, nil, err
	}
	return outputs, proof, nil
}
