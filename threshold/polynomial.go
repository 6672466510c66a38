package threshold

import (
	"math/big"

	"github.com/openvote/cryptocore/random"
	"golang.org/x/xerrors"
)

// Polynomial is a polynomial over Z_q given by its coefficient list
// a[0..t-1], lowest degree first.
type Polynomial struct {
	coeffs []*big.Int
	q      *big.Int
}

// RandomPolynomial draws a polynomial of length t with coefficients uniform
// in [0, q) and a nonzero leading coefficient.
func RandomPolynomial(q *big.Int, t int) (*Polynomial, error) {
	if t < 1 {
		return nil, xerrors.Errorf("threshold: polynomial length %d", t)
	}
	coeffs := make([]*big.Int, t)
	for i := 0; i < t-1; i++ {
		c, err := random.Int(q)
		if err != nil {
			return nil, xerrors.Errorf("threshold: drawing coefficient: %v", err)
		}
		coeffs[i] = c
	}
	lead, err := random.IntRange(big.NewInt(1), q)
	if err != nil {
		return nil, xerrors.Errorf("threshold: drawing leading coefficient: %v", err)
	}
	coeffs[t-1] = lead
	return &Polynomial{coeffs: coeffs, q: q}, nil
}

// Length returns the number of coefficients.
func (p *Polynomial) Length() int {
	return len(p.coeffs)
}

// Coefficient returns a copy of a[i].
func (p *Polynomial) Coefficient(i int) *big.Int {
	return new(big.Int).Set(p.coeffs[i])
}

// Evaluate returns p(x) mod q by Horner's rule.
func (p *Polynomial) Evaluate(x int64) *big.Int {
	xv := big.NewInt(x)
	acc := new(big.Int)
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		acc.Mul(acc, xv)
		acc.Add(acc, p.coeffs[i])
		acc.Mod(acc, p.q)
	}
	return acc
}
