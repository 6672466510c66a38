package threshold

import (
	"math/big"

	"github.com/openvote/cryptocore/elgamal"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/zkp"
	"golang.org/x/xerrors"
)

// DecryptionShare is teller nr's decryption factor alpha^{y_nr} for one
// ciphertext, with an eqlog proof of correct exponentiation.
type DecryptionShare[E any] struct {
	Nr    int
	Share E
	Proof zkp.EqlogProof
}

// MultiDecryptionShare carries one decryption share per ciphertext of a
// multi-ciphertext.
type MultiDecryptionShare[E any] struct {
	Nr     int
	Shares []E
	Proofs []zkp.EqlogProof
}

// CreateDecryptionShare computes alpha^{y_l} and proves the exponent equal to
// the one behind the teller's public commitment.
func CreateDecryptionShare[E any](g group.Group[E], key PrivateKeyShare[E], ct elgamal.Ciphertext[E]) (DecryptionShare[E], error) {
	factor := g.Power(ct.X, key.Share)
	proof, err := zkp.ProveEqlog(g, key.Share, g.Generator(), ct.X, key.Public, factor)
	if err != nil {
		return DecryptionShare[E]{}, xerrors.Errorf("threshold: proving decryption share: %v", err)
	}
	return DecryptionShare[E]{Nr: key.Nr, Share: factor, Proof: proof}, nil
}

// VerifyDecryptionShare checks the share's eqlog proof against the teller's
// public commitment.
func VerifyDecryptionShare[E any](g group.Group[E], public E, ct elgamal.Ciphertext[E], ds DecryptionShare[E]) zkp.VerificationResult {
	return zkp.VerifyEqlog(g, g.Generator(), ct.X, public, ds.Share, ds.Proof)
}

// CreateMultiDecryptionShare shares every ciphertext of mc.
func CreateMultiDecryptionShare[E any](g group.Group[E], key PrivateKeyShare[E], mc elgamal.MultiCiphertext[E]) (MultiDecryptionShare[E], error) {
	out := MultiDecryptionShare[E]{
		Nr:     key.Nr,
		Shares: make([]E, mc.Width()),
		Proofs: make([]zkp.EqlogProof, mc.Width()),
	}
	for i, ct := range mc.Ciphertexts {
		ds, err := CreateDecryptionShare(g, key, ct)
		if err != nil {
			return MultiDecryptionShare[E]{}, xerrors.Errorf("threshold: ciphertext %d: %v", i, err)
		}
		out.Shares[i] = ds.Share
		out.Proofs[i] = ds.Proof
	}
	return out, nil
}

// VerifyMultiDecryptionShare checks every inner share, short-circuiting on
// the first failure.
func VerifyMultiDecryptionShare[E any](g group.Group[E], public E, mc elgamal.MultiCiphertext[E], mds MultiDecryptionShare[E]) zkp.VerificationResult {
	if len(mds.Shares) != mc.Width() || len(mds.Proofs) != mc.Width() {
		return zkp.Failed("share count %d/%d against width %d",
			len(mds.Shares), len(mds.Proofs), mc.Width())
	}
	for i, ct := range mc.Ciphertexts {
		ds := DecryptionShare[E]{Nr: mds.Nr, Share: mds.Shares[i], Proof: mds.Proofs[i]}
		if res := VerifyDecryptionShare(g, public, ct, ds); !res.IsCorrect() {
			return zkp.Failed("ciphertext %d: %s", i, res.Reason())
		}
	}
	return zkp.Correct()
}

// LagrangeCoefficient computes l_k = prod_{m in S, m != k} m * (m-k)^-1
// mod q, the interpolation weight at zero.
func LagrangeCoefficient(q *big.Int, indices []int, k int) *big.Int {
	acc := big.NewInt(1)
	kv := big.NewInt(int64(k))
	for _, m := range indices {
		if m == k {
			continue
		}
		mv := big.NewInt(int64(m))
		diff := new(big.Int).Sub(mv, kv)
		diff.Mod(diff, q)
		acc.Mul(acc, mv)
		acc.Mul(acc, new(big.Int).ModInverse(diff, q))
		acc.Mod(acc, q)
	}
	return acc
}

// Combine recovers the plaintext from at least t decryption shares with
// distinct indices: decode(beta * (prod D_k^{l_k})^-1).
func Combine[E any](g group.Group[E], cfg Config, ct elgamal.Ciphertext[E], shares []DecryptionShare[E]) (*big.Int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(shares) < cfg.Threshold {
		return nil, xerrors.Errorf("got %d shares, need %d: %w", len(shares), cfg.Threshold, ErrTooFewShares)
	}
	indices := make([]int, 0, len(shares))
	seen := make(map[int]bool, len(shares))
	for _, s := range shares {
		if s.Nr < 1 || s.Nr > cfg.Tellers {
			return nil, xerrors.Errorf("share index %d: %w", s.Nr, ErrIndexOutOfRange)
		}
		if seen[s.Nr] {
			return nil, xerrors.Errorf("share index %d: %w", s.Nr, ErrDuplicateShare)
		}
		seen[s.Nr] = true
		indices = append(indices, s.Nr)
	}
	q := g.Order()
	blind := g.Identity()
	for _, s := range shares {
		weight := LagrangeCoefficient(q, indices, s.Nr)
		blind = g.Multiply(blind, g.Power(s.Share, weight))
	}
	return g.Decode(g.Multiply(ct.Y, g.Invert(blind))), nil
}

// CombineMulti combines each ciphertext of mc from the matching inner shares
// and returns the recovered block list.
func CombineMulti[E any](g group.Group[E], cfg Config, mc elgamal.MultiCiphertext[E], shares []MultiDecryptionShare[E]) ([]*big.Int, error) {
	out := make([]*big.Int, mc.Width())
	for i, ct := range mc.Ciphertexts {
		inner := make([]DecryptionShare[E], len(shares))
		for j, mds := range shares {
			if len(mds.Shares) != mc.Width() || len(mds.Proofs) != mc.Width() {
				return nil, xerrors.Errorf("threshold: share %d width %d against multi-ciphertext width %d",
					mds.Nr, len(mds.Shares), mc.Width())
			}
			inner[j] = DecryptionShare[E]{Nr: mds.Nr, Share: mds.Shares[i], Proof: mds.Proofs[i]}
		}
		m, err := Combine(g, cfg, ct, inner)
		if err != nil {
			return nil, xerrors.Errorf("threshold: ciphertext %d: %v", i, err)
		}
		out[i] = m
	}
	return out, nil
}
