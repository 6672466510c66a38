package zkp

import (
	"math/big"

	"github.com/openvote/cryptocore/elgamal"
	"github.com/openvote/cryptocore/group"
	"golang.org/x/xerrors"
)

// DecryptionProof ties a decryption factor D = alpha^sk to the public key:
// an eqlog proof that sk is the joint discrete log of (pk, D) under bases
// (g, alpha).
type DecryptionProof struct {
	Proof EqlogProof
}

// ProveDecryption computes the decryption factor for ct and proves it
// correct.
func ProveDecryption[E any](g group.Group[E], sk *big.Int, pk E, ct elgamal.Ciphertext[E]) (E, DecryptionProof, error) {
	factor := g.Power(ct.X, sk)
	proof, err := ProveEqlog(g, sk, g.Generator(), ct.X, pk, factor)
	if err != nil {
		var zero E
		return zero, DecryptionProof{}, xerrors.Errorf("zkp: proving decryption: %v", err)
	}
	return factor, DecryptionProof{Proof: proof}, nil
}

// VerifyDecryption checks that factor is alpha^sk for the sk behind pk.
func VerifyDecryption[E any](g group.Group[E], pk E, ct elgamal.Ciphertext[E], factor E, proof DecryptionProof) VerificationResult {
	return VerifyEqlog(g, g.Generator(), ct.X, pk, factor, proof.Proof)
}

// VerifyDecryptionWithPlaintext additionally checks that the factor opens the
// ciphertext to the claimed plaintext: decode(beta * D^-1) == m.
func VerifyDecryptionWithPlaintext[E any](g group.Group[E], pk E, ct elgamal.Ciphertext[E], factor E, proof DecryptionProof, m *big.Int) VerificationResult {
	return VerifyDecryption(g, pk, ct, factor, proof).AndThen(func() VerificationResult {
		opened := g.Decode(g.Multiply(ct.Y, g.Invert(factor)))
		return Check(opened.Cmp(m) == 0, "decryption opens to %v, claimed %v", opened, m)
	})
}
