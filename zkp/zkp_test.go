package zkp_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/elgamal"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/group/schnorr"
	"github.com/openvote/cryptocore/group/secp256k1"
	"github.com/openvote/cryptocore/kdf"
	"github.com/openvote/cryptocore/zkp"
)

func Test_ZKP_Dlog_True(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	x, err := group.RandomExponent(g)
	require.NoError(t, err)
	statement := g.Power(g.Generator(), x)

	proof, err := zkp.ProveDlog(g, x, statement)
	require.NoError(t, err)
	require.True(t, zkp.VerifyDlog(g, statement, proof).IsCorrect())
}

func Test_ZKP_Dlog_TamperedStatement(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	x, err := group.RandomExponent(g)
	require.NoError(t, err)
	statement := g.Power(g.Generator(), x)

	proof, err := zkp.ProveDlog(g, x, statement)
	require.NoError(t, err)

	shifted := g.Multiply(statement, g.Generator())
	res := zkp.VerifyDlog(g, shifted, proof)
	require.False(t, res.IsCorrect())
	require.NotEmpty(t, res.Reason())
}

func Test_ZKP_Dlog_CustomChallenger(t *testing.T) {
	g := secp256k1.NewGroup()
	x, err := group.RandomExponent[secp256k1.Point](g)
	require.NoError(t, err)
	statement := g.Power(g.Generator(), x)

	// A signature-style challenger binds an extra message into the
	// transcript.
	message := []byte("signed payload")
	challenger := func(grp group.Group[secp256k1.Point], st, ann secp256k1.Point) *big.Int {
		d := kdf.NewDigest()
		d.WriteByteString(grp.ElementBytes(st))
		d.WriteByteString(grp.ElementBytes(ann))
		d.WriteByteString(message)
		return d.UniformScalar(grp.Order())
	}

	proof, err := zkp.ProveDlogWithChallenger[secp256k1.Point](g, x, statement, challenger)
	require.NoError(t, err)
	require.True(t, zkp.VerifyDlogWithChallenger[secp256k1.Point](g, statement, proof, challenger).IsCorrect())

	// The default transcript must not accept it.
	require.False(t, zkp.VerifyDlog[secp256k1.Point](g, statement, proof).IsCorrect())
}

func Test_ZKP_Eqlog(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	x, err := group.RandomExponent(g)
	require.NoError(t, err)

	baseY := g.ElementsFromSeed(1, bytestr.FromString("eqlog-second-base"))[0]
	stX := g.Power(g.Generator(), x)
	stY := g.Power(baseY, x)

	proof, err := zkp.ProveEqlog(g, x, g.Generator(), baseY, stX, stY)
	require.NoError(t, err)
	require.True(t, zkp.VerifyEqlog(g, g.Generator(), baseY, stX, stY, proof).IsCorrect())

	// Unequal logs must be rejected.
	wrong := g.Multiply(stY, baseY)
	require.False(t, zkp.VerifyEqlog(g, g.Generator(), baseY, stX, wrong, proof).IsCorrect())
}

func Test_ZKP_Decryption(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	kp, err := elgamal.GenerateKeyPair(g)
	require.NoError(t, err)

	m := big.NewInt(271828)
	ct, _, err := elgamal.Encrypt(g, kp.PublicKey, m)
	require.NoError(t, err)

	factor, proof, err := zkp.ProveDecryption(g, kp.SecretKey, kp.PublicKey, ct)
	require.NoError(t, err)
	require.True(t, zkp.VerifyDecryption(g, kp.PublicKey, ct, factor, proof).IsCorrect())
	require.True(t, zkp.VerifyDecryptionWithPlaintext(g, kp.PublicKey, ct, factor, proof, m).IsCorrect())

	// Any perturbation of the ciphertext invalidates the proof.
	tamperedAlpha := ct
	tamperedAlpha.X = g.Multiply(ct.X, g.Generator())
	require.False(t, zkp.VerifyDecryption(g, kp.PublicKey, tamperedAlpha, factor, proof).IsCorrect())

	tamperedBeta := ct
	tamperedBeta.Y = g.Multiply(ct.Y, g.Generator())
	require.False(t, zkp.VerifyDecryptionWithPlaintext(g, kp.PublicKey, tamperedBeta, factor, proof, m).IsCorrect())

	require.False(t, zkp.VerifyDecryptionWithPlaintext(g, kp.PublicKey, ct, factor, proof,
		big.NewInt(271829)).IsCorrect())
}

func Test_VerificationResult_Combinators(t *testing.T) {
	require.True(t, zkp.Correct().IsCorrect())

	failed := zkp.Failed("clause %d", 3)
	require.False(t, failed.IsCorrect())
	require.Equal(t, "clause 3", failed.Reason())

	// AndExpect keeps the first failure.
	chained := failed.AndExpect(true, "later clause")
	require.Equal(t, "clause 3", chained.Reason())
	require.Equal(t, "second", zkp.Correct().AndExpect(false, "second").Reason())

	var observed string
	failed.OnFailure(func(reason string) { observed = reason })
	require.Equal(t, "clause 3", observed)

	require.Error(t, failed.Expect())
	require.NoError(t, zkp.Correct().Expect())

	require.Equal(t, "clause 3", zkp.Combine(zkp.Correct(), failed, zkp.Failed("other")).Reason())
	require.True(t, zkp.Combine().IsCorrect())
}

func Test_Proof_JSON(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	x, err := group.RandomExponent(g)
	require.NoError(t, err)
	statement := g.Power(g.Generator(), x)

	proof, err := zkp.ProveDlog(g, x, statement)
	require.NoError(t, err)

	data, err := json.Marshal(proof)
	require.NoError(t, err)

	var back zkp.DlogProof
	require.NoError(t, json.Unmarshal(data, &back))
	require.Zero(t, back.C.Cmp(proof.C))
	require.Zero(t, back.F.Cmp(proof.F))
	require.True(t, zkp.VerifyDlog(g, statement, back).IsCorrect())

	require.Error(t, json.Unmarshal([]byte(`{"c":"12x","f":"3"}`), &back))
}
