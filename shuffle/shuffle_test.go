package shuffle_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/commitment"
	"github.com/openvote/cryptocore/elgamal"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/group/schnorr"
	"github.com/openvote/cryptocore/group/secp256k1"
	"github.com/openvote/cryptocore/shuffle"
)

func Test_Permutation_Invariants(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100} {
		p, err := shuffle.RandomPermutation(n)
		require.NoError(t, err)
		require.Equal(t, n, p.Size())

		seen := make(map[int]bool, n)
		for i := 0; i < n; i++ {
			img := p.Apply(i)
			require.True(t, img >= 0 && img < n)
			require.False(t, seen[img])
			seen[img] = true
			require.Equal(t, i, p.Inv(img))
		}
	}

	_, err := shuffle.NewPermutation([]int{0, 0, 1})
	require.Error(t, err)
	_, err = shuffle.NewPermutation([]int{0, 3})
	require.Error(t, err)
}

func Test_Permute_PlacesForward(t *testing.T) {
	p, err := shuffle.NewPermutation([]int{2, 0, 1})
	require.NoError(t, err)
	out := shuffle.Permute(p, []string{"a", "b", "c"})
	// out[pi(i)] = in[i]
	require.Equal(t, []string{"b", "c", "a"}, out)
}

// batch encrypts n multi-ciphertexts of the given width.
func encryptBatch[E any](t *testing.T, g group.Group[E], pk E, n, width int) []elgamal.MultiCiphertext[E] {
	t.Helper()
	batch := make([]elgamal.MultiCiphertext[E], n)
	for i := 0; i < n; i++ {
		cts := make([]elgamal.Ciphertext[E], width)
		for j := 0; j < width; j++ {
			ct, _, err := elgamal.Encrypt(g, pk, big.NewInt(int64(1000*i+j)))
			require.NoError(t, err)
			cts[j] = ct
		}
		batch[i] = elgamal.MultiCiphertext[E]{
			Ciphertexts: cts,
			AuxData:     map[string]string{"serial": fmt.Sprintf("%04d", i)},
		}
	}
	return batch
}

func Test_Shuffle_PreservesPlaintexts(t *testing.T) {
	var g group.Group[*big.Int] = schnorr.Predefined512()
	kp, err := elgamal.GenerateKeyPair(g)
	require.NoError(t, err)

	inputs := encryptBatch(t, g, kp.PublicKey, 8, 2)
	outputs, witness, err := shuffle.Shuffle(g, kp.PublicKey, inputs)
	require.NoError(t, err)
	require.Len(t, outputs, len(inputs))

	// Every output decrypts to the plaintexts of input pi^-1(i), and the aux
	// data followed its ciphertexts.
	for i := range outputs {
		src := witness.Perm.Inv(i)
		require.Equal(t, inputs[src].AuxData, outputs[i].AuxData)
		for j := range outputs[i].Ciphertexts {
			require.Zero(t,
				elgamal.Decrypt(g, kp.SecretKey, outputs[i].Ciphertexts[j]).
					Cmp(big.NewInt(int64(1000*src+j))))
		}
	}
}

func Test_Shuffle_ProofRoundTrip_Secp256k1(t *testing.T) {
	const n, width = 20, 3
	g := secp256k1.NewGroup()
	kp, err := elgamal.GenerateKeyPair[secp256k1.Point](g)
	require.NoError(t, err)
	ck := commitment.NewMultiKey[secp256k1.Point](g, n, bytestr.FromString("shuffle-commitment-key"))

	inputs := encryptBatch[secp256k1.Point](t, g, kp.PublicKey, n, width)
	outputs, proof, err := shuffle.ShuffleAndProve[secp256k1.Point](g, ck, kp.PublicKey, inputs)
	require.NoError(t, err)

	require.True(t, shuffle.Verify[secp256k1.Point](g, ck, kp.PublicKey, inputs, outputs, proof).IsCorrect())

	// Appending an extra output ciphertext must fail.
	extra, _, err := elgamal.Encrypt[secp256k1.Point](g, kp.PublicKey, big.NewInt(5))
	require.NoError(t, err)
	appended := append(append([]elgamal.MultiCiphertext[secp256k1.Point](nil), outputs...),
		elgamal.MultiCiphertext[secp256k1.Point]{
			Ciphertexts: []elgamal.Ciphertext[secp256k1.Point]{extra, extra, extra},
		})
	res := shuffle.Verify[secp256k1.Point](g, ck, kp.PublicKey, inputs, appended, proof)
	require.False(t, res.IsCorrect())
	require.NotEmpty(t, res.Reason())

	// Substituting one output ciphertext must fail.
	substituted := append([]elgamal.MultiCiphertext[secp256k1.Point](nil), outputs...)
	cts := append([]elgamal.Ciphertext[secp256k1.Point](nil), substituted[4].Ciphertexts...)
	cts[1] = extra
	substituted[4] = elgamal.MultiCiphertext[secp256k1.Point]{
		Ciphertexts: cts,
		AuxData:     substituted[4].AuxData,
	}
	require.False(t, shuffle.Verify[secp256k1.Point](g, ck, kp.PublicKey, inputs, substituted, proof).IsCorrect())
}

func Test_Shuffle_ProofRoundTrip_Schnorr(t *testing.T) {
	const n, width = 5, 2
	var g group.Group[*big.Int] = schnorr.Predefined512()
	kp, err := elgamal.GenerateKeyPair(g)
	require.NoError(t, err)
	ck := commitment.NewMultiKey(g, n, bytestr.FromString("shuffle-commitment-key"))

	inputs := encryptBatch(t, g, kp.PublicKey, n, width)
	outputs, proof, err := shuffle.ShuffleAndProve(g, ck, kp.PublicKey, inputs)
	require.NoError(t, err)
	require.True(t, shuffle.Verify(g, ck, kp.PublicKey, inputs, outputs, proof).IsCorrect())

	// Swapping two outputs without fixing the proof must fail.
	swapped := append([]elgamal.MultiCiphertext[*big.Int](nil), outputs...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	require.False(t, shuffle.Verify(g, ck, kp.PublicKey, inputs, swapped, proof).IsCorrect())
}

func Test_Shuffle_SizeChecks(t *testing.T) {
	const n = 4
	var g group.Group[*big.Int] = schnorr.Predefined512()
	kp, err := elgamal.GenerateKeyPair(g)
	require.NoError(t, err)
	ck := commitment.NewMultiKey(g, n, bytestr.FromString("shuffle-commitment-key"))

	inputs := encryptBatch(t, g, kp.PublicKey, n, 1)
	outputs, proof, err := shuffle.ShuffleAndProve(g, ck, kp.PublicKey, inputs)
	require.NoError(t, err)

	require.False(t, shuffle.Verify(g, ck, kp.PublicKey, inputs, outputs, nil).IsCorrect())
	require.False(t, shuffle.Verify(g, ck, kp.PublicKey, inputs[:3], outputs, proof).IsCorrect())

	truncated := *proof
	truncated.SPrime = truncated.SPrime[:n-1]
	require.False(t, shuffle.Verify(g, ck, kp.PublicKey, inputs, outputs, &truncated).IsCorrect())

	// A key that is too small for the batch is rejected.
	smallKey := commitment.NewMultiKey(g, n-1, bytestr.FromString("shuffle-commitment-key"))
	require.False(t, shuffle.Verify(g, smallKey, kp.PublicKey, inputs, outputs, proof).IsCorrect())

	// Mixed widths are rejected up front.
	mixed := append([]elgamal.MultiCiphertext[*big.Int](nil), inputs...)
	mixed[2] = elgamal.MultiCiphertext[*big.Int]{
		Ciphertexts: append(mixed[2].Ciphertexts, mixed[2].Ciphertexts[0]),
	}
	_, _, err = shuffle.Shuffle(g, kp.PublicKey, mixed)
	require.Error(t, err)
}

func Test_ShuffleProof_JSON(t *testing.T) {
	const n = 3
	g := secp256k1.NewGroup()
	codec := shuffle.Codec[secp256k1.Point]{Group: g}
	kp, err := elgamal.GenerateKeyPair[secp256k1.Point](g)
	require.NoError(t, err)
	ck := commitment.NewMultiKey[secp256k1.Point](g, n, bytestr.FromString("shuffle-commitment-key"))

	inputs := encryptBatch[secp256k1.Point](t, g, kp.PublicKey, n, 2)
	outputs, proof, err := shuffle.ShuffleAndProve[secp256k1.Point](g, ck, kp.PublicKey, inputs)
	require.NoError(t, err)

	data, err := codec.MarshalProof(proof)
	require.NoError(t, err)
	back, err := codec.UnmarshalProof(data)
	require.NoError(t, err)
	require.True(t, shuffle.Verify[secp256k1.Point](g, ck, kp.PublicKey, inputs, outputs, back).IsCorrect())
}
