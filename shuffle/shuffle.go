package shuffle

import (
	"math/big"

	"github.com/openvote/cryptocore/elgamal"
	"github.com/openvote/cryptocore/group"
	"golang.org/x/xerrors"
)

// Witness is the prover's secret shuffle data: the permutation and the
// re-encryption coins rho[i][j].
type Witness struct {
	Perm  *Permutation
	Coins [][]*big.Int
}

// uniformWidth checks that every multi-ciphertext has the same width.
func uniformWidth[E any](batch []elgamal.MultiCiphertext[E]) (int, error) {
	if len(batch) == 0 {
		return 0, xerrors.New("shuffle: empty batch")
	}
	width := batch[0].Width()
	if width == 0 {
		return 0, xerrors.New("shuffle: zero-width multi-ciphertext")
	}
	for i, mc := range batch {
		if mc.Width() != width {
			return 0, xerrors.Errorf("shuffle: multi-ciphertext %d has width %d, batch width is %d",
				i, mc.Width(), width)
		}
	}
	return width, nil
}

// Shuffle re-encrypts every ciphertext with a fresh coin in [2, q) and
// reorders the batch by a random permutation: output position i carries the
// re-encryption of input pi^-1(i). Auxiliary metadata follows its
// multi-ciphertext.
func Shuffle[E any](g group.Group[E], pk E, inputs []elgamal.MultiCiphertext[E]) ([]elgamal.MultiCiphertext[E], *Witness, error) {
	width, err := uniformWidth(inputs)
	if err != nil {
		return nil, nil, err
	}
	n := len(inputs)

	coins := make([][]*big.Int, n)
	reencrypted := make([]elgamal.MultiCiphertext[E], n)
	for i, mc := range inputs {
		coins[i] = make([]*big.Int, width)
		cts := make([]elgamal.Ciphertext[E], width)
		for j, ct := range mc.Ciphertexts {
			r, err := group.RandomExponentMin(g, 2)
			if err != nil {
				return nil, nil, xerrors.Errorf("shuffle: drawing coin: %v", err)
			}
			coins[i][j] = r
			cts[j] = elgamal.ReRandomize(g, ct, pk, r)
		}
		reencrypted[i] = elgamal.MultiCiphertext[E]{Ciphertexts: cts, AuxData: copyAux(mc.AuxData)}
	}

	perm, err := RandomPermutation(n)
	if err != nil {
		return nil, nil, err
	}
	outputs := make([]elgamal.MultiCiphertext[E], n)
	for i := range outputs {
		outputs[i] = reencrypted[perm.Inv(i)]
	}
	return outputs, &Witness{Perm: perm, Coins: coins}, nil
}

func copyAux(aux map[string]string) map[string]string {
	if aux == nil {
		return nil
	}
	out := make(map[string]string, len(aux))
	for k, v := range aux {
		out[k] = v
	}
	return out
}
