// Package elgamal implements ElGamal encryption over any group satisfying
// the group contract, together with the chunked message codec that splits
// arbitrary byte strings across a sequence of ciphertexts.
package elgamal

import (
	"math/big"

	"github.com/openvote/cryptocore/group"
	"golang.org/x/xerrors"
)

// Ciphertext is an ElGamal pair (x, y) = (g^r, m * pk^r).
type Ciphertext[E any] struct {
	X E
	Y E
}

// MultiCiphertext is an ordered sequence of ciphertexts carrying one logical
// plaintext, with optional auxiliary metadata that is opaque to the core and
// preserved through re-encryption shuffles.
type MultiCiphertext[E any] struct {
	Ciphertexts []Ciphertext[E]
	AuxData     map[string]string
}

// Width returns the number of ciphertexts.
func (m MultiCiphertext[E]) Width() int {
	return len(m.Ciphertexts)
}

// KeyPair holds an ElGamal key: sk uniform in [1, q), pk = g^sk.
type KeyPair[E any] struct {
	SecretKey *big.Int
	PublicKey E
}

// GenerateKeyPair draws a fresh ElGamal key.
func GenerateKeyPair[E any](g group.Group[E]) (KeyPair[E], error) {
	sk, err := group.RandomUnit(g)
	if err != nil {
		return KeyPair[E]{}, xerrors.Errorf("elgamal: generating key: %v", err)
	}
	return KeyPair[E]{SecretKey: sk, PublicKey: g.Power(g.Generator(), sk)}, nil
}

// Encrypt encrypts message m under pk with a fresh coin r in [1, q) and
// returns the ciphertext together with the coin.
func Encrypt[E any](g group.Group[E], pk E, m *big.Int) (Ciphertext[E], *big.Int, error) {
	r, err := group.RandomUnit(g)
	if err != nil {
		return Ciphertext[E]{}, nil, xerrors.Errorf("elgamal: drawing coin: %v", err)
	}
	ct, err := EncryptWithCoin(g, pk, m, r)
	if err != nil {
		return Ciphertext[E]{}, nil, err
	}
	return ct, r, nil
}

// EncryptWithCoin encrypts m under pk using the caller's coin.
func EncryptWithCoin[E any](g group.Group[E], pk E, m *big.Int, r *big.Int) (Ciphertext[E], error) {
	encoded, err := g.Encode(m)
	if err != nil {
		return Ciphertext[E]{}, xerrors.Errorf("elgamal: encoding message: %v", err)
	}
	return Ciphertext[E]{
		X: g.Power(g.Generator(), r),
		Y: g.Multiply(encoded, g.Power(pk, r)),
	}, nil
}

// Decrypt recovers the message: decode(y * (x^sk)^-1).
func Decrypt[E any](g group.Group[E], sk *big.Int, c Ciphertext[E]) *big.Int {
	blind := g.Invert(g.Power(c.X, sk))
	return g.Decode(g.Multiply(c.Y, blind))
}

// ReRandomize multiplies c by an encryption of the identity with coin r,
// producing an equivalent ciphertext under fresh randomness.
func ReRandomize[E any](g group.Group[E], c Ciphertext[E], pk E, r *big.Int) Ciphertext[E] {
	return Ciphertext[E]{
		X: g.Multiply(c.X, g.Power(g.Generator(), r)),
		Y: g.Multiply(c.Y, g.Power(pk, r)),
	}
}

// EncryptChunks encrypts a byte string by chunking it into group messages and
// encrypting each block, producing a multi-ciphertext.
func EncryptChunks[E any](g group.Group[E], pk E, msg []byte) (MultiCiphertext[E], error) {
	blocks := EncodeChunks(g.MessageUpperBound(), msg)
	out := MultiCiphertext[E]{Ciphertexts: make([]Ciphertext[E], len(blocks))}
	for i, b := range blocks {
		ct, _, err := Encrypt(g, pk, b)
		if err != nil {
			return MultiCiphertext[E]{}, xerrors.Errorf("elgamal: block %d: %v", i, err)
		}
		out.Ciphertexts[i] = ct
	}
	return out, nil
}

// DecryptChunks inverts EncryptChunks.
func DecryptChunks[E any](g group.Group[E], sk *big.Int, mc MultiCiphertext[E]) ([]byte, error) {
	blocks := make([]*big.Int, mc.Width())
	for i, ct := range mc.Ciphertexts {
		blocks[i] = Decrypt(g, sk, ct)
	}
	return DecodeChunks(g.MessageUpperBound(), blocks)
}
