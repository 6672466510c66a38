// Package ecies provides the auxiliary transport encryption used around the
// core: an ECIES construction over secp256k1 with AES-GCM, and the
// deterministic key-wrap mask kept for storage interoperability.
package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/group/secp256k1"
	"golang.org/x/xerrors"
)

const (
	pointLen = 33
	gcmIVLen = 12
)

// deriveKey hashes the ephemeral key, the shared secret and the recipient
// key into the AES key: SHA-256(Y || Z || pk).
func deriveKey(g *secp256k1.Group, ephemeral, shared, pk secp256k1.Point) []byte {
	h := sha256.New()
	h.Write(g.ElementBytes(ephemeral))
	h.Write(g.ElementBytes(shared))
	h.Write(g.ElementBytes(pk))
	return h.Sum(nil)
}

// sealBody encrypts with AES-GCM under a zero IV. The key is unique per
// message (fresh ephemeral scalar), which is what makes the fixed IV sound.
func sealBody(key, body []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, xerrors.Errorf("ecies: building cipher: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, xerrors.Errorf("ecies: building GCM: %v", err)
	}
	iv := make([]byte, gcmIVLen)
	return gcm.Seal(nil, iv, body, nil), nil
}

func openBody(key, body []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, xerrors.Errorf("ecies: building cipher: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, xerrors.Errorf("ecies: building GCM: %v", err)
	}
	iv := make([]byte, gcmIVLen)
	out, err := gcm.Open(nil, iv, body, nil)
	if err != nil {
		return nil, xerrors.Errorf("ecies: opening body: %v", err)
	}
	return out, nil
}

// Encrypt seals body for the holder of pk. The layout is the 33-byte
// ephemeral point followed by the GCM ciphertext.
func Encrypt(g *secp256k1.Group, pk secp256k1.Point, body []byte) ([]byte, error) {
	y, err := group.RandomUnit[secp256k1.Point](g)
	if err != nil {
		return nil, xerrors.Errorf("ecies: drawing ephemeral scalar: %v", err)
	}
	ephemeral := g.Power(g.Generator(), y)
	shared := g.Power(pk, y)
	key := deriveKey(g, ephemeral, shared, pk)
	sealed, err := sealBody(key, body)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, pointLen+len(sealed))
	out = append(out, g.ElementBytes(ephemeral)...)
	return append(out, sealed...), nil
}

// Decrypt inverts Encrypt with the recipient secret key.
func Decrypt(g *secp256k1.Group, sk *big.Int, blob []byte) ([]byte, error) {
	if len(blob) < pointLen {
		return nil, xerrors.Errorf("ecies: ciphertext of %d bytes cannot carry a point", len(blob))
	}
	ephemeral, err := g.ElementFromBytes(bytestr.ByteString(blob[:pointLen]))
	if err != nil {
		return nil, xerrors.Errorf("ecies: ephemeral point: %v", err)
	}
	pk := g.Power(g.Generator(), sk)
	shared := g.Power(ephemeral, sk)
	key := deriveKey(g, ephemeral, shared, pk)
	return openBody(key, blob[pointLen:])
}

// MaskDeterministic XORs data with the SHA-256 hash of seed repeated to
// length. The construction is deliberately deterministic and carries no
// IND-CCA claim; it exists for interoperability with stored key material.
// Applying it twice with the same seed restores the input.
func MaskDeterministic(seed, data []byte) []byte {
	digest := sha256.Sum256(seed)
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ digest[i%len(digest)]
	}
	return out
}
