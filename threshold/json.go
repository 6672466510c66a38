package threshold

import (
	"encoding/json"
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/zkp"
	"golang.org/x/xerrors"
)

// Codec serializes threshold carriers with group elements as lowercase hex
// and scalars as decimal strings.
type Codec[E any] struct {
	Group group.Group[E]
}

type decryptionShareJSON struct {
	Nr       int            `json:"nr"`
	DecShare string         `json:"decShare"`
	Zkp      zkp.EqlogProof `json:"zkp"`
}

// MarshalDecryptionShare renders {"nr", "decShare", "zkp"}.
func (c Codec[E]) MarshalDecryptionShare(ds DecryptionShare[E]) ([]byte, error) {
	return json.Marshal(decryptionShareJSON{
		Nr:       ds.Nr,
		DecShare: c.Group.ElementBytes(ds.Share).Hex(),
		Zkp:      ds.Proof,
	})
}

// UnmarshalDecryptionShare parses and validates the share element.
func (c Codec[E]) UnmarshalDecryptionShare(data []byte) (DecryptionShare[E], error) {
	var raw decryptionShareJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return DecryptionShare[E]{}, xerrors.Errorf("threshold: parsing decryption share: %v", err)
	}
	b, err := bytestr.FromHex(raw.DecShare)
	if err != nil {
		return DecryptionShare[E]{}, xerrors.Errorf("threshold: decryption share element: %v", err)
	}
	share, err := c.Group.ElementFromBytes(b)
	if err != nil {
		return DecryptionShare[E]{}, xerrors.Errorf("threshold: decryption share element: %v", err)
	}
	return DecryptionShare[E]{Nr: raw.Nr, Share: share, Proof: raw.Zkp}, nil
}

type privateKeyShareJSON struct {
	Nr         int    `json:"nr"`
	KeyShare   string `json:"keyShare"`
	Commitment string `json:"commitment"`
}

// MarshalPrivateKeyShare renders {"nr", "keyShare", "commitment"}.
func (c Codec[E]) MarshalPrivateKeyShare(ks PrivateKeyShare[E]) ([]byte, error) {
	return json.Marshal(privateKeyShareJSON{
		Nr:         ks.Nr,
		KeyShare:   ks.Share.String(),
		Commitment: c.Group.ElementBytes(ks.Public).Hex(),
	})
}

// UnmarshalPrivateKeyShare parses and validates the public commitment.
func (c Codec[E]) UnmarshalPrivateKeyShare(data []byte) (PrivateKeyShare[E], error) {
	var raw privateKeyShareJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return PrivateKeyShare[E]{}, xerrors.Errorf("threshold: parsing key share: %v", err)
	}
	share, ok := new(big.Int).SetString(raw.KeyShare, 10)
	if !ok {
		return PrivateKeyShare[E]{}, xerrors.Errorf("threshold: malformed key share %q", raw.KeyShare)
	}
	b, err := bytestr.FromHex(raw.Commitment)
	if err != nil {
		return PrivateKeyShare[E]{}, xerrors.Errorf("threshold: key share commitment: %v", err)
	}
	public, err := c.Group.ElementFromBytes(b)
	if err != nil {
		return PrivateKeyShare[E]{}, xerrors.Errorf("threshold: key share commitment: %v", err)
	}
	return PrivateKeyShare[E]{Nr: raw.Nr, Share: share, Public: public}, nil
}
