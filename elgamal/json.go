package elgamal

import (
	"encoding/json"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"golang.org/x/xerrors"
)

// Codec serializes ciphertext carriers as JSON with group elements rendered
// as lowercase hex of their canonical bytes.
type Codec[E any] struct {
	Group group.Group[E]
}

type ciphertextJSON struct {
	X string `json:"x"`
	Y string `json:"y"`
}

type multiCiphertextJSON struct {
	Ciphertexts []ciphertextJSON  `json:"ciphertexts"`
	AuxData     map[string]string `json:"auxData,omitempty"`
}

// MarshalCiphertext renders c as {"x": …, "y": …}.
func (c Codec[E]) MarshalCiphertext(ct Ciphertext[E]) ([]byte, error) {
	return json.Marshal(ciphertextJSON{
		X: c.Group.ElementBytes(ct.X).Hex(),
		Y: c.Group.ElementBytes(ct.Y).Hex(),
	})
}

// UnmarshalCiphertext parses and validates both components.
func (c Codec[E]) UnmarshalCiphertext(data []byte) (Ciphertext[E], error) {
	var raw ciphertextJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Ciphertext[E]{}, xerrors.Errorf("elgamal: parsing ciphertext: %v", err)
	}
	return c.ciphertextFromJSON(raw)
}

func (c Codec[E]) ciphertextFromJSON(raw ciphertextJSON) (Ciphertext[E], error) {
	xb, err := bytestr.FromHex(raw.X)
	if err != nil {
		return Ciphertext[E]{}, xerrors.Errorf("elgamal: ciphertext x: %v", err)
	}
	yb, err := bytestr.FromHex(raw.Y)
	if err != nil {
		return Ciphertext[E]{}, xerrors.Errorf("elgamal: ciphertext y: %v", err)
	}
	x, err := c.Group.ElementFromBytes(xb)
	if err != nil {
		return Ciphertext[E]{}, xerrors.Errorf("elgamal: ciphertext x: %v", err)
	}
	y, err := c.Group.ElementFromBytes(yb)
	if err != nil {
		return Ciphertext[E]{}, xerrors.Errorf("elgamal: ciphertext y: %v", err)
	}
	return Ciphertext[E]{X: x, Y: y}, nil
}

// MarshalMultiCiphertext renders the ciphertext sequence with its aux data.
func (c Codec[E]) MarshalMultiCiphertext(mc MultiCiphertext[E]) ([]byte, error) {
	out := multiCiphertextJSON{
		Ciphertexts: make([]ciphertextJSON, mc.Width()),
		AuxData:     mc.AuxData,
	}
	for i, ct := range mc.Ciphertexts {
		out.Ciphertexts[i] = ciphertextJSON{
			X: c.Group.ElementBytes(ct.X).Hex(),
			Y: c.Group.ElementBytes(ct.Y).Hex(),
		}
	}
	return json.Marshal(out)
}

// UnmarshalMultiCiphertext parses and validates every component.
func (c Codec[E]) UnmarshalMultiCiphertext(data []byte) (MultiCiphertext[E], error) {
	var raw multiCiphertextJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return MultiCiphertext[E]{}, xerrors.Errorf("elgamal: parsing multi-ciphertext: %v", err)
	}
	out := MultiCiphertext[E]{
		Ciphertexts: make([]Ciphertext[E], len(raw.Ciphertexts)),
		AuxData:     raw.AuxData,
	}
	for i, rc := range raw.Ciphertexts {
		ct, err := c.ciphertextFromJSON(rc)
		if err != nil {
			return MultiCiphertext[E]{}, xerrors.Errorf("elgamal: ciphertext %d: %v", i, err)
		}
		out.Ciphertexts[i] = ct
	}
	return out, nil
}
