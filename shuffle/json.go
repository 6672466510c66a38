package shuffle

import (
	"encoding/json"
	"math/big"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/group"
	"golang.org/x/xerrors"
)

// Codec serializes shuffle proofs with elements as lowercase hex and scalars
// as decimal strings.
type Codec[E any] struct {
	Group group.Group[E]
}

type proofJSON struct {
	T    tupleTJSON `json:"t"`
	S    tupleSJSON `json:"s"`
	C    []string   `json:"c"`
	CHat []string   `json:"cHat"`
}

type tupleTJSON struct {
	T1   string   `json:"t1"`
	T2   string   `json:"t2"`
	T3   string   `json:"t3"`
	T4X  []string `json:"t4x"`
	T4Y  []string `json:"t4y"`
	THat []string `json:"tHat"`
}

type tupleSJSON struct {
	S1     string   `json:"s1"`
	S2     string   `json:"s2"`
	S3     string   `json:"s3"`
	S4     []string `json:"s4"`
	SHat   []string `json:"sHat"`
	SPrime []string `json:"sPrime"`
}

func (c Codec[E]) hexElements(es []E) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = c.Group.ElementBytes(e).Hex()
	}
	return out
}

func decimalScalars(xs []*big.Int) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.String()
	}
	return out
}

// MarshalProof renders the proof carrier.
func (c Codec[E]) MarshalProof(p *Proof[E]) ([]byte, error) {
	return json.Marshal(proofJSON{
		T: tupleTJSON{
			T1:   c.Group.ElementBytes(p.T1).Hex(),
			T2:   c.Group.ElementBytes(p.T2).Hex(),
			T3:   c.Group.ElementBytes(p.T3).Hex(),
			T4X:  c.hexElements(p.T4X),
			T4Y:  c.hexElements(p.T4Y),
			THat: c.hexElements(p.THat),
		},
		S: tupleSJSON{
			S1:     p.S1.String(),
			S2:     p.S2.String(),
			S3:     p.S3.String(),
			S4:     decimalScalars(p.S4),
			SHat:   decimalScalars(p.SHat),
			SPrime: decimalScalars(p.SPrime),
		},
		C:    c.hexElements(p.C),
		CHat: c.hexElements(p.CHat),
	})
}

func (c Codec[E]) elementsFromHex(hs []string) ([]E, error) {
	out := make([]E, len(hs))
	for i, h := range hs {
		b, err := bytestr.FromHex(h)
		if err != nil {
			return nil, xerrors.Errorf("shuffle: element %d: %v", i, err)
		}
		e, err := c.Group.ElementFromBytes(b)
		if err != nil {
			return nil, xerrors.Errorf("shuffle: element %d: %v", i, err)
		}
		out[i] = e
	}
	return out, nil
}

func scalarsFromDecimal(hs []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(hs))
	for i, h := range hs {
		v, ok := new(big.Int).SetString(h, 10)
		if !ok {
			return nil, xerrors.Errorf("shuffle: malformed scalar %q", h)
		}
		out[i] = v
	}
	return out, nil
}

// UnmarshalProof parses and validates every element of the carrier.
func (c Codec[E]) UnmarshalProof(data []byte) (*Proof[E], error) {
	var raw proofJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, xerrors.Errorf("shuffle: parsing proof: %v", err)
	}
	single := func(h string) (E, error) {
		es, err := c.elementsFromHex([]string{h})
		if err != nil {
			var zero E
			return zero, err
		}
		return es[0], nil
	}
	out := &Proof[E]{}
	var err error
	if out.T1, err = single(raw.T.T1); err != nil {
		return nil, err
	}
	if out.T2, err = single(raw.T.T2); err != nil {
		return nil, err
	}
	if out.T3, err = single(raw.T.T3); err != nil {
		return nil, err
	}
	if out.T4X, err = c.elementsFromHex(raw.T.T4X); err != nil {
		return nil, err
	}
	if out.T4Y, err = c.elementsFromHex(raw.T.T4Y); err != nil {
		return nil, err
	}
	if out.THat, err = c.elementsFromHex(raw.T.THat); err != nil {
		return nil, err
	}
	if out.C, err = c.elementsFromHex(raw.C); err != nil {
		return nil, err
	}
	if out.CHat, err = c.elementsFromHex(raw.CHat); err != nil {
		return nil, err
	}
	s1, ok := new(big.Int).SetString(raw.S.S1, 10)
	if !ok {
		return nil, xerrors.Errorf("shuffle: malformed scalar %q", raw.S.S1)
	}
	s2, ok := new(big.Int).SetString(raw.S.S2, 10)
	if !ok {
		return nil, xerrors.Errorf("shuffle: malformed scalar %q", raw.S.S2)
	}
	s3, ok := new(big.Int).SetString(raw.S.S3, 10)
	if !ok {
		return nil, xerrors.Errorf("shuffle: malformed scalar %q", raw.S.S3)
	}
	out.S1, out.S2, out.S3 = s1, s2, s3
	if out.S4, err = scalarsFromDecimal(raw.S.S4); err != nil {
		return nil, err
	}
	if out.SHat, err = scalarsFromDecimal(raw.S.SHat); err != nil {
		return nil, err
	}
	if out.SPrime, err = scalarsFromDecimal(raw.S.SPrime); err != nil {
		return nil, err
	}
	return out, nil
}
