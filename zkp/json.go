package zkp

import (
	"encoding/json"
	"math/big"

	"golang.org/x/xerrors"
)

type proofJSON struct {
	C string `json:"c"`
	F string `json:"f"`
}

func marshalProof(c, f *big.Int) ([]byte, error) {
	return json.Marshal(proofJSON{C: c.String(), F: f.String()})
}

func unmarshalProof(data []byte) (*big.Int, *big.Int, error) {
	var raw proofJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, xerrors.Errorf("zkp: parsing proof: %v", err)
	}
	c, ok := new(big.Int).SetString(raw.C, 10)
	if !ok {
		return nil, nil, xerrors.Errorf("zkp: malformed challenge %q", raw.C)
	}
	f, ok := new(big.Int).SetString(raw.F, 10)
	if !ok {
		return nil, nil, xerrors.Errorf("zkp: malformed response %q", raw.F)
	}
	return c, f, nil
}

// MarshalJSON renders the proof as {"c": …, "f": …} decimal strings.
func (p DlogProof) MarshalJSON() ([]byte, error) {
	return marshalProof(p.C, p.F)
}

// UnmarshalJSON parses the decimal-string carrier.
func (p *DlogProof) UnmarshalJSON(data []byte) error {
	c, f, err := unmarshalProof(data)
	if err != nil {
		return err
	}
	p.C, p.F = c, f
	return nil
}

// MarshalJSON renders the proof as {"c": …, "f": …} decimal strings.
func (p EqlogProof) MarshalJSON() ([]byte, error) {
	return marshalProof(p.C, p.F)
}

// UnmarshalJSON parses the decimal-string carrier.
func (p *EqlogProof) UnmarshalJSON(data []byte) error {
	c, f, err := unmarshalProof(data)
	if err != nil {
		return err
	}
	p.C, p.F = c, f
	return nil
}
