package threshold

import (
	"math/big"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/openvote/cryptocore/group"
	"github.com/openvote/cryptocore/zkp"
	"golang.org/x/xerrors"
)

// Config fixes the threshold t and the teller count n, 1 <= t <= n.
type Config struct {
	Threshold int
	Tellers   int
}

// Validate checks the threshold bounds.
func (c Config) Validate() error {
	if c.Threshold < 1 || c.Threshold > c.Tellers {
		return ErrInvalidConfig
	}
	return nil
}

// PeerRecord is what teller k hands to teller l: its index, the share
// p_k(l), its blinded coefficients and one dlog proof per coefficient.
type PeerRecord[E any] struct {
	Producer    int
	Share       *big.Int
	Commitments []E
	Proofs      []zkp.DlogProof
}

// PrivateKeyShare is teller l's finalized key material: its index, the
// secret share y_l and the public commitment Y_l = g^{y_l}.
type PrivateKeyShare[E any] struct {
	Nr     int
	Share  *big.Int
	Public E
}

// Teller is one DKG participant: a private polynomial with its Feldman
// commitments and coefficient proofs. The ceremony id correlates log lines
// across tellers of one run.
type Teller[E any] struct {
	grp      group.Group[E]
	cfg      Config
	index    int
	ceremony string
	poly     *Polynomial

	commitments []E
	proofs      []zkp.DlogProof
}

// NewTeller draws teller k's polynomial of length t and commits to every
// coefficient.
func NewTeller[E any](g group.Group[E], cfg Config, index int) (*Teller[E], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if index < 1 || index > cfg.Tellers {
		return nil, ErrIndexOutOfRange
	}
	poly, err := RandomPolynomial(g.Order(), cfg.Threshold)
	if err != nil {
		return nil, err
	}
	t := &Teller[E]{
		grp:      g,
		cfg:      cfg,
		index:    index,
		ceremony: xid.New().String(),
		poly:     poly,
	}
	t.commitments = make([]E, poly.Length())
	t.proofs = make([]zkp.DlogProof, poly.Length())
	for i := 0; i < poly.Length(); i++ {
		coeff := poly.Coefficient(i)
		t.commitments[i] = g.Power(g.Generator(), coeff)
		proof, err := zkp.ProveDlog(g, coeff, t.commitments[i])
		if err != nil {
			return nil, xerrors.Errorf("threshold: committing coefficient %d: %v", i, err)
		}
		t.proofs[i] = proof
	}
	log.Debug().Str("ceremony", t.ceremony).Int("teller", index).
		Int("threshold", cfg.Threshold).Int("tellers", cfg.Tellers).
		Msg("teller key material generated")
	return t, nil
}

// Index returns the teller's 1-based index.
func (t *Teller[E]) Index() int {
	return t.index
}

// Ceremony returns the run-correlation id.
func (t *Teller[E]) Ceremony() string {
	return t.ceremony
}

// Commitments returns the blinded coefficients A[k,i] = g^{a_i}.
func (t *Teller[E]) Commitments() []E {
	out := make([]E, len(t.commitments))
	copy(out, t.commitments)
	return out
}

// Proofs returns the per-coefficient dlog proofs.
func (t *Teller[E]) Proofs() []zkp.DlogProof {
	out := make([]zkp.DlogProof, len(t.proofs))
	copy(out, t.proofs)
	return out
}

// ShareFor evaluates the teller's polynomial at peer l and packages the peer
// record.
func (t *Teller[E]) ShareFor(peer int) (PeerRecord[E], error) {
	if peer < 1 || peer > t.cfg.Tellers {
		return PeerRecord[E]{}, ErrIndexOutOfRange
	}
	return PeerRecord[E]{
		Producer:    t.index,
		Share:       t.poly.Evaluate(int64(peer)),
		Commitments: t.Commitments(),
		Proofs:      t.Proofs(),
	}, nil
}

// Finalize consumes exactly n-1 peer records from distinct producers and
// returns the teller's private key share, or an error naming the offending
// peer. Every coefficient proof is verified and every share is checked
// against the Feldman equation g^{share} == prod A[k,i]^{l^i}.
func (t *Teller[E]) Finalize(records []PeerRecord[E]) (*PrivateKeyShare[E], error) {
	if len(records) != t.cfg.Tellers-1 {
		return nil, xerrors.Errorf("got %d records, want %d: %w",
			len(records), t.cfg.Tellers-1, ErrWrongRecordCount)
	}
	seen := make(map[int]bool, len(records))
	sum := t.poly.Evaluate(int64(t.index))
	for _, rec := range records {
		if rec.Producer < 1 || rec.Producer > t.cfg.Tellers || rec.Producer == t.index {
			return nil, xerrors.Errorf("producer %d: %w", rec.Producer, ErrIndexOutOfRange)
		}
		if seen[rec.Producer] {
			return nil, xerrors.Errorf("producer %d: %w", rec.Producer, ErrDuplicateProducer)
		}
		seen[rec.Producer] = true
		if err := t.verifyRecord(rec); err != nil {
			log.Warn().Str("ceremony", t.ceremony).Int("teller", t.index).
				Int("producer", rec.Producer).Err(err).Msg("rejecting peer record")
			return nil, err
		}
		sum.Add(sum, rec.Share)
	}
	sum.Mod(sum, t.grp.Order())
	log.Debug().Str("ceremony", t.ceremony).Int("teller", t.index).
		Msg("finalized key share")
	return &PrivateKeyShare[E]{
		Nr:     t.index,
		Share:  sum,
		Public: t.grp.Power(t.grp.Generator(), sum),
	}, nil
}

func (t *Teller[E]) verifyRecord(rec PeerRecord[E]) error {
	// Commitment and proof counts must agree with each other and with the
	// threshold.
	if len(rec.Commitments) != len(rec.Proofs) || len(rec.Commitments) != t.cfg.Threshold {
		return xerrors.Errorf("threshold: teller %d sent %d commitments and %d proofs, want %d of each",
			rec.Producer, len(rec.Commitments), len(rec.Proofs), t.cfg.Threshold)
	}
	for i, comm := range rec.Commitments {
		if !t.grp.IsGroupElement(comm) {
			return xerrors.Errorf("threshold: teller %d: coefficient %d is not a group element",
				rec.Producer, i)
		}
		if res := zkp.VerifyDlog(t.grp, comm, rec.Proofs[i]); !res.IsCorrect() {
			return xerrors.Errorf("threshold: teller %d: coefficient %d proof: %s",
				rec.Producer, i, res.Reason())
		}
	}
	if rec.Share == nil || rec.Share.Sign() < 0 || rec.Share.Cmp(t.grp.Order()) >= 0 {
		return xerrors.Errorf("threshold: teller %d: share outside [0, q)", rec.Producer)
	}
	expect, err := feldmanProduct(t.grp, rec.Commitments, t.index)
	if err != nil {
		return xerrors.Errorf("threshold: teller %d: %v", rec.Producer, err)
	}
	actual := t.grp.Power(t.grp.Generator(), rec.Share)
	if !t.grp.Equal(actual, expect) {
		return xerrors.Errorf("threshold: teller %d: share does not match its coefficient commitments",
			rec.Producer)
	}
	return nil
}

// feldmanProduct computes prod_i A[i]^{l^i}.
func feldmanProduct[E any](g group.Group[E], commitments []E, l int) (E, error) {
	exps := make([]*big.Int, len(commitments))
	li := big.NewInt(int64(l))
	pow := big.NewInt(1)
	for i := range commitments {
		exps[i] = new(big.Int).Set(pow)
		pow = new(big.Int).Mul(pow, li)
	}
	return group.PowerProduct(g, commitments, exps)
}

// CombinedPublicKey multiplies the constant-term commitments of all n
// tellers into the election public key Y_0 = prod A[k,0].
func CombinedPublicKey[E any](g group.Group[E], cfg Config, coefficientSets [][]E) (E, error) {
	var zero E
	if err := cfg.Validate(); err != nil {
		return zero, err
	}
	if len(coefficientSets) != cfg.Tellers {
		return zero, xerrors.Errorf("threshold: %d coefficient sets, want %d",
			len(coefficientSets), cfg.Tellers)
	}
	acc := g.Identity()
	for k, set := range coefficientSets {
		if len(set) == 0 {
			return zero, xerrors.Errorf("threshold: teller %d published no coefficients", k+1)
		}
		acc = g.Multiply(acc, set[0])
	}
	return acc, nil
}

// PublicKeyShare recomputes teller l's public commitment Y_l from the global
// coefficient commitments: prod_k prod_i A[k,i]^{l^i}.
func PublicKeyShare[E any](g group.Group[E], coefficientSets [][]E, l int) (E, error) {
	var zero E
	if l < 1 || l > len(coefficientSets) {
		return zero, ErrIndexOutOfRange
	}
	acc := g.Identity()
	for _, set := range coefficientSets {
		part, err := feldmanProduct(g, set, l)
		if err != nil {
			return zero, err
		}
		acc = g.Multiply(acc, part)
	}
	return acc, nil
}
