// Package threshold implements verifiable distributed key generation and
// threshold decryption: each teller deals a random polynomial with Feldman
// coefficient commitments and per-coefficient dlog proofs, shares evaluate at
// teller indices, and any t verified decryption shares combine through
// Lagrange interpolation at zero.
package threshold

import "golang.org/x/xerrors"

// Protocol-misuse errors callers may branch on.
var (
	// ErrInvalidConfig indicates a threshold outside 1 <= t <= n.
	ErrInvalidConfig = xerrors.New("threshold: config must satisfy 1 <= threshold <= tellers")

	// ErrIndexOutOfRange indicates a teller index outside [1, n].
	ErrIndexOutOfRange = xerrors.New("threshold: teller index out of range")

	// ErrWrongRecordCount indicates finalization with anything but n-1 peer
	// records.
	ErrWrongRecordCount = xerrors.New("threshold: finalization needs exactly n-1 peer records")

	// ErrDuplicateProducer indicates two peer records from one producer.
	ErrDuplicateProducer = xerrors.New("threshold: duplicate peer record producer")

	// ErrTooFewShares indicates a combination attempt below the threshold.
	ErrTooFewShares = xerrors.New("threshold: fewer shares than the threshold")

	// ErrDuplicateShare indicates two decryption shares with one index.
	ErrDuplicateShare = xerrors.New("threshold: duplicate decryption share index")
)
