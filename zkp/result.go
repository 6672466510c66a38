// Package zkp implements the Fiat-Shamir non-interactive zero-knowledge
// proofs used across the library: knowledge of a discrete logarithm, equality
// of discrete logarithms under two bases, and correct ElGamal decryption.
// Verification outcomes are the two-constructor VerificationResult instead of
// errors, so checks compose and short-circuit.
package zkp

import (
	"fmt"

	"golang.org/x/xerrors"
)

// VerificationResult is either Correct or Failed with a reason.
type VerificationResult struct {
	failed bool
	reason string
}

// Correct is the passing result.
func Correct() VerificationResult {
	return VerificationResult{}
}

// Failed builds a failing result with a formatted reason.
func Failed(format string, args ...interface{}) VerificationResult {
	return VerificationResult{failed: true, reason: fmt.Sprintf(format, args...)}
}

// Check maps a condition to Correct or Failed(reason).
func Check(ok bool, format string, args ...interface{}) VerificationResult {
	if ok {
		return Correct()
	}
	return Failed(format, args...)
}

// IsCorrect reports whether the result passes.
func (r VerificationResult) IsCorrect() bool {
	return !r.failed
}

// Reason returns the failure reason, empty when correct.
func (r VerificationResult) Reason() string {
	return r.reason
}

// AndExpect keeps the first failure: when r is correct the condition is
// evaluated, otherwise r propagates unchanged.
func (r VerificationResult) AndExpect(ok bool, format string, args ...interface{}) VerificationResult {
	if r.failed {
		return r
	}
	return Check(ok, format, args...)
}

// AndThen chains a further verification, short-circuiting on failure.
func (r VerificationResult) AndThen(next func() VerificationResult) VerificationResult {
	if r.failed {
		return r
	}
	return next()
}

// OnFailure invokes fn with the reason when r failed; r passes through.
func (r VerificationResult) OnFailure(fn func(reason string)) VerificationResult {
	if r.failed {
		fn(r.reason)
	}
	return r
}

// Expect converts a failing result into an error.
func (r VerificationResult) Expect() error {
	if r.failed {
		return xerrors.Errorf("verification failed: %s", r.reason)
	}
	return nil
}

// Combine returns the first failing result, or Correct.
func Combine(results ...VerificationResult) VerificationResult {
	for _, r := range results {
		if r.failed {
			return r
		}
	}
	return Correct()
}
