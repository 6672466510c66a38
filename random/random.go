// Package random wraps the process-global cryptographically-secure random
// source. Draw counters are incremented around every sample so callers can
// observe potential entropy starvation, and a single interceptor can be
// installed to observe sampled values in tests.
package random

import (
	cryptorand "crypto/rand"
	"math/big"
	"sync"
	"sync/atomic"

	"golang.org/x/xerrors"
)

var (
	beginCount uint64
	endCount   uint64

	interceptorMu sync.Mutex
	interceptor   func(*big.Int)
)

// BeginCount returns the number of draws started so far.
func BeginCount() uint64 {
	return atomic.LoadUint64(&beginCount)
}

// EndCount returns the number of draws completed so far.
func EndCount() uint64 {
	return atomic.LoadUint64(&endCount)
}

// SetInterceptor installs fn to observe every sampled integer. Installing a
// second interceptor is a hard error.
func SetInterceptor(fn func(*big.Int)) error {
	interceptorMu.Lock()
	defer interceptorMu.Unlock()
	if interceptor != nil {
		return xerrors.New("random: interceptor already installed")
	}
	interceptor = fn
	return nil
}

// ClearInterceptor removes the installed interceptor. Clearing when none is
// installed is a no-op.
func ClearInterceptor() {
	interceptorMu.Lock()
	defer interceptorMu.Unlock()
	interceptor = nil
}

func observe(v *big.Int) {
	interceptorMu.Lock()
	fn := interceptor
	interceptorMu.Unlock()
	if fn != nil {
		fn(v)
	}
}

// Int draws a uniform integer in [0, max). max must be positive.
func Int(max *big.Int) (*big.Int, error) {
	if max.Sign() <= 0 {
		return nil, xerrors.Errorf("random: upper bound must be positive, got %v", max)
	}
	atomic.AddUint64(&beginCount, 1)
	v, err := cryptorand.Int(cryptorand.Reader, max)
	atomic.AddUint64(&endCount, 1)
	if err != nil {
		return nil, xerrors.Errorf("random: drawing integer: %v", err)
	}
	observe(v)
	return v, nil
}

// IntRange draws a uniform integer in [min, max).
func IntRange(min, max *big.Int) (*big.Int, error) {
	if min.Cmp(max) >= 0 {
		return nil, xerrors.Errorf("random: empty range [%v, %v)", min, max)
	}
	span := new(big.Int).Sub(max, min)
	v, err := Int(span)
	if err != nil {
		return nil, err
	}
	return v.Add(v, min), nil
}

// Bytes draws n random bytes.
func Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, xerrors.Errorf("random: negative length %d", n)
	}
	atomic.AddUint64(&beginCount, 1)
	out := make([]byte, n)
	_, err := cryptorand.Read(out)
	atomic.AddUint64(&endCount, 1)
	if err != nil {
		return nil, xerrors.Errorf("random: reading bytes: %v", err)
	}
	observe(new(big.Int).SetBytes(out))
	return out, nil
}
