package schnorr

import (
	"math/big"
	"strings"
	"sync"

	"github.com/openvote/cryptocore/bytestr"
	"github.com/openvote/cryptocore/kdf"
)

// RFC 3526 MODP primes. All are safe primes congruent to 7 mod 8, so 2 is a
// quadratic residue generating the subgroup of order (p-1)/2.
const (
	hex1536 = `
	FFFFFFFF FFFFFFFF C90FDAA2 2168C234 C4C6628B 80DC1CD1
	29024E08 8A67CC74 020BBEA6 3B139B22 514A0879 8E3404DD
	EF9519B3 CD3A431B 302B0A6D F25F1437 4FE1356D 6D51C245
	E485B576 625E7EC6 F44C42E9 A637ED6B 0BFF5CB6 F406B7ED
	EE386BFB 5A899FA5 AE9F2411 7C4B1FE6 49286651 ECE45B3D
	C2007CB8 A163BF05 98DA4836 1C55D39A 69163FA8 FD24CF5F
	83655D23 DCA3AD96 1C62F356 208552BB 9ED52907 7096966D
	670C354E 4ABC9804 F1746C08 CA237327 FFFFFFFF FFFFFFFF`

	hex2048 = `
	FFFFFFFF FFFFFFFF C90FDAA2 2168C234 C4C6628B 80DC1CD1
	29024E08 8A67CC74 020BBEA6 3B139B22 514A0879 8E3404DD
	EF9519B3 CD3A431B 302B0A6D F25F1437 4FE1356D 6D51C245
	E485B576 625E7EC6 F44C42E9 A637ED6B 0BFF5CB6 F406B7ED
	EE386BFB 5A899FA5 AE9F2411 7C4B1FE6 49286651 ECE45B3D
	C2007CB8 A163BF05 98DA4836 1C55D39A 69163FA8 FD24CF5F
	83655D23 DCA3AD96 1C62F356 208552BB 9ED52907 7096966D
	670C354E 4ABC9804 F1746C08 CA18217C 32905E46 2E36CE3B
	E39E772C 180E8603 9B2783A2 EC07A28F B5C55DF0 6F4C52C9
	DE2BCBF6 95581718 3995497C EA956AE5 15D22618 98FA0510
	15728E5A 8AACAA68 FFFFFFFF FFFFFFFF`

	hex3072 = `
	FFFFFFFF FFFFFFFF C90FDAA2 2168C234 C4C6628B 80DC1CD1
	29024E08 8A67CC74 020BBEA6 3B139B22 514A0879 8E3404DD
	EF9519B3 CD3A431B 302B0A6D F25F1437 4FE1356D 6D51C245
	E485B576 625E7EC6 F44C42E9 A637ED6B 0BFF5CB6 F406B7ED
	EE386BFB 5A899FA5 AE9F2411 7C4B1FE6 49286651 ECE45B3D
	C2007CB8 A163BF05 98DA4836 1C55D39A 69163FA8 FD24CF5F
	83655D23 DCA3AD96 1C62F356 208552BB 9ED52907 7096966D
	670C354E 4ABC9804 F1746C08 CA18217C 32905E46 2E36CE3B
	E39E772C 180E8603 9B2783A2 EC07A28F B5C55DF0 6F4C52C9
	DE2BCBF6 95581718 3995497C EA956AE5 15D22618 98FA0510
	15728E5A 8AAAC42D AD33170D 04507A33 A85521AB DF1CBA64
	ECFB8504 58DBEF0A 8AEA7157 5D060C7D B3970F85 A6E1E4C7
	ABF5AE8C DB0933D7 1E8C94E0 4A25619D CEE3D226 1AD2EE6B
	F12FFA06 D98A0864 D8760273 3EC86A64 521F2B18 177B200C
	BBE11757 7A615D6C 770988C0 BAD946E2 08E24FA0 74E5AB31
	43DB5BFC E0FD108E 4B82D120 A93AD2CA FFFFFFFF FFFFFFFF`
)

func mustGroup(hexModulus string) *Group {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, hexModulus)
	p, ok := new(big.Int).SetString(cleaned, 16)
	if !ok {
		panic("schnorr: malformed predefined modulus")
	}
	g, err := New(p, big.NewInt(2))
	if err != nil {
		panic(err)
	}
	return g
}

var (
	once1536, once2048, once3072, once512 sync.Once
	grp1536, grp2048, grp3072, grp512    *Group
)

// Predefined1536 returns the group over the RFC 3526 1536-bit MODP prime.
func Predefined1536() *Group {
	once1536.Do(func() { grp1536 = mustGroup(hex1536) })
	return grp1536
}

// Predefined2048 returns the group over the RFC 3526 2048-bit MODP prime.
func Predefined2048() *Group {
	once2048.Do(func() { grp2048 = mustGroup(hex2048) })
	return grp2048
}

// Predefined3072 returns the group over the RFC 3526 3072-bit MODP prime.
func Predefined3072() *Group {
	once3072.Do(func() { grp3072 = mustGroup(hex3072) })
	return grp3072
}

// Predefined512 returns a 512-bit test group. There is no published MODP
// prime at this size, so the safe prime is derived deterministically from a
// fixed seed: candidates stream from the KDF, the top and low bits are
// forced, and the first q with q and 2q+1 both prime wins. The derivation
// runs once per process.
func Predefined512() *Group {
	once512.Do(func() {
		bound := new(big.Int).Lsh(big.NewInt(1), 511)
		stream := kdf.NewNumberStream(bound, bytestr.FromString("schnorr-group-512"))
		topBit := new(big.Int).Lsh(big.NewInt(1), 510)
		for {
			q := stream.Next()
			q.Or(q, topBit)
			q.SetBit(q, 0, 1)
			if !q.ProbablyPrime(20) {
				continue
			}
			p := new(big.Int).Lsh(q, 1)
			p.Add(p, big.NewInt(1))
			if !p.ProbablyPrime(20) {
				continue
			}
			// 4 is a square, hence a generator of the residue subgroup.
			g, err := New(p, big.NewInt(4))
			if err != nil {
				continue
			}
			grp512 = g
			return
		}
	})
	return grp512
}
