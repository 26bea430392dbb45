package gfx

import (
	"math"
	"math/big"
	"math/bits"
)

// The rasterizers only visit rows and columns inside the target bounds, so
// shape coordinates may span the whole int range. The helpers below do the
// arithmetic between an on-screen position and an arbitrary endpoint without
// overflowing.

// dist returns |a-b|.
func dist(a, b int) uint64 {
	if a >= b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

// toward returns a moved n steps in the direction of b. n must not exceed
// dist(a, b).
func toward(a, b int, n uint64) int {
	if b >= a {
		return int(uint64(a) + n)
	}
	return int(uint64(a) - n)
}

// satSub returns a-b clamped to the int range.
func satSub(a, b int) int {
	d := a - b
	switch {
	case b < 0 && d < a:
		return math.MaxInt
	case b > 0 && d > a:
		return math.MinInt
	}
	return d
}

// mulDivRound returns a*b/d rounded half up. a ≤ d keeps the result within b.
func mulDivRound(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, rem := bits.Div64(hi, lo, d)
	if rem >= d-rem {
		q++
	}
	return q
}

// span is an inclusive range of offsets from a center.
type span struct {
	lo, hi int
}

// smallRadius is the largest radius whose arc arithmetic fits in an int64.
const smallRadius = 1 << 30

// arc answers row queries about the midpoint circle of radius r without
// walking it. Radii above smallRadius fall back to math/big.
type arc struct {
	r  int
	rr *big.Int
}

func newArc(r int) arc {
	a := arc{r: r}
	if r > smallRadius {
		a.rr = new(big.Int).Mul(big.NewInt(int64(r)), big.NewInt(int64(r)))
	}
	return a
}

// ceilSqrt returns the smallest s ≥ 0 with s² ≥ m*(r²-dy²)+k.
func (a arc) ceilSqrt(dy int, m, k int64) uint64 {
	if a.rr == nil {
		r, d := int64(a.r), int64(dy)
		n := m*(r*r-d*d) + k
		if n <= 0 {
			return 0
		}
		s := int64(math.Sqrt(float64(n)))
		for s*s < n {
			s++
		}
		for s > 0 && (s-1)*(s-1) >= n {
			s--
		}
		return uint64(s)
	}
	n := big.NewInt(int64(dy))
	n.Mul(n, n)
	n.Sub(a.rr, n)
	n.Mul(n, big.NewInt(m))
	n.Add(n, big.NewInt(k))
	if n.Sign() <= 0 {
		return 0
	}
	s := new(big.Int).Sqrt(n)
	if new(big.Int).Mul(s, s).Cmp(n) < 0 {
		s.Add(s, big.NewInt(1))
	}
	return s.Uint64()
}

// row appends to dst the outline offsets, right of the center, of the row dy
// rows above or below it: 0 ≤ dy ≤ r.
//
// The midpoint walk puts the outline at offset y(x) on column x, where y(x)
// is the smallest y with y²+y ≥ r²-x². A row therefore holds the flat run of
// columns x ≤ dy with y(x) = dy, plus the mirrored point y(dy) when
// dy ≤ y(dy).
func (a arc) row(dy int, dst []span) []span {
	lo := int(a.ceilSqrt(dy, 1, -int64(dy)))
	hi := min(int(a.ceilSqrt(dy, 1, int64(dy)))-1, dy)
	if lo <= hi {
		dst = append(dst, span{lo, hi})
	}
	// y²+y ≥ n is (2y+1)² ≥ 4n+1.
	if e := int(a.ceilSqrt(dy, 4, 1) / 2); dy <= e {
		dst = append(dst, span{e, e})
	}
	return dst
}
