// Package intpack encodes integers as short ASCII strings and decodes them
// back. It optimizes for short output: generation counters embedded in cache
// keys shrink from up to 19 decimal digits to at most 11 symbols.
package intpack

import (
	"fmt"
	"math/big"
	"strings"
)

// Alphabet is the 64-symbol output alphabet. Index order is significant:
// Pack(0) is the first symbol.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_="

const base = int64(len(Alphabet))

// sign marks a packed negative value. It is not part of Alphabet.
const sign = '-'

var reverse = func() [256]int8 {
	var m [256]int8
	for i := range m {
		m[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = int8(i)
	}
	return m
}()

// floorDiv divides rounding toward negative infinity. Go's native integer
// division truncates toward zero, which breaks the packing loop for
// negative inputs.
func floorDiv(n, d int64) (q, r int64) {
	q = n / d
	r = n - q*d
	if r < 0 {
		q--
		r += d
	}
	return q, r
}

// Pack encodes n most-significant-digit-first in base 64. Negative values
// terminate with a leading sign marker. Pack(0) == "A".
func Pack(n int64) string {
	buf := make([]byte, 0, 12)
	for {
		q, r := floorDiv(n, base)
		buf = append(buf, Alphabet[r])
		n = q
		if n == 0 {
			break
		}
		if n == -1 {
			buf = append(buf, sign)
			break
		}
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Unpack decodes a string produced by Pack. Round-trip correctness
// (Unpack(Pack(n)) == n) holds for every int64, including 0 and negatives.
func Unpack(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("intpack: empty input")
	}
	var n int64
	i := 0
	if s[0] == sign {
		n = -1
		i = 1
	}
	for ; i < len(s); i++ {
		d := reverse[s[i]]
		if d < 0 {
			return 0, fmt.Errorf("intpack: invalid symbol %q", s[i])
		}
		n = n*base + int64(d)
	}
	return n, nil
}

// PackBig is Pack for arbitrary-precision integers. n is not modified.
func PackBig(n *big.Int) string {
	var (
		b   = big.NewInt(base)
		q   = new(big.Int).Set(n)
		r   = new(big.Int)
		buf strings.Builder
		out []byte
	)
	negOne := big.NewInt(-1)
	for {
		// DivMod is Euclidean division; with a positive modulus it agrees
		// with floor division.
		q.DivMod(q, b, r)
		out = append(out, Alphabet[r.Int64()])
		if q.Sign() == 0 {
			break
		}
		if q.Cmp(negOne) == 0 {
			out = append(out, sign)
			break
		}
	}
	for i := len(out) - 1; i >= 0; i-- {
		buf.WriteByte(out[i])
	}
	return buf.String()
}

// UnpackBig decodes a string produced by PackBig.
func UnpackBig(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("intpack: empty input")
	}
	b := big.NewInt(base)
	n := new(big.Int)
	i := 0
	if s[0] == sign {
		n.SetInt64(-1)
		i = 1
	}
	d := new(big.Int)
	for ; i < len(s); i++ {
		idx := reverse[s[i]]
		if idx < 0 {
			return nil, fmt.Errorf("intpack: invalid symbol %q", s[i])
		}
		n.Mul(n, b)
		n.Add(n, d.SetInt64(int64(idx)))
	}
	return n, nil
}
