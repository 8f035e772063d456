package value

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"
)

// Numeric values are carried as decimal text ("-12.5", "3", "0.25") and all
// arithmetic on them is exact. Payloads are canonicalized on construction so
// raw-representation equality coincides with numeric equality for values
// built through this constructor.

// Numeric wraps a decimal string as a datum, validating and canonicalizing it.
func Numeric(s string) (Datum, error) {
	coeff, scale, err := parseDecimal(s)
	if err != nil {
		return Datum{}, err
	}
	return Datum{payload: []byte(formatDecimal(coeff, scale))}, nil
}

// CompareNumeric orders two numeric datums by exact decimal value.
// Payloads that fail to parse (possible only for hand-built datums) fall
// back to byte ordering so the comparator stays total.
func CompareNumeric(a, b Datum) int {
	ac, as, aerr := parseDecimal(string(a.payload))
	bc, bs, berr := parseDecimal(string(b.payload))
	if aerr != nil || berr != nil {
		return bytes.Compare(a.payload, b.payload)
	}
	alignScales(ac, bc, &as, &bs)
	return ac.Cmp(bc)
}

// AverageNumeric computes the exact mean of two numeric datums: exact
// addition followed by division by the exact value 2. The result is always
// a finite decimal since halving only ever extends the scale by one digit.
func AverageNumeric(left, right Datum) (Datum, error) {
	lc, ls, err := parseDecimal(string(left.payload))
	if err != nil {
		return Datum{}, fmt.Errorf("numeric average: %w", err)
	}
	rc, rs, err := parseDecimal(string(right.payload))
	if err != nil {
		return Datum{}, fmt.Errorf("numeric average: %w", err)
	}

	alignScales(lc, rc, &ls, &rs)
	scale := ls

	sum := new(big.Int).Add(lc, rc)
	rem := new(big.Int).Mod(sum, bigTwo)
	if rem.Sign() != 0 {
		// Odd sum: multiply by 5 and shift the decimal point instead of
		// dividing, keeping the result exact.
		sum.Mul(sum, bigFive)
		scale++
	} else {
		sum.Quo(sum, bigTwo)
	}

	return Datum{payload: []byte(formatDecimal(sum, scale))}, nil
}

var (
	bigTwo  = big.NewInt(2)
	bigFive = big.NewInt(5)
	bigTen  = big.NewInt(10)
)

// parseDecimal splits a decimal string into an integer coefficient and the
// number of fractional digits, so "12.50" becomes (1250, 2).
func parseDecimal(s string) (*big.Int, int, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return nil, 0, fmt.Errorf("empty numeric value")
	}

	neg := false
	switch t[0] {
	case '+':
		t = t[1:]
	case '-':
		neg = true
		t = t[1:]
	}

	intPart, fracPart, _ := strings.Cut(t, ".")
	digits := intPart + fracPart
	if digits == "" {
		return nil, 0, fmt.Errorf("numeric value %q has no digits", s)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, 0, fmt.Errorf("numeric value %q has invalid character %q", s, digits[i])
		}
	}

	coeff, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, 0, fmt.Errorf("numeric value %q did not parse", s)
	}
	if neg {
		coeff.Neg(coeff)
	}
	return coeff, len(fracPart), nil
}

// alignScales rescales the coefficient with the smaller scale so both carry
// the same number of fractional digits.
func alignScales(a, b *big.Int, as, bs *int) {
	for *as < *bs {
		a.Mul(a, bigTen)
		*as++
	}
	for *bs < *as {
		b.Mul(b, bigTen)
		*bs++
	}
}

// formatDecimal renders a coefficient/scale pair as canonical decimal text:
// no trailing fractional zeros, no leading '+', "0.5" rather than ".5".
func formatDecimal(coeff *big.Int, scale int) string {
	c := new(big.Int).Set(coeff)
	for scale > 0 {
		q, r := new(big.Int).QuoRem(c, bigTen, new(big.Int))
		if r.Sign() != 0 {
			break
		}
		c = q
		scale--
	}

	neg := c.Sign() < 0
	digits := new(big.Int).Abs(c).String()

	var out string
	if scale == 0 {
		out = digits
	} else {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		out = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if neg {
		out = "-" + out
	}
	return out
}
