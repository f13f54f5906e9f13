// Package money converts between the chain's native integer currency unit
// and decimal display strings. All aggregation arithmetic elsewhere in the
// system stays on the integer form; conversion happens only at the edge.
package money

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimals is the number of decimal places of the native currency unit.
const Decimals = 18

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// ToDisplay renders an integer native-unit amount as a decimal string with
// trailing zeros trimmed ("1500000000000000000" -> "1.5"). A nil amount
// renders as "0".
func ToDisplay(amount *big.Int) string {
	if amount == nil {
		return "0"
	}

	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)

	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(abs, unit, frac)

	out := whole.String()
	if frac.Sign() != 0 {
		digits := fmt.Sprintf("%0*s", Decimals, frac.String())
		digits = strings.TrimRight(digits, "0")
		out += "." + digits
	}

	if neg {
		out = "-" + out
	}
	return out
}

// ParseDisplay parses a decimal display string into integer native units.
// It rejects empty input, malformed numbers, and fractional parts with more
// than Decimals digits.
func ParseDisplay(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	wholePart := s
	fracPart := ""
	if idx := strings.Index(s, "."); idx >= 0 {
		wholePart = s[:idx]
		fracPart = s[idx+1:]
		if strings.Contains(fracPart, ".") {
			return nil, fmt.Errorf("malformed amount: %q", s)
		}
	}
	if wholePart == "" && fracPart == "" {
		return nil, fmt.Errorf("malformed amount: %q", s)
	}
	if !isDigits(wholePart) || !isDigits(fracPart) {
		return nil, fmt.Errorf("malformed amount: %q", s)
	}
	if wholePart == "" {
		wholePart = "0"
	}
	if len(fracPart) > Decimals {
		return nil, fmt.Errorf("amount has more than %d decimal places: %q", Decimals, s)
	}

	whole, ok := new(big.Int).SetString(wholePart, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount: %q", s)
	}

	result := new(big.Int).Mul(whole, unit)
	if fracPart != "" {
		// Right-pad the fractional digits to a full native-unit width.
		padded := fracPart + strings.Repeat("0", Decimals-len(fracPart))
		frac, ok := new(big.Int).SetString(padded, 10)
		if !ok {
			return nil, fmt.Errorf("malformed amount: %q", s)
		}
		result.Add(result, frac)
	}

	if neg {
		result.Neg(result)
	}
	return result, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ParsePositive parses a decimal display string and additionally rejects
// zero and negative amounts. Used for admin-supplied prices.
func ParsePositive(s string) (*big.Int, error) {
	amount, err := ParseDisplay(s)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero: %q", s)
	}
	return amount, nil
}
