package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// NormalizeCardNumber strips spaces and dashes. It returns "" when any
// other non-digit is present.
func NormalizeCardNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		switch {
		case r == ' ' || r == '-':
			continue
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
		default:
			return ""
		}
	}
	return b.String()
}

// LuhnValid reports whether digits passes the mod-10 checksum.
func LuhnValid(digits string) bool {
	if len(digits) < 12 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidateCard checks number, expiry and CVC and returns the normalised
// number. Errors wrap ErrInvalidCard.
func ValidateCard(number string, expMonth, expYear int, cvc string, now time.Time) (string, error) {
	digits := NormalizeCardNumber(number)
	if !LuhnValid(digits) {
		return "", fmt.Errorf("%w: card number failed checksum", ErrInvalidCard)
	}
	if expMonth < 1 || expMonth > 12 {
		return "", fmt.Errorf("%w: expiry month out of range", ErrInvalidCard)
	}
	if expYear < 100 {
		expYear += 2000
	}
	// A card is valid through the last day of its expiry month.
	expiresAt := time.Date(expYear, time.Month(expMonth)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.Before(expiresAt) {
		return "", fmt.Errorf("%w: card expired", ErrInvalidCard)
	}
	if len(cvc) < 3 || len(cvc) > 4 || NormalizeCardNumber(cvc) != cvc {
		return "", fmt.Errorf("%w: cvc must be 3 or 4 digits", ErrInvalidCard)
	}
	return digits, nil
}

func CardLast4(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
