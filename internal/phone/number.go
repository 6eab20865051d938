// Package phone validates Pakistani mobile numbers and runs the two-step
// verification sub-flow.
package phone

import (
	"errors"
	"strings"
)

// ErrInvalidNumber is returned for input that is not a Pakistani mobile
// number in any accepted spelling.
var ErrInvalidNumber = errors.New("invalid Pakistani phone number")

// NormalizePK validates raw as a Pakistani mobile number and returns its
// E.164 form (+923XXXXXXXXX). Accepted spellings:
//
//	+92 3XX XXXXXXX
//	92 3XX XXXXXXX
//	03XX XXXXXXX
//	3XX XXXXXXX
//
// Separators (spaces, dashes, dots, parentheses) are ignored. Mobile numbers
// carry the operator prefix 3 followed by nine digits.
func NormalizePK(raw string) (string, error) {
	var digits strings.Builder
	seenPlus := false
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+':
			if i != 0 {
				return "", ErrInvalidNumber
			}
			seenPlus = true
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator
		default:
			return "", ErrInvalidNumber
		}
	}

	n := digits.String()
	switch {
	case strings.HasPrefix(n, "92"):
		n = n[2:]
	case seenPlus:
		// a + with any other country code is not a PK number
		return "", ErrInvalidNumber
	case strings.HasPrefix(n, "0"):
		n = n[1:]
	}

	if len(n) != 10 || n[0] != '3' {
		return "", ErrInvalidNumber
	}
	return "+92" + n, nil
}
