package voucher

import (
	"strconv"
	"strings"
)

// FormatINR renders an amount the way the voucher displays money: rupee glyph
// plus Indian digit grouping (last three digits, then pairs), e.g. 1500 →
// "₹1,500" and 150000 → "₹1,50,000". A fractional part is kept as-is.
func FormatINR(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	return "₹" + sign + groupIndian(intPart) + frac
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	groups := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",")
}
