package rules

import (
	"strconv"
	"strings"
	"time"
)

// GreaterThanPrefix is the datatype prefix understood by GreaterThanFromName.
const GreaterThanPrefix = "greater_than_"

// GreaterThan returns a predicate accepting numeric values strictly above threshold.
func GreaterThan(threshold float64) Predicate {
	return func(value any, _ string) bool {
		n, ok := Number(value)
		return ok && n > threshold
	}
}

// GreaterThanFromName reads its threshold from the datatype name, so a single
// registration function serves "greater_than_10", "greater_than_0.5" and so on.
func GreaterThanFromName(value any, datatype string) bool {
	threshold, err := strconv.ParseFloat(strings.TrimPrefix(datatype, GreaterThanPrefix), 64)
	if err != nil {
		return false
	}
	return GreaterThan(threshold)(value, datatype)
}

// DateLayout returns a predicate accepting strings parseable with the given time layout.
func DateLayout(layout string) Predicate {
	return func(value any, _ string) bool {
		s, ok := value.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(layout, s)
		return err == nil
	}
}

// ValidCUIT checks an Argentine CUIT/CUIL: 11 digits (dashes allowed) with a mod-11 check digit.
func ValidCUIT(value any, _ string) bool {
	digits, ok := digitsOf(Text(value), 11)
	if !ok {
		return false
	}

	weights := [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}

	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		return false
	}
	return digits[10] == check
}

// ValidCBU checks an Argentine CBU: 22 digits in two blocks, each ending in a mod-10 check digit.
func ValidCBU(value any, _ string) bool {
	digits, ok := digitsOf(Text(value), 22)
	if !ok {
		return false
	}

	bank := []int{7, 1, 3, 9, 7, 1, 3}
	account := []int{3, 9, 7, 1, 3, 9, 7, 1, 3, 9, 7, 1, 3}

	return checkBlock(digits[:8], bank) && checkBlock(digits[8:], account)
}

func checkBlock(block, weights []int) bool {
	sum := 0
	for i, w := range weights {
		sum += block[i] * w
	}
	return block[len(weights)] == (10-sum%10)%10
}

func digitsOf(s string, n int) ([]int, bool) {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, c := range s {
		if c < '0' || c > '9' {
			return nil, false
		}
		out[i] = int(c - '0')
	}
	return out, true
}
