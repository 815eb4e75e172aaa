package bank

import (
	"fmt"
	"slices"
	"strings"
)

// Letter returns the display letter for an option index (0 → "A").
func Letter(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// Letters formats a selection as "A, C". Indices are sorted; nil renders "—".
func Letters(indices []int) string {
	if len(indices) == 0 {
		return "—"
	}
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	parts := make([]string, len(sorted))
	for i, idx := range sorted {
		parts[i] = Letter(idx)
	}
	return strings.Join(parts, ", ")
}

// ParseLetters parses user input such as "a, C" or "B" into option indices.
// Range checking against a particular question is left to the caller.
func ParseLetters(input string) ([]int, error) {
	fields := strings.FieldsFunc(strings.ToUpper(input), func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no options given")
	}
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		if len(f) != 1 || f[0] < 'A' || f[0] > 'Z' {
			return nil, fmt.Errorf("invalid option %q", f)
		}
		out = append(out, int(f[0]-'A'))
	}
	return out, nil
}
