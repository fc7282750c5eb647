// Package fuzzy scores string similarity on a 0..100 scale.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/mikey/email-munger/internal/utils"
)

// Ratio returns the indel similarity of a and b, rounded to an integer in 0..100.
// Equal strings score 100; an empty side otherwise scores 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	common := lcs(ra, rb)
	return int(math.Round(200 * float64(common) / float64(len(ra)+len(rb))))
}

// TokenSortRatio compares a and b after normalising case, punctuation and
// token order, so "Smith, John" and "john smith" score 100.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// sortedTokens lowercases s, folds it to ASCII, turns every non alphanumeric
// rune into a separator and joins the sorted tokens with single spaces.
func sortedTokens(s string) string {
	s = strings.ToLower(utils.ASCII(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// lcs is the length of the longest common subsequence of a and b.
func lcs(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
