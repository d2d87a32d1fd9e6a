// Package scores extracts quiz percentages from page text and computes
// best-of-N averages over them.
package scores

import (
	"errors"
	"regexp"
	"sort"
	"strconv"

	"github.com/vytor/bestofn/internal/models"
)

// percentRe matches a percentage wrapped in parentheses, e.g. "(95.5%)".
var percentRe = regexp.MustCompile(`\((\d+(?:\.\d+)?)%\)`)

// Extract returns every parenthesised percentage in text, sorted highest first.
// Duplicates are kept. Text without matches yields an empty, non-nil ScoreSet.
func Extract(text string) models.ScoreSet {
	matches := percentRe.FindAllStringSubmatch(text, -1)
	out := make(models.ScoreSet, 0, len(matches))
	for _, m := range matches {
		// Literals too long for a float64 come back as +Inf with ErrRange
		// and are kept so every match is counted.
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			continue
		}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// Count returns how many qualifying percentages text contains.
func Count(text string) int {
	return len(percentRe.FindAllStringIndex(text, -1))
}
