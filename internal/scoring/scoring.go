// Package scoring evaluates interview answers and produces the final verdict.
//
// Scoring is deliberately deterministic: an answer is banded by its trimmed
// character count and whitespace-delimited word count, whichever measure is
// more forgiving, and the band multiplier is applied to the tier's base
// score. There is no semantic evaluation.
package scoring

import (
	"math"
	"strings"

	"github.com/spigell/intervu/internal/question"
)

// band is a scoring threshold. An answer falls into the first band whose
// limits it does not reach on either measure.
type band struct {
	maxLen     int
	maxWords   int
	multiplier float64
}

var bands = []band{
	{maxLen: 20, maxWords: 5, multiplier: 0.2},
	{maxLen: 50, maxWords: 15, multiplier: 0.4},
	{maxLen: 100, maxWords: 30, multiplier: 0.6},
	{maxLen: 200, maxWords: 50, multiplier: 0.8},
}

// Score rates one answer for a question of the given difficulty.
// Empty or whitespace-only answers always score zero.
func Score(answer string, difficulty question.Difficulty) int {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return 0
	}

	length := len([]rune(trimmed))
	words := len(strings.Fields(trimmed))
	base := difficulty.BaseScore()

	for _, b := range bands {
		if length < b.maxLen || words < b.maxWords {
			return int(math.Floor(float64(base) * b.multiplier))
		}
	}

	return base
}

// Summary maps a total session score to the reviewer-facing verdict.
// Bands are percentages of the fixed score ceiling, inclusive on the
// lower bound.
func Summary(totalScore int) string {
	percentage := float64(totalScore) / float64(question.MaxTotalScore()) * 100

	switch {
	case percentage >= 80:
		return "Excellent candidate with strong full-stack knowledge. Highly recommended."
	case percentage >= 60:
		return "Good candidate with solid understanding. Recommended with minor training."
	case percentage >= 40:
		return "Average candidate. May need significant training in certain areas."
	default:
		return "Below expectations. Consider additional screening or training."
	}
}
