// Package scoring turns raw relevance scores returned by the matching service
// into display percentages and quality bands.
//
// The service uses a signed score where negative values are genuine matches
// and zero or positive values mean no meaningful match.
package scoring

import (
	"fmt"
	"math"
)

// PoorMatchLabel is shown instead of a percentage for non-negative scores.
const PoorMatchLabel = "Poor match"

const (
	goodThreshold   = 70.0
	mediumThreshold = 50.0
)

// Band is the qualitative bucket of a score.
type Band int

const (
	BandPoor Band = iota
	BandMedium
	BandGood
)

func (b Band) String() string {
	switch b {
	case BandGood:
		return "good"
	case BandMedium:
		return "medium"
	default:
		return "poor"
	}
}

// Interpretation is the display form of a relevance score.
type Interpretation struct {
	// Label is either the percentage with one decimal or PoorMatchLabel.
	Label string
	// Percent is always computed, even when Label is PoorMatchLabel.
	Percent float64
	Band    Band
}

// Badge returns the text rendered next to a match title.
func (i Interpretation) Badge() string {
	if i.Label == PoorMatchLabel {
		return i.Label
	}
	return i.Label + " match"
}

// IsQuality reports whether the score counts as a quality match.
// NaN is never a quality match.
func IsQuality(score float64) bool {
	return score < 0
}

// Percent maps a score onto 0..100 as max(0, (1+score)*100).
func Percent(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, (1+score)*100)
}

// Interpret converts a raw relevance score.
func Interpret(score float64) Interpretation {
	percent := Percent(score)

	if !IsQuality(score) {
		return Interpretation{Label: PoorMatchLabel, Percent: percent, Band: BandPoor}
	}

	return Interpretation{
		Label:   fmt.Sprintf("%.1f%%", percent),
		Percent: percent,
		Band:    band(percent),
	}
}

// band puts exactly 50% in the medium band, so a score of -0.5 reads as
// medium. The older web dashboard colored it as poor.
func band(percent float64) Band {
	switch {
	case percent > goodThreshold:
		return BandGood
	case percent >= mediumThreshold:
		return BandMedium
	default:
		return BandPoor
	}
}

// SimilarityPercent formats a chunk similarity score in [0,1] as a percentage.
func SimilarityPercent(similarity float64) string {
	return fmt.Sprintf("%.1f%%", similarity*100)
}
