package filtering

import (
	"github.com/spigell/talent-matcher/internal/scoring"
	"github.com/spigell/talent-matcher/internal/talent"
	"go.uber.org/zap"
)

const qualityStepName = "quality"

// Summary describes what the quality filter kept and hid.
type Summary struct {
	Shown         int
	TotalReceived int
	Hidden        int
}

// Quality returns the candidates with a negative relevance score in their
// original order. The input slice is left untouched.
func Quality(candidates []talent.MatchCandidate) ([]talent.MatchCandidate, Summary) {
	shown := make([]talent.MatchCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if scoring.IsQuality(candidate.RelevanceScore) {
			shown = append(shown, candidate)
		}
	}

	return shown, Summary{
		Shown:         len(shown),
		TotalReceived: len(candidates),
		Hidden:        len(candidates) - len(shown),
	}
}

// Run applies Quality and reports the step the same way every filter step is logged.
func Run(logger *zap.Logger, candidates []talent.MatchCandidate) ([]talent.MatchCandidate, Summary) {
	shown, summary := Quality(candidates)

	if logger != nil {
		logger.Info("filter step",
			zap.String("name", qualityStepName),
			zap.Int("initial", summary.TotalReceived),
			zap.Int("dropped", summary.Hidden),
			zap.Int("left", summary.Shown),
		)

		if summary.Hidden > 0 {
			logger.Debug("hiding poor matches",
				zap.Ints("hidden_resumes", hiddenIDs(candidates)),
			)
		}
	}

	return shown, summary
}

func hiddenIDs(candidates []talent.MatchCandidate) []int {
	ids := make([]int, 0)
	for _, candidate := range candidates {
		if !scoring.IsQuality(candidate.RelevanceScore) {
			ids = append(ids, candidate.ResumeID)
		}
	}
	return ids
}
