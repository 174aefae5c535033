package game

import (
	"slices"
	"time"

	"github.com/jaeho-dev/minigame-backend/internal"
	"github.com/jaeho-dev/minigame-backend/internal/utils"
)

// =============================================================================
// JUDGING / SCORING - pure functions, no room state
// =============================================================================

type SwingOutcome string

const (
	SwingLeft   SwingOutcome = "left"
	SwingCenter SwingOutcome = "center"
	SwingRight  SwingOutcome = "right"
)

// DefaultSwingPower is used when the client omits the power field.
const DefaultSwingPower = 0.8

// progress is always kept inside [0, 100]
const maxProgress = 100

// JudgeSwing classifies a swing by its distance from plate time.
// diff is negative for an early swing, positive for a late one.
func JudgeSwing(diff, window time.Duration) SwingOutcome {
	if diff < 0 {
		if -diff <= window {
			return SwingCenter
		}
		return SwingLeft
	}
	if diff <= window {
		return SwingCenter
	}
	return SwingRight
}

// SwingPoints scores an outcome: dead center pays double.
func SwingPoints(outcome SwingOutcome) int {
	if outcome == SwingCenter {
		return 2
	}
	return 1
}

// ApplyShake folds one raw motion sample into a player's progress. The
// sample is clamped before scaling so oversized or negative deltas cannot
// move progress out of bounds.
func ApplyShake(progress, delta, sampleCap, gain float64) float64 {
	clamped := utils.Clamp(delta, 0, sampleCap)
	return utils.Clamp(progress+clamped*gain, 0, maxProgress)
}

// RankScores sorts submissions by score descending and labels every
// entrant. All entrants sharing the maximum score are "tie" when there is
// more than one of them, otherwise the top entrant is "win" and everyone
// else is "lose". Ranks are the 1-based sort positions; tied scores keep
// distinct successive ranks (insertion order breaks the tie), which is the
// documented behavior even though it sits oddly next to the tie label.
func RankScores(scores []internal.ScoreSubmission) (map[string]internal.EntrantResult, []internal.RankedEntry) {
	if len(scores) == 0 {
		return nil, nil
	}

	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, func(a, b internal.ScoreSubmission) int {
		return b.Score - a.Score
	})

	ranking := make([]internal.RankedEntry, len(sorted))
	for i, entry := range sorted {
		ranking[i] = internal.RankedEntry{
			ID:    entry.ID,
			Name:  entry.Name,
			Score: entry.Score,
			Rank:  i + 1,
		}
	}

	maxScore := sorted[0].Score
	winners := 0
	for _, entry := range sorted {
		if entry.Score == maxScore {
			winners++
		}
	}

	results := make(map[string]internal.EntrantResult, len(sorted))
	for i, entry := range sorted {
		isWin := entry.Score == maxScore && i == 0
		isTie := winners > 1 && entry.Score == maxScore

		result := "lose"
		switch {
		case isTie:
			result = "tie"
		case isWin:
			result = "win"
		}

		results[entry.ID] = internal.EntrantResult{
			Result:       result,
			Score:        entry.Score,
			Rank:         i + 1,
			TotalPlayers: len(sorted),
			Ranking:      ranking,
		}
	}
	return results, ranking
}
