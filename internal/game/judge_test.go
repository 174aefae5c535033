package game

import (
	"testing"
	"time"

	"github.com/jaeho-dev/minigame-backend/internal"
)

func TestJudgeSwingTimingWindows(t *testing.T) {
	window := 90 * time.Millisecond

	cases := []struct {
		name string
		diff time.Duration
		want SwingOutcome
	}{
		{"slightly late inside window", 40 * time.Millisecond, SwingCenter},
		{"slightly early inside window", -40 * time.Millisecond, SwingCenter},
		{"exactly on the late edge", 90 * time.Millisecond, SwingCenter},
		{"exactly on the early edge", -90 * time.Millisecond, SwingCenter},
		{"too early", -150 * time.Millisecond, SwingLeft},
		{"too late", 200 * time.Millisecond, SwingRight},
		{"dead on", 0, SwingCenter},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := JudgeSwing(tc.diff, window); got != tc.want {
				t.Fatalf("JudgeSwing(%v) = %q, want %q", tc.diff, got, tc.want)
			}
		})
	}
}

func TestSwingPoints(t *testing.T) {
	if got := SwingPoints(SwingCenter); got != 2 {
		t.Fatalf("expected center swing to score 2, got %d", got)
	}
	if got := SwingPoints(SwingLeft); got != 1 {
		t.Fatalf("expected left swing to score 1, got %d", got)
	}
	if got := SwingPoints(SwingRight); got != 1 {
		t.Fatalf("expected right swing to score 1, got %d", got)
	}
}

func TestApplyShakeBoundsAdversarialInput(t *testing.T) {
	const sampleCap = 20
	const gain = 0.05

	cases := []struct {
		name     string
		progress float64
		delta    float64
		want     float64
	}{
		{"normal sample", 10, 10, 10.5},
		{"oversized delta is capped", 0, 100000, 1},
		{"negative delta is ignored", 50, -500, 50},
		{"fractional delta", 0, 0.5, 0.025},
		{"progress never exceeds 100", 99.9, 20, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyShake(tc.progress, tc.delta, sampleCap, gain)
			if got != tc.want {
				t.Fatalf("ApplyShake(%v, %v) = %v, want %v", tc.progress, tc.delta, got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("progress %v left its bounds", got)
			}
		})
	}
}

func TestApplyShakeAccumulatesToCap(t *testing.T) {
	progress := 0.0
	for i := 0; i < 500; i++ {
		progress = ApplyShake(progress, 1000, 20, 0.05)
	}
	if progress != 100 {
		t.Fatalf("expected progress to saturate at 100, got %v", progress)
	}
}

func TestRankScoresTieScenario(t *testing.T) {
	results, ranking := RankScores([]internal.ScoreSubmission{
		{ID: "a", Name: "a", Score: 30},
		{ID: "b", Name: "b", Score: 50},
		{ID: "c", Name: "c", Score: 50},
	})

	wantRanks := []struct {
		id   string
		rank int
	}{{"b", 1}, {"c", 2}, {"a", 3}}

	if len(ranking) != 3 {
		t.Fatalf("expected 3 ranking entries, got %d", len(ranking))
	}
	for i, want := range wantRanks {
		if ranking[i].ID != want.id || ranking[i].Rank != want.rank {
			t.Fatalf("ranking[%d] = %s:%d, want %s:%d",
				i, ranking[i].ID, ranking[i].Rank, want.id, want.rank)
		}
	}

	if results["b"].Result != "tie" {
		t.Fatalf("expected b to be tie, got %q", results["b"].Result)
	}
	if results["c"].Result != "tie" {
		t.Fatalf("expected c to be tie, got %q", results["c"].Result)
	}
	if results["a"].Result != "lose" {
		t.Fatalf("expected a to lose, got %q", results["a"].Result)
	}
	if results["a"].Rank != 3 || results["a"].TotalPlayers != 3 {
		t.Fatalf("unexpected result for a: %+v", results["a"])
	}
}

func TestRankScoresSoleWinner(t *testing.T) {
	results, ranking := RankScores([]internal.ScoreSubmission{
		{ID: "x", Name: "x", Score: 10},
		{ID: "y", Name: "y", Score: 70},
	})

	if ranking[0].ID != "y" || ranking[0].Rank != 1 {
		t.Fatalf("expected y first, got %+v", ranking[0])
	}
	if results["y"].Result != "win" {
		t.Fatalf("expected y to win, got %q", results["y"].Result)
	}
	if results["x"].Result != "lose" {
		t.Fatalf("expected x to lose, got %q", results["x"].Result)
	}
}

func TestRankScoresEmpty(t *testing.T) {
	results, ranking := RankScores(nil)
	if results != nil || ranking != nil {
		t.Fatalf("expected nil results for empty submission, got %v / %v", results, ranking)
	}
}

func TestRankScoresEveryEntrantSeesSameRanking(t *testing.T) {
	results, ranking := RankScores([]internal.ScoreSubmission{
		{ID: "a", Name: "a", Score: 1},
		{ID: "b", Name: "b", Score: 2},
		{ID: "c", Name: "c", Score: 3},
	})

	for id, result := range results {
		if len(result.Ranking) != len(ranking) {
			t.Fatalf("entrant %s got a ranking of %d entries, want %d",
				id, len(result.Ranking), len(ranking))
		}
		for i := range ranking {
			if result.Ranking[i] != ranking[i] {
				t.Fatalf("entrant %s sees a different ranking at %d", id, i)
			}
		}
	}
}
