package glicko

import (
	"errors"
	"math"
	"testing"
)

func TestUpdateNoResults(t *testing.T) {
	t.Parallel()

	rating, rd, vol := Update(1500, DefaultRD, DefaultVolatility, nil)
	if rating != 1500 || rd != DefaultRD || vol != DefaultVolatility {
		t.Errorf("expected untouched inputs got %d %d %f", rating, rd, vol)
	}
}

func TestUpdateWinRaisesRating(t *testing.T) {
	t.Parallel()

	results := []Result{{OpponentRating: 1575, OpponentRD: DefaultRD, Score: 1}}
	rating, _, _ := Update(1500, DefaultRD, DefaultVolatility, results)
	if rating <= 1500 {
		t.Errorf("expected rating above 1500 got %d", rating)
	}
}

func TestUpdateLossLowersRating(t *testing.T) {
	t.Parallel()

	results := []Result{{OpponentRating: 1575, OpponentRD: DefaultRD, Score: 0}}
	rating, _, _ := Update(1500, DefaultRD, DefaultVolatility, results)
	if rating >= 1500 {
		t.Errorf("expected rating below 1500 got %d", rating)
	}
}

func TestUpdateDrawBetweenEquals(t *testing.T) {
	t.Parallel()

	results := []Result{{OpponentRating: 1500, OpponentRD: DefaultRD, Score: 0.5}}
	rating, rd, _ := Update(1500, DefaultRD, DefaultVolatility, results)
	if rating != 1500 {
		t.Errorf("expected unchanged rating got %d", rating)
	}

	if rd != DefaultRD {
		t.Errorf("expected deviation %d got %d", DefaultRD, rd)
	}
}

func TestUpdateDegenerateOutcome(t *testing.T) {
	t.Parallel()

	// the expected score saturates to 1, the variance sum collapses to
	// zero and the update becomes a no-op
	results := []Result{{OpponentRating: -6e7, OpponentRD: DefaultRD, Score: 1}}
	rating, rd, vol := Update(1500, DefaultRD, DefaultVolatility, results)
	if rating != 1500 || rd != DefaultRD || vol != DefaultVolatility {
		t.Errorf("expected untouched inputs got %d %d %f", rating, rd, vol)
	}
}

func TestUpdateSymmetry(t *testing.T) {
	t.Parallel()

	win := []Result{{OpponentRating: 1500, OpponentRD: DefaultRD, Score: 1}}
	loss := []Result{{OpponentRating: 1500, OpponentRD: DefaultRD, Score: 0}}

	winRating, _, _ := Update(1500, DefaultRD, DefaultVolatility, win)
	lossRating, _, _ := Update(1500, DefaultRD, DefaultVolatility, loss)

	if winRating-1500 != 1500-lossRating {
		t.Errorf("expected mirrored deltas got +%d and %d", winRating-1500, lossRating-1500)
	}
}

func TestG(t *testing.T) {
	t.Parallel()

	if got := g(DefaultRD); math.Abs(got-0.0051822) > 1e-6 {
		t.Errorf("expected g(350) near 0.0051822 got %f", got)
	}
}

func TestTeamRating(t *testing.T) {
	t.Parallel()

	rating, err := TeamRating([]int{1500, 1600})
	if err != nil {
		t.Fatalf("team rating: %v", err)
	}

	if rating != 1627 {
		t.Errorf("expected 1627 got %d", rating)
	}

	rating, err = TeamRating([]int{1700})
	if err != nil {
		t.Fatalf("team rating: %v", err)
	}

	if rating != 1700 {
		t.Errorf("expected 1700 got %d", rating)
	}
}

func TestTeamRatingInvalidSize(t *testing.T) {
	t.Parallel()

	if _, err := TeamRating(nil); !errors.Is(err, TeamSizeErr) {
		t.Errorf("expected TeamSizeErr got %v", err)
	}

	if _, err := TeamRating([]int{1, 2, 3}); !errors.Is(err, TeamSizeErr) {
		t.Errorf("expected TeamSizeErr got %v", err)
	}
}
