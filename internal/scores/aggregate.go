package scores

import (
	"errors"

	"github.com/vytor/bestofn/internal/models"
)

const (
	// DefaultWindow is the "best of" size used until the user picks another.
	DefaultWindow = 6
	// InternalsRatio converts an average percentage into internal marks out of 30.
	InternalsRatio = 0.3
)

// SelectableWindows are the window sizes offered by the dashboard.
// Aggregate accepts any positive window.
var SelectableWindows = []int{5, 6, 7}

// ErrInvalidSelection is returned for a window smaller than 1.
var ErrInvalidSelection = errors.New("selection window must be at least 1")

// Aggregate averages the top n scores of a best-first ScoreSet.
// When fewer than n scores exist all of them are used; an empty set
// yields a zero result with SelectedCount 0.
func Aggregate(scores models.ScoreSet, n int) (models.AggregateResult, error) {
	if n < 1 {
		return models.AggregateResult{}, ErrInvalidSelection
	}

	top := scores[:min(n, len(scores))]
	if len(top) == 0 {
		return models.AggregateResult{}, nil
	}

	var sum float64
	for _, v := range top {
		sum += v
	}
	avg := sum / float64(len(top))

	return models.AggregateResult{
		SelectedCount: len(top),
		Average:       avg,
		ScaledValue:   avg * InternalsRatio,
	}, nil
}

// Top returns a copy of the first min(n, len(scores)) scores.
func Top(scores models.ScoreSet, n int) (models.ScoreSet, error) {
	if n < 1 {
		return nil, ErrInvalidSelection
	}
	return scores[:min(n, len(scores))].Clone(), nil
}
