package scores_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/bestofn/internal/models"
	"github.com/vytor/bestofn/internal/scores"
)

func TestAggregate_FewerScoresThanWindow(t *testing.T) {
	res, err := scores.Aggregate(models.ScoreSet{92, 88.5, 75}, 6)

	require.NoError(t, err)
	assert.Equal(t, 3, res.SelectedCount)
	assert.InDelta(t, 85.1666666, res.Average, 1e-6)
	assert.InDelta(t, 25.55, res.ScaledValue, 1e-9)
}

func TestAggregate_BestOfSix(t *testing.T) {
	set := scores.Extract("(100%) (100%) (40%) (40%) (40%) (10%) (5%)")

	res, err := scores.Aggregate(set, 6)

	require.NoError(t, err)
	assert.Equal(t, 6, res.SelectedCount)
	assert.InDelta(t, 55.0, res.Average, 1e-9)
	assert.InDelta(t, 16.5, res.ScaledValue, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	for _, n := range []int{1, 5, 6, 7, 1000} {
		res, err := scores.Aggregate(models.ScoreSet{}, n)
		require.NoError(t, err)
		assert.Equal(t, models.AggregateResult{}, res, "n=%d", n)
	}

	res, err := scores.Aggregate(nil, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, res.SelectedCount)
	assert.Equal(t, 0.0, res.Average)
	assert.Equal(t, 0.0, res.ScaledValue)
}

func TestAggregate_WindowLargerThanData(t *testing.T) {
	res, err := scores.Aggregate(models.ScoreSet{70, 60}, 6)

	require.NoError(t, err)
	assert.Equal(t, 2, res.SelectedCount)
	assert.Equal(t, 65.0, res.Average)
}

func TestAggregate_SelectedCount(t *testing.T) {
	set := models.ScoreSet{99, 90, 85, 80, 72, 70, 64, 50}

	tests := []struct {
		n        int
		expected int
	}{
		{n: 1, expected: 1},
		{n: 5, expected: 5},
		{n: 7, expected: 7},
		{n: 8, expected: 8},
		{n: 9, expected: 8},
		{n: 1 << 30, expected: 8},
	}

	for _, tt := range tests {
		res, err := scores.Aggregate(set, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, res.SelectedCount, "n=%d", tt.n)
		assert.Equal(t, res.Average*scores.InternalsRatio, res.ScaledValue, "scaled value must be average * ratio")
	}
}

func TestAggregate_InvalidSelection(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		_, err := scores.Aggregate(models.ScoreSet{50}, n)
		assert.ErrorIs(t, err, scores.ErrInvalidSelection, "n=%d", n)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	set := models.ScoreSet{93.33, 87.5, 66.67, 61.11, 40, 33.33, 12.5}

	first, err := scores.Aggregate(set, 6)
	require.NoError(t, err)
	second, err := scores.Aggregate(set, 6)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, models.ScoreSet{93.33, 87.5, 66.67, 61.11, 40, 33.33, 12.5}, set, "input must not be modified")
}

func TestTop(t *testing.T) {
	set := models.ScoreSet{90, 80, 70}

	top, err := scores.Top(set, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ScoreSet{90, 80}, top)

	top[0] = 1
	assert.Equal(t, 90.0, set[0], "Top must return a copy")

	all, err := scores.Top(set, 7)
	require.NoError(t, err)
	assert.Equal(t, set, all)

	_, err = scores.Top(set, 0)
	assert.ErrorIs(t, err, scores.ErrInvalidSelection)
}
