// Package dashboard turns session state into what the popup shows:
// formatted figures and an immutable bar chart description.
package dashboard

import (
	"fmt"

	"github.com/vytor/bestofn/internal/models"
	"github.com/vytor/bestofn/internal/scores"
)

// FormatAverage renders an average as a two-decimal percentage, e.g. "85.17%".
func FormatAverage(avg float64) string {
	return fmt.Sprintf("%.2f%%", avg)
}

// FormatScaled renders internal marks with two decimals, e.g. "25.55".
func FormatScaled(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Chart labels the selected scores "Q1", "Q2", ... in best-first order.
func Chart(top models.ScoreSet) models.ChartData {
	c := models.ChartData{
		Labels: make([]string, len(top)),
		Values: make([]float64, len(top)),
	}
	for i, v := range top {
		c.Labels[i] = fmt.Sprintf("Q%d", i+1)
		c.Values[i] = v
	}
	return c
}

// Build assembles the dashboard for s. A session without data yields
// a NoData dashboard with empty figures rather than an error.
func Build(s *models.Session) (*models.Dashboard, error) {
	d := &models.Dashboard{
		SessionID:   s.ID,
		State:       models.SessionNoData,
		Window:      s.Window,
		Windows:     windows(s.Window),
		TotalFound:  len(s.Scores),
		SourceRef:   s.SourceRef,
		ExtractedAt: s.ExtractedAt,
		Chart:       models.ChartData{Labels: []string{}, Values: []float64{}},
	}
	if !s.Loaded() {
		return d, nil
	}

	res, err := scores.Aggregate(s.Scores, s.Window)
	if err != nil {
		return nil, err
	}
	top, err := scores.Top(s.Scores, s.Window)
	if err != nil {
		return nil, err
	}

	d.State = models.SessionLoaded
	d.Result = res
	d.AverageText = FormatAverage(res.Average)
	d.ScaledText = FormatScaled(res.ScaledValue)
	d.Chart = Chart(top)
	return d, nil
}

// windows returns the selectable windows, plus current if it is not one of them.
func windows(current int) []int {
	out := make([]int, 0, len(scores.SelectableWindows)+1)
	seen := false
	for _, w := range scores.SelectableWindows {
		if !seen && current < w && current > 0 {
			out = append(out, current)
			seen = true
		}
		if w == current {
			seen = true
		}
		out = append(out, w)
	}
	if !seen && current > 0 {
		out = append(out, current)
	}
	return out
}
