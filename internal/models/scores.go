package models

import (
	"encoding/json"
	"math"
)

// ScoreSet holds quiz percentages ordered best first.
// A ScoreSet is never mutated after extraction; a new extraction replaces it.
type ScoreSet []float64

func (s ScoreSet) Len() int { return len(s) }

func (s ScoreSet) IsEmpty() bool { return len(s) == 0 }

// Clone returns a copy that shares no backing array with s.
func (s ScoreSet) Clone() ScoreSet {
	out := make(ScoreSet, len(s))
	copy(out, s)
	return out
}

// AggregateResult is the best-of-N summary for a ScoreSet.
// SelectedCount == 0 means "no data", not a zero score.
type AggregateResult struct {
	SelectedCount int     `json:"selected_count"`
	Average       float64 `json:"average"`
	ScaledValue   float64 `json:"scaled_value"`
}

// ChartData is the immutable input of a single bar chart render.
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// MarshalJSON writes non-finite scores as strings; see finite.
func (s ScoreSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = finite(v)
	}
	return json.Marshal(out)
}

func (r AggregateResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SelectedCount int `json:"selected_count"`
		Average       any `json:"average"`
		ScaledValue   any `json:"scaled_value"`
	}{r.SelectedCount, finite(r.Average), finite(r.ScaledValue)})
}

func (c ChartData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Labels []string `json:"labels"`
		Values ScoreSet `json:"values"`
	}{c.Labels, ScoreSet(c.Values)})
}

// finite passes ordinary numbers through and spells out the values JSON
// numbers cannot hold ("Infinity", "-Infinity", "NaN").
func finite(v float64) any {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return v
}
