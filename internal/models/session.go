package models

import "time"

type SessionState string

const (
	SessionNoData SessionState = "no_data"
	SessionLoaded SessionState = "loaded"
)

type Session struct {
	ID          string       `json:"id"`
	Scores      ScoreSet     `json:"scores"`
	Window      int          `json:"window"`
	State       SessionState `json:"state"`
	SourceRef   string       `json:"source_ref,omitempty"`
	ExtractedAt *time.Time   `json:"extracted_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Loaded reports whether the session holds a non-empty extraction.
func (s *Session) Loaded() bool {
	return s != nil && s.State == SessionLoaded && !s.Scores.IsEmpty()
}

// Dashboard is everything the presentation layer needs for one render.
type Dashboard struct {
	SessionID   string          `json:"session_id"`
	State       SessionState    `json:"state"`
	Window      int             `json:"window"`
	Windows     []int           `json:"windows"`
	TotalFound  int             `json:"total_found"`
	Result      AggregateResult `json:"result"`
	AverageText string          `json:"average_text"`
	ScaledText  string          `json:"scaled_text"`
	Chart       ChartData       `json:"chart"`
	SourceRef   string          `json:"source_ref,omitempty"`
	ExtractedAt *time.Time      `json:"extracted_at,omitempty"`
}
