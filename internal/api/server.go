package api

import (
	"context"
	"html/template"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/vytor/bestofn/internal/services"
)

// Pinger reports database reachability for readiness checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	ScoreService     services.ScoreService
	Templates        *template.Template
	DB               Pinger
	MetricsHandler   http.Handler
	Limiter          *rate.Limiter
	MaxDocumentBytes int64
}

type pageData map[string]any
