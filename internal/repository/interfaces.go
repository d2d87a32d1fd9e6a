package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/bestofn/internal/models"
)

// ErrNotFound is returned by writes that target a missing record.
var ErrNotFound = errors.New("record not found")

// SessionRepository handles dashboard session data access.
// Get returns (nil, nil) when the session does not exist.
type SessionRepository interface {
	Create(ctx context.Context, session models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	// ReplaceScores swaps the stored ScoreSet and extraction metadata of a
	// session in one transaction. Prior scores are never merged.
	ReplaceScores(ctx context.Context, session models.Session) error
	UpdateWindow(ctx context.Context, id string, window int, at time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	Count(ctx context.Context) (int, error)
}
