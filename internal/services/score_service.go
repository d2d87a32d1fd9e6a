package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"time"

	"github.com/vytor/bestofn/internal/dashboard"
	"github.com/vytor/bestofn/internal/errors"
	"github.com/vytor/bestofn/internal/logger"
	"github.com/vytor/bestofn/internal/metrics"
	"github.com/vytor/bestofn/internal/models"
	"github.com/vytor/bestofn/internal/repository"
	"github.com/vytor/bestofn/internal/scores"
	"github.com/vytor/bestofn/internal/source"
)

// ScoreService owns dashboard sessions: it extracts scores from submitted
// pages, remembers the selection window and recomputes the best-of-N view.
type ScoreService interface {
	StartSession(ctx context.Context) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	Scrape(ctx context.Context, id string, doc source.Document) (*models.Dashboard, error)
	SelectWindow(ctx context.Context, id string, n int) (*models.Dashboard, error)
	Dashboard(ctx context.Context, id string) (*models.Dashboard, error)
	EndSession(ctx context.Context, id string) error
	SweepExpired(ctx context.Context, ttl time.Duration) (int64, error)
}

type scoreService struct {
	sessions      repository.SessionRepository
	source        source.TextSource
	metrics       metrics.Recorder
	defaultWindow int
	now           func() time.Time
	newID         func() string
}

// Option configures a ScoreService.
type Option func(*scoreService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *scoreService) { s.now = now }
}

// WithIDGenerator overrides the random session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *scoreService) { s.newID = gen }
}

// WithMetrics sets the event recorder. Defaults to metrics.Nop.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *scoreService) { s.metrics = rec }
}

// NewScoreService creates a new ScoreService. A defaultWindow below 1 falls
// back to scores.DefaultWindow.
func NewScoreService(sessions repository.SessionRepository, src source.TextSource, defaultWindow int, opts ...Option) ScoreService {
	if defaultWindow < 1 {
		defaultWindow = scores.DefaultWindow
	}
	s := &scoreService{
		sessions:      sessions,
		source:        src,
		metrics:       metrics.Nop{},
		defaultWindow: defaultWindow,
		now:           time.Now,
		newID:         newSessionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *scoreService) StartSession(ctx context.Context) (*models.Session, error) {
	log := logger.FromContext(ctx)

	now := s.now().UTC()
	session := models.Session{
		ID:        s.newID(),
		Scores:    models.ScoreSet{},
		Window:    s.defaultWindow,
		State:     models.SessionNoData,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("session started: id=%s window=%d", session.ID, session.Window)
	s.reportActive(ctx)
	return &session, nil
}

func (s *scoreService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx)

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", id)
	}
	return session, nil
}

// Scrape extracts scores from doc and replaces the session's ScoreSet
// wholesale. The selection window is kept. A document without scores, or
// one whose text cannot be read, leaves the session in NoData and returns
// NO_DATA or SOURCE_UNAVAILABLE respectively.
func (s *scoreService) Scrape(ctx context.Context, id string, doc source.Document) (*models.Dashboard, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	text, srcErr := s.source.Text(ctx, doc)
	extracted := models.ScoreSet{}
	if srcErr == nil {
		extracted = scores.Extract(text)
	}

	now := s.now().UTC()
	session.Scores = extracted
	session.SourceRef = doc.Ref
	session.ExtractedAt = &now
	session.UpdatedAt = now
	session.State = models.SessionNoData
	if !extracted.IsEmpty() {
		session.State = models.SessionLoaded
	}

	if err := s.sessions.ReplaceScores(ctx, *session); err != nil {
		log.Error("failed to store extraction: %v", err)
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("session", id)
		}
		return nil, errors.NewInternalError(err)
	}

	switch {
	case srcErr != nil:
		log.Warn("page text unavailable: %v", srcErr)
		s.metrics.Extraction(metrics.OutcomeUnavailable, 0)
		if stderrors.Is(srcErr, source.ErrDocumentTooLarge) {
			return nil, errors.NewDocumentTooLargeError(srcErr)
		}
		return nil, errors.NewSourceUnavailableError(srcErr)
	case extracted.IsEmpty():
		log.Info("no quiz percentages found")
		s.metrics.Extraction(metrics.OutcomeNoData, 0)
		return nil, errors.NewNoDataError()
	}

	log.Info("extracted %d quiz percentages", len(extracted))
	s.metrics.Extraction(metrics.OutcomeLoaded, len(extracted))
	return s.build(ctx, session)
}

// SelectWindow stores a new best-of window and recomputes the view from the
// cached ScoreSet. It is accepted in NoData too and applies to the next
// extraction.
func (s *scoreService) SelectWindow(ctx context.Context, id string, n int) (*models.Dashboard, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)

	if n < 1 {
		log.Warn("rejected selection window %d", n)
		return nil, errors.NewInvalidSelectionError(n, scores.ErrInvalidSelection)
	}

	if err := s.sessions.UpdateWindow(ctx, id, n, s.now().UTC()); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("session", id)
		}
		log.Error("failed to update window: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("selection window set to %d", n)
	s.metrics.WindowChanged(n)

	return s.Dashboard(ctx, id)
}

func (s *scoreService) Dashboard(ctx context.Context, id string) (*models.Dashboard, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, session)
}

func (s *scoreService) build(ctx context.Context, session *models.Session) (*models.Dashboard, error) {
	d, err := dashboard.Build(session)
	if err != nil {
		if stderrors.Is(err, scores.ErrInvalidSelection) {
			return nil, errors.NewInvalidSelectionError(session.Window, err)
		}
		logger.FromContext(ctx).Error("failed to build dashboard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if d.State == models.SessionLoaded {
		s.metrics.Aggregated()
	}
	return d, nil
}

func (s *scoreService) EndSession(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("ending session: id=%s", id)

	if err := s.sessions.Delete(ctx, id); err != nil {
		log.Error("failed to delete session: %v", err)
		return errors.NewInternalError(err)
	}
	s.reportActive(ctx)
	return nil
}

// SweepExpired removes sessions idle for longer than ttl.
func (s *scoreService) SweepExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	log := logger.FromContext(ctx)

	n, err := s.sessions.DeleteExpired(ctx, s.now().UTC().Add(-ttl))
	if err != nil {
		log.Error("failed to sweep sessions: %v", err)
		return 0, errors.NewInternalError(err)
	}
	if n > 0 {
		log.Info("swept %d idle sessions", n)
	}
	s.reportActive(ctx)
	return n, nil
}

func (s *scoreService) reportActive(ctx context.Context) {
	n, err := s.sessions.Count(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to count sessions: %v", err)
		return
	}
	s.metrics.ActiveSessions(n)
}
