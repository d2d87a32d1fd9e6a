package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/bestofn/internal/logger"
	"github.com/vytor/bestofn/internal/models"
	"github.com/vytor/bestofn/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("creating session: id=%s window=%d", s.ID, s.Window)

	state := s.State
	if state == "" {
		state = models.SessionNoData
	}

	q := sqlBuilder.Insert("sessions").
		Columns("id", "window_size", "state", "source_ref", "extracted_at", "created_at", "updated_at").
		Values(s.ID, s.Window, string(state), s.SourceRef, s.ExtractedAt, s.CreatedAt.UTC(), s.UpdatedAt.UTC())

	if _, err := exec(ctx, r.db, q); err != nil {
		log.Error("failed to create session: %v", err)
		return err
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%s", id)

	query, args, err := sqlBuilder.
		Select("id", "window_size", "state", "source_ref", "extracted_at", "created_at", "updated_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		s           models.Session
		state       string
		extractedAt sql.NullTime
	)
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.Window, &state, &s.SourceRef, &extractedAt, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	s.State = models.SessionState(state)
	if extractedAt.Valid {
		t := extractedAt.Time
		s.ExtractedAt = &t
	}

	s.Scores, err = r.scores(ctx, id)
	if err != nil {
		log.Error("failed to load scores for session %s: %v", id, err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) scores(ctx context.Context, id string) (models.ScoreSet, error) {
	query, args, err := sqlBuilder.
		Select("value").
		From("session_scores").
		Where(squirrel.Eq{"session_id": id}).
		OrderBy("rank ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := models.ScoreSet{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// scoreInsertBatch keeps each INSERT well under SQLite's bound variable limit
// (three variables per row).
const scoreInsertBatch = 500

// ReplaceScores overwrites the session row and all of its scores in one
// transaction.
func (r *sessionRepository) ReplaceScores(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("replacing scores: id=%s count=%d", s.ID, len(s.Scores))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		update := sqlBuilder.Update("sessions").
			Set("state", string(s.State)).
			Set("source_ref", s.SourceRef).
			Set("extracted_at", s.ExtractedAt).
			Set("updated_at", s.UpdatedAt.UTC()).
			Where(squirrel.Eq{"id": s.ID})
		if err := execOne(ctx, tx, update); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Error("failed to update session %s: %v", s.ID, err)
			}
			return err
		}

		if _, err := exec(ctx, tx, sqlBuilder.Delete("session_scores").Where(squirrel.Eq{"session_id": s.ID})); err != nil {
			log.Error("failed to clear scores for session %s: %v", s.ID, err)
			return err
		}

		for start := 0; start < len(s.Scores); start += scoreInsertBatch {
			end := min(start+scoreInsertBatch, len(s.Scores))
			insert := sqlBuilder.Insert("session_scores").Columns("session_id", "rank", "value")
			for rank := start; rank < end; rank++ {
				insert = insert.Values(s.ID, rank, s.Scores[rank])
			}
			if _, err := exec(ctx, tx, insert); err != nil {
				log.Error("failed to insert scores %d-%d for session %s: %v", start, end, s.ID, err)
				return err
			}
		}
		return nil
	})
}

func (r *sessionRepository) UpdateWindow(ctx context.Context, id string, window int, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating window: id=%s window=%d", id, window)

	q := sqlBuilder.Update("sessions").
		Set("window_size", window).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id})
	err := execOne(ctx, r.db, q)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Error("failed to update window: %v", err)
	}
	return err
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("deleting session: id=%s", id)

	// session_scores rows go with it via ON DELETE CASCADE.
	if _, err := exec(ctx, r.db, sqlBuilder.Delete("sessions").Where(squirrel.Eq{"id": id})); err != nil {
		log.Error("failed to delete session %s: %v", id, err)
		return err
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	n, err := exec(ctx, r.db, sqlBuilder.Delete("sessions").Where(squirrel.Lt{"updated_at": before.UTC()}))
	if err != nil {
		log.Error("failed to delete expired sessions: %v", err)
		return 0, err
	}
	log.Debug("deleted %d sessions idle since before %s", n, before.Format(time.RFC3339))
	return n, nil
}

func (r *sessionRepository) Count(ctx context.Context) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").From("sessions").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
