package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/bestofn/internal/errors"
	"github.com/vytor/bestofn/internal/models"
	"github.com/vytor/bestofn/internal/repository"
	"github.com/vytor/bestofn/internal/services"
	"github.com/vytor/bestofn/internal/source"
	"github.com/vytor/bestofn/internal/testutil/mocks"
)

var fixedNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func newMockedService(repo *mocks.MockSessionRepository, src *mocks.MockTextSource) services.ScoreService {
	return services.NewScoreService(repo, src, 6,
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithIDGenerator(func() string { return "sess-1" }),
	)
}

func loadedSession() *models.Session {
	return &models.Session{
		ID:     "sess-1",
		Scores: models.ScoreSet{92, 88.5, 75},
		Window: 6,
		State:  models.SessionLoaded,
	}
}

func TestStartSession(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.ID == "sess-1" && s.Window == 6 && s.State == models.SessionNoData && s.CreatedAt.Equal(fixedNow)
	})).Return(nil)
	repo.On("Count", mock.Anything).Return(1, nil)

	svc := newMockedService(repo, new(mocks.MockTextSource))

	session, err := svc.StartSession(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, models.SessionNoData, session.State)
	assert.Empty(t, session.Scores)
	repo.AssertExpectations(t)
}

func TestStartSession_DefaultWindowFallback(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(s models.Session) bool { return s.Window == 6 })).Return(nil)
	repo.On("Count", mock.Anything).Return(1, nil)

	svc := services.NewScoreService(repo, new(mocks.MockTextSource), 0)

	session, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, session.Window)
	assert.Len(t, session.ID, 32)
}

func TestGetSession_NotFound(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("Get", mock.Anything, "nope").Return(nil, nil)

	svc := newMockedService(repo, new(mocks.MockTextSource))

	_, err := svc.GetSession(context.Background(), "nope")

	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestScrape_Loaded(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	src := new(mocks.MockTextSource)
	doc := source.Document{Ref: "https://evalify.example", Body: []byte("page")}

	repo.On("Get", mock.Anything, "sess-1").Return(&models.Session{ID: "sess-1", Window: 6, State: models.SessionNoData}, nil)
	src.On("Text", mock.Anything, doc).Return("Quiz 1 (92%) Quiz 2 (88.5%) Quiz 3 (75%)", nil)
	repo.On("ReplaceScores", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.State == models.SessionLoaded &&
			assert.ObjectsAreEqual(models.ScoreSet{92, 88.5, 75}, s.Scores) &&
			s.SourceRef == "https://evalify.example" &&
			s.Window == 6
	})).Return(nil)

	svc := newMockedService(repo, src)

	d, err := svc.Scrape(context.Background(), "sess-1", doc)

	require.NoError(t, err)
	assert.Equal(t, models.SessionLoaded, d.State)
	assert.Equal(t, 3, d.TotalFound)
	assert.Equal(t, 3, d.Result.SelectedCount)
	assert.InDelta(t, 85.1666, d.Result.Average, 1e-3)
	assert.Equal(t, "85.17%", d.AverageText)
	assert.Equal(t, "25.55", d.ScaledText)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, d.Chart.Labels)
	repo.AssertExpectations(t)
	src.AssertExpectations(t)
}

func TestScrape_NoDataReplacesPriorScores(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	src := new(mocks.MockTextSource)

	repo.On("Get", mock.Anything, "sess-1").Return(loadedSession(), nil)
	src.On("Text", mock.Anything, mock.Anything).Return("nothing to see", nil)
	repo.On("ReplaceScores", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.State == models.SessionNoData && len(s.Scores) == 0
	})).Return(nil)

	svc := newMockedService(repo, src)

	d, err := svc.Scrape(context.Background(), "sess-1", source.Document{Body: []byte("x")})

	assert.Nil(t, d)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNoData))
	repo.AssertExpectations(t)
}

func TestScrape_SourceUnavailable(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	src := new(mocks.MockTextSource)

	repo.On("Get", mock.Anything, "sess-1").Return(loadedSession(), nil)
	src.On("Text", mock.Anything, mock.Anything).Return("", source.ErrSourceUnavailable)
	repo.On("ReplaceScores", mock.Anything, mock.MatchedBy(func(s models.Session) bool {
		return s.State == models.SessionNoData && len(s.Scores) == 0
	})).Return(nil)

	svc := newMockedService(repo, src)

	_, err := svc.Scrape(context.Background(), "sess-1", source.Document{})

	assert.True(t, errors.HasCode(err, errors.ErrCodeSourceUnavailable))
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
	assert.False(t, errors.HasCode(err, errors.ErrCodeNoData), "unavailable must stay distinguishable from no data")
}

func TestScrape_DocumentTooLarge(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	src := new(mocks.MockTextSource)

	repo.On("Get", mock.Anything, "sess-1").Return(loadedSession(), nil)
	src.On("Text", mock.Anything, mock.Anything).Return("", source.ErrDocumentTooLarge)
	repo.On("ReplaceScores", mock.Anything, mock.Anything).Return(nil)

	svc := newMockedService(repo, src)

	_, err := svc.Scrape(context.Background(), "sess-1", source.Document{})

	assert.True(t, errors.HasCode(err, errors.ErrCodeBadRequest))
	assert.ErrorIs(t, err, source.ErrDocumentTooLarge)
}

func TestScrape_StorageFailure(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	src := new(mocks.MockTextSource)

	repo.On("Get", mock.Anything, "sess-1").Return(loadedSession(), nil)
	src.On("Text", mock.Anything, mock.Anything).Return("(50%)", nil)
	repo.On("ReplaceScores", mock.Anything, mock.Anything).Return(stderrors.New("disk I/O error"))

	svc := newMockedService(repo, src)

	_, err := svc.Scrape(context.Background(), "sess-1", source.Document{Body: []byte("(50%)")})

	assert.True(t, errors.HasCode(err, errors.ErrCodeInternal))
}

func TestSelectWindow_Invalid(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	svc := newMockedService(repo, new(mocks.MockTextSource))

	for _, n := range []int{0, -1} {
		_, err := svc.SelectWindow(context.Background(), "sess-1", n)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidSelection), "n=%d", n)
	}
	repo.AssertNotCalled(t, "UpdateWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectWindow_RecomputesWithoutExtracting(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	src := new(mocks.MockTextSource)

	session := &models.Session{ID: "sess-1", Scores: models.ScoreSet{90, 80, 70, 60, 50, 40, 30}, Window: 7, State: models.SessionLoaded}
	repo.On("UpdateWindow", mock.Anything, "sess-1", 7, fixedNow).Return(nil)
	repo.On("Get", mock.Anything, "sess-1").Return(session, nil)

	svc := newMockedService(repo, src)

	d, err := svc.SelectWindow(context.Background(), "sess-1", 7)

	require.NoError(t, err)
	assert.Equal(t, 7, d.Result.SelectedCount)
	assert.Equal(t, 60.0, d.Result.Average)
	src.AssertNotCalled(t, "Text", mock.Anything, mock.Anything)
}

func TestSelectWindow_MissingSession(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("UpdateWindow", mock.Anything, "gone", 5, fixedNow).Return(repository.ErrNotFound)

	svc := newMockedService(repo, new(mocks.MockTextSource))

	_, err := svc.SelectWindow(context.Background(), "gone", 5)

	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestSweepExpired(t *testing.T) {
	repo := new(mocks.MockSessionRepository)
	repo.On("DeleteExpired", mock.Anything, fixedNow.Add(-time.Hour)).Return(int64(2), nil)
	repo.On("Count", mock.Anything).Return(0, nil)

	svc := newMockedService(repo, new(mocks.MockTextSource))

	n, err := svc.SweepExpired(context.Background(), time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	repo.AssertExpectations(t)
}
