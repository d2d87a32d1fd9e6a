package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/bestofn/internal/errors"
)

func TestAppError_ErrorString(t *testing.T) {
	err := errors.NewNotFoundError("session", "abc")
	assert.Equal(t, "NOT_FOUND: session not found: abc", err.Error())

	cause := stderrors.New("empty body")
	wrapped := errors.NewSourceUnavailableError(cause)
	assert.Equal(t, "SOURCE_UNAVAILABLE: page content unavailable (empty body)", wrapped.Error())
}

func TestAppError_UnwrapAndAs(t *testing.T) {
	cause := stderrors.New("selection window must be at least 1")
	err := fmt.Errorf("select: %w", errors.NewInvalidSelectionError(0, cause))

	assert.ErrorIs(t, err, cause)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidSelection, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidSelection))
	assert.False(t, errors.HasCode(err, errors.ErrCodeNoData))
}

func TestAppError_Statuses(t *testing.T) {
	tests := []struct {
		err    *errors.AppError
		code   string
		status int
	}{
		{errors.NewNoDataError(), errors.ErrCodeNoData, http.StatusUnprocessableEntity},
		{errors.NewSourceUnavailableError(nil), errors.ErrCodeSourceUnavailable, http.StatusBadRequest},
		{errors.NewValidationError("n", "must be >= 1"), errors.ErrCodeValidation, http.StatusBadRequest},
		{errors.NewBadRequestError("bad"), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{errors.NewDocumentTooLargeError(nil), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{errors.NewInternalError(stderrors.New("boom")), errors.ErrCodeInternal, http.StatusInternalServerError},
		{errors.NewRateLimitedError(), errors.ErrCodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}

func TestAs_PlainError(t *testing.T) {
	_, ok := errors.As(stderrors.New("plain"))
	assert.False(t, ok)
}
