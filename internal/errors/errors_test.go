package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error without cause",
			err:      NewValidationError("missing column: date"),
			expected: "[VALIDATION] missing column: date",
		},
		{
			name:     "error with cause",
			err:      NewInputError("sentiment file not found", stderrors.New("no such file")),
			expected: "[INPUT] sentiment file not found: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("failed to write correlations.csv", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	assert.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewInputError("trade file not found", nil).
		WithContext("path", "data/historical_data.csv")

	assert.Equal(t, "data/historical_data.csv", err.Context["path"])
}

func TestNewRenderError(t *testing.T) {
	err := NewRenderError("scatter_pnl_vs_sentiment.png", stderrors.New("no data points"))

	assert.Contains(t, err.Error(), "scatter_pnl_vs_sentiment.png")
	assert.Equal(t, "scatter_pnl_vs_sentiment.png", err.Context["artifact"])
	assert.True(t, IsType(err, ErrTypeRender))
}

func TestIsType(t *testing.T) {
	err := NewParsingError("malformed csv", nil)

	assert.True(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(err, ErrTypeInput))
	assert.False(t, IsType(stderrors.New("plain"), ErrTypeParsing))
	assert.False(t, IsType(nil, ErrTypeParsing))
}

func TestIsType_WrappedAppError(t *testing.T) {
	inner := NewInputError("trade file not found", nil)
	wrapped := fmt.Errorf("load trades: %w", inner)

	assert.True(t, IsType(wrapped, ErrTypeInput))
	assert.False(t, IsType(wrapped, ErrTypeParsing))

	// An AppError carrying another AppError as its cause matches both types
	outer := NewStorageError("write failed", NewRenderError("bar_win_rate_by_sentiment_class.png", nil))
	assert.True(t, IsType(outer, ErrTypeStorage))
}
