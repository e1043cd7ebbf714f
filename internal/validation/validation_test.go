package validation_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/graham-screener/internal/api/request"
	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/validation"
)

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, validation.ValidateUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.ErrorIs(t, validation.ValidateUUID(""), apperrors.ErrEmptyID)
	assert.ErrorIs(t, validation.ValidateUUID("run-1"), apperrors.ErrInvalidUUID)
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, validation.ValidateSymbol("brk.b"))
	assert.ErrorIs(t, validation.ValidateSymbol("a b"), apperrors.ErrInvalidSymbol)
}

func TestValidateScreenRequest(t *testing.T) {
	many := make([]string, validation.MaxBatchSymbols+1)
	for i := range many {
		many[i] = "KO"
	}

	tests := []struct {
		name   string
		req    request.ScreenRequest
		fields []string
	}{
		{"valid", request.ScreenRequest{Symbols: []string{"KO", "msft"}}, nil},
		{"empty", request.ScreenRequest{}, []string{"symbols"}},
		{"too many", request.ScreenRequest{Symbols: many}, []string{"symbols"}},
		{"bad entries", request.ScreenRequest{Symbols: []string{"KO", "", "x y"}}, []string{"symbols[1]", "symbols[2]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.ValidateScreenRequest(tt.req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *validation.Error
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.fields))
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &validation.Error{Fields: map[string]string{"b": "second", "a": "first"}}
	assert.Equal(t, "a: first; b: second", err.Error())
	assert.False(t, strings.HasSuffix(err.Error(), "; "))
}
