package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalidArgumentKeepsMessage(t *testing.T) {
	err := InvalidArgument("weight < 0")
	require.EqualError(t, err, "weight < 0")
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.NotErrorIs(t, err, ErrMissingRequiredValue)
	require.Equal(t, CodeInvalidArgument, CodeOf(err))
}

func TestMissingValueNamesField(t *testing.T) {
	err := fmt.Errorf("checkout: %w", MissingValue("tier"))
	require.ErrorIs(t, err, ErrMissingRequiredValue)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "tier", appErr.Field)
	require.Equal(t, CodeMissingValue, appErr.Code)
}

func TestCodeOfPlainError(t *testing.T) {
	require.Empty(t, CodeOf(errors.New("boom")))
	require.Empty(t, CodeOf(nil))
}
