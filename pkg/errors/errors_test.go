package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessError_Chain(t *testing.T) {
	err := fmt.Errorf("claim row: %w", WrapConcurrentModification("ELC-1"))

	be, ok := AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeConcurrentModification, be.Code)
	assert.True(t, errors.Is(err, ErrConcurrentModification))
}

func TestBusinessError_Error(t *testing.T) {
	assert.Equal(t, "FORBIDDEN: no access (not permitted)", WrapForbidden("no access").Error())
	assert.Equal(t, "X: y", NewBusinessError("X", "y", nil).Error())

	_, ok := AsBusinessError(errors.New("plain"))
	assert.False(t, ok)
}
