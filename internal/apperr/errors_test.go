package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionErrorMatchesSentinels(t *testing.T) {
	invalid := NewInvalidTransition("inventory item", "archived", "listed", nil)
	wrapped := fmt.Errorf("transition item: %w", invalid)

	assert.True(t, errors.Is(wrapped, ErrInvalidTransition))
	assert.False(t, errors.Is(wrapped, ErrInvalidStatus))

	var te *TransitionError
	assert.True(t, errors.As(wrapped, &te))
	assert.Equal(t, "archived", te.Current)
	assert.Contains(t, te.Error(), "none (terminal state)")

	unknown := NewInvalidStatus("invoice", "draft", "bogus", []string{"draft", "sent"})
	assert.True(t, errors.Is(unknown, ErrInvalidStatus))
	assert.False(t, errors.Is(unknown, ErrInvalidTransition))
	assert.Contains(t, unknown.Error(), "draft, sent")
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("load: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrConflict))
	assert.True(t, IsConflict(fmt.Errorf("cas: %w", ErrConflict)))
}
