package fserr

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"not found", NotFound("File"), KindNotFound},
		{"path escape", PathEscape(), KindPathEscape},
		{"conflict", Conflict("Directory is not empty."), KindConflict},
		{"validation", Validation("Name is required."), KindValidation},
		{"io", IO(os.ErrPermission, "Unable to read file."), KindIO},
		{"wrapped", errors.Wrap(NotFound("Directory"), "browse"), KindNotFound},
		{"plain error", errors.New("boom"), KindIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
			assert.True(t, Is(tt.err, tt.expected) || tt.name == "plain error")
		})
	}
}

func TestIO_KeepsCause(t *testing.T) {
	t.Parallel()

	err := IO(os.ErrPermission, "Unable to delete item.")
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "Unable to delete item.")
}

func TestPathEscape_MessageHasNoPath(t *testing.T) {
	t.Parallel()

	var e *Error
	assert.True(t, errors.As(PathEscape(), &e))
	assert.Equal(t, "Path is outside of the root directory.", e.Message)
}
