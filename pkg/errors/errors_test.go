package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			msg:      "additional context",
			expected: "additional context: original error",
		},
		{
			name:     "wrap sentinel",
			err:      ErrPackageNotFound,
			msg:      "resolving libfoo",
			expected: "resolving libfoo: package not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			require.Error(t, result)
			assert.Equal(t, tt.expected, result.Error())
		})
	}

	assert.Nil(t, Wrap(nil, "context"))
}

func TestWrapf_PreservesSentinel(t *testing.T) {
	err := Wrapf(ErrHeldPackage, "upgrade %s", "libfoo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHeldPackage))
	assert.Equal(t, "upgrade libfoo: package is held", err.Error())

	assert.Nil(t, Wrapf(nil, "upgrade %s", "libfoo"))
}
