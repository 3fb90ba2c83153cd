package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredError_Error(t *testing.T) {
	err := New(ErrCodeNotFound, "no boot entry")
	assert.Equal(t, "no boot entry", err.Error())

	wrapped := Wrap(ErrCodeIO, errors.New("permission denied"), "failed to read grub.cfg")
	assert.Equal(t, "failed to read grub.cfg: permission denied", wrapped.Error())
}

func TestStructuredError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeIO, cause, "failed to write")

	assert.True(t, errors.Is(err, cause))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeAmbiguous, "two current images"), ErrCodeAmbiguous},
		{"wrapped structured", fmt.Errorf("enable: %w", New(ErrCodeVerifyFailed, "mismatch")), ErrCodeVerifyFailed},
		{"plain", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestIsCode(t *testing.T) {
	err := Newf(ErrCodeInvalidInput, "record number %d out of range", 9)

	assert.True(t, IsCode(err, ErrCodeInvalidInput))
	assert.False(t, IsCode(err, ErrCodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeInvalidInput))
}

func TestReported(t *testing.T) {
	err := Reported(New(ErrCodeInvalidInput, "invalid key"))

	assert.True(t, IsReported(err))
	assert.True(t, IsReported(fmt.Errorf("file: %w", err)))
	assert.False(t, IsReported(New(ErrCodeInvalidInput, "invalid key")))
	assert.Nil(t, Reported(nil))

	// The code stays visible through the marker.
	assert.True(t, IsCode(err, ErrCodeInvalidInput))
}
