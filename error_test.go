package secguide_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/secguide"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := secguide.Errorf(secguide.ENOTFOUND, "table %q not found", "security_guidance")

	assert.Equal(t, secguide.ENOTFOUND, secguide.ErrorCode(err))
	assert.Equal(t, "table \"security_guidance\" not found", secguide.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, secguide.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, secguide.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("rebuild: %w", secguide.Errorf(secguide.ESCHEMA, "bad width"))

	assert.Equal(t, secguide.ESCHEMA, secguide.ErrorCode(err))
	assert.Equal(t, "bad width", secguide.ErrorMessage(err))
}

func TestErrorCode_PlainErrorIsInternal(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, secguide.EINTERNAL, secguide.ErrorCode(err))
	assert.Equal(t, "Internal error.", secguide.ErrorMessage(err))
}
