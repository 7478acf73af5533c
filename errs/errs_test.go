package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcode-github/gharbari/backend/errs"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, errs.KindNotFound, errs.KindOf(errs.NotFound("Property not found")))
	assert.Equal(t, errs.KindValidation, errs.KindOf(fmt.Errorf("create: %w", errs.Validation("bad"))))
	assert.Equal(t, errs.KindInternal, errs.KindOf(errors.New("boom")))
}

func TestUpstreamUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := errs.Upstream("Image upload failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Image upload failed", errs.MessageOf(err))
	assert.Contains(t, err.Error(), "connection reset")
}
