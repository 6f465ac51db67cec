package goroutine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/ticketflow/internal/shared/logger"
)

func TestGo(t *testing.T) {
	errBoom := errors.New("listen failed")

	assert.NoError(t, <-Go(logger.NewNop(), "ok", func() error { return nil }))
	assert.ErrorIs(t, <-Go(logger.NewNop(), "fail", func() error { return errBoom }), errBoom)

	err := <-Go(logger.NewNop(), "panic", func() error { panic("bad state") })
	assert.ErrorContains(t, err, "goroutine panic panicked: bad state")
}
