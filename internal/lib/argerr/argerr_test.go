package argerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestError(t *testing.T) {
	err := New("spacing", "must be at least %.1f meters, got %.2f", 0.5, 0.2)
	assert.Equal(t, `invalid argument "spacing": must be at least 0.5 meters, got 0.20`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	wrapped := fmt.Errorf("building plan: %w", err)
	assert.True(t, Is(wrapped))
	assert.False(t, Is(errors.New("boom")))

	var target *Error
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "spacing", target.Field)
}

func TestError_GRPCStatus(t *testing.T) {
	err := New("", "polygon is required")
	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "invalid argument: polygon is required", st.Message())
}
