package version

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	var buf bytes.Buffer
	Describe(slog.New(slog.NewTextHandler(&buf, nil)))

	assert.Contains(t, buf.String(), "Library loaded")
	assert.Contains(t, buf.String(), "library=CCL")
	assert.Contains(t, buf.String(), "version="+Version)
}

func TestString(t *testing.T) {
	assert.Equal(t, "CCL "+Version, String())
}
