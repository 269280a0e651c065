package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger(t *testing.T) {
	for _, level := range []string{LogLevelNone, LogLevelInfo, LogLevelDebug} {
		l, err := GetLogger(level)
		require.NoErrorf(t, err, "level %q", level)
		require.NotNil(t, l)
	}

	_, err := GetLogger("not-a-level")
	assert.Error(t, err)
}

func TestMustGetLogger(t *testing.T) {
	assert.NotNil(t, MustGetLogger(LogLevelNone))
	assert.Panics(t, func() {
		MustGetLogger("not-a-level")
	})
}
