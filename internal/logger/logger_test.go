package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	log, err := New("debug", path)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("client_id", "42").Info("hello")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "client_id=42")
	assert.Contains(t, string(b), "hello")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
}
