package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)
	defer Init("warn", "text", &bytes.Buffer{})

	logrus.WithField("component", "test").Info("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "info", entry["level"])
}

func TestInitLevels(t *testing.T) {
	var buf bytes.Buffer
	Init("error", "text", &buf)
	defer Init("warn", "text", &bytes.Buffer{})

	logrus.Warn("dropped")
	assert.Empty(t, buf.String())
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())

	Init("nonsense", "text", &buf)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
}
