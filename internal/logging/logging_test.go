package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevels(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	var buf bytes.Buffer
	require.NoError(t, Configure(&buf, ""))
	assert.Equal(t, DefaultLevel, logrus.GetLevel())

	logrus.Info("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, Configure(&buf, "debug"))
	logrus.WithField("entry", "github").Debug("visible")
	assert.Contains(t, buf.String(), "entry=github")
}

func TestConfigureInvalidLevel(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	var buf bytes.Buffer
	err := Configure(&buf, "loud")
	assert.Error(t, err)
	assert.Equal(t, DefaultLevel, logrus.GetLevel())
}
