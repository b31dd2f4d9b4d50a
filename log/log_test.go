package log_test

import (
	"os"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/pipelined/river/log"
)

func TestNew(t *testing.T) {
	l := log.New(log.Config{})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	l = log.New(log.Config{Debug: true, Format: "json"})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestConfigFromEnv(t *testing.T) {
	os.Setenv("RIVER_DEBUG", "true")
	os.Setenv("RIVER_FORMAT", "json")
	defer os.Unsetenv("RIVER_DEBUG")
	defer os.Unsetenv("RIVER_FORMAT")

	var c log.Config
	err := envconfig.Process("river", &c)
	assert.Nil(t, err)
	assert.True(t, c.Debug)
	assert.Equal(t, "json", c.Format)
}

func TestSilent(t *testing.T) {
	l := log.Silent()
	l.Debug("dropped")
	l.Info("dropped")
}
