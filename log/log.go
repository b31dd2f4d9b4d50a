// Package log provides loggers for river hosts.
package log

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Logger is a global interface for river loggers
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
}

// Config is read from RIVER_* environment variables.
type Config struct {
	Debug  bool   `envconfig:"DEBUG"`
	Format string `envconfig:"FORMAT" default:"text"`
}

var config Config

func init() {
	if err := envconfig.Process("river", &config); err != nil {
		config = Config{Format: "text"}
	}
}

// GetLogger returns a new logger instance configured from environment.
func GetLogger() *logrus.Logger {
	return New(config)
}

// New returns a new logger instance with provided config.
func New(c Config) *logrus.Logger {
	l := logrus.New()
	if c.Debug {
		l.SetLevel(logrus.DebugLevel)
	}
	if c.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// silent discards everything.
type silent struct{}

// Silent returns a logger which drops all messages.
func Silent() Logger {
	return silent{}
}

func (silent) Debug(...interface{}) {}

func (silent) Info(...interface{}) {}
