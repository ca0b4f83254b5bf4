// Package logging wires the structured logger every other package accepts
// as a plain logr.Logger parameter. Callers that don't want library output
// use logr.Discard(); this package is for the callers that do.
package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// New builds a logr.Logger backed by zap, console output on stdout/stderr.
// development toggles zap's development config (human-readable encoding,
// stack traces on warn) versus the JSON production config.
func New(development bool) (logr.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(zl), nil
}
