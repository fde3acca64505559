package logger

import (
	"go.uber.org/zap"
)

var sugar = zap.NewNop().Sugar()

// Init replaces the no-op default with a real zap logger.
// Call once from main; library code just uses the package helpers.
func Init(appEnv string) error {
	var (
		l   *zap.Logger
		err error
	)
	if appEnv == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

func Debugf(template string, args ...interface{}) { sugar.Debugf(template, args...) }
func Infof(template string, args ...interface{})  { sugar.Infof(template, args...) }
func Warnf(template string, args ...interface{})  { sugar.Warnf(template, args...) }
func Errorf(template string, args ...interface{}) { sugar.Errorf(template, args...) }
func Fatalf(template string, args ...interface{}) { sugar.Fatalf(template, args...) }

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() { _ = sugar.Sync() }
