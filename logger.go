package improv

import "log"

// Logger is the minimal logging surface the client needs. Bring your own
// implementation or use one of the presets.
type Logger interface {
	Info(args ...interface{})
	Error(args ...interface{})
	Debug(args ...interface{})
}

// DefaultLogger is used when no logger is provided. Debug chatter is
// swallowed; info and errors go to the standard library logger.
type DefaultLogger struct{}

func (dl *DefaultLogger) Info(args ...interface{}) {
	log.Print(args...)
}

func (dl *DefaultLogger) Error(args ...interface{}) {
	log.Print(args...)
}

func (dl *DefaultLogger) Debug(args ...interface{}) {}
