package core

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// LeveledLogger is a Logger that can also grade messages by severity.
// Printf logs at the default level.
type LeveledLogger interface {
	Logger
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Debugf logs detail that only matters when diagnosing a run. Plain
// loggers receive it through Printf.
func Debugf(l Logger, format string, args ...interface{}) {
	if ll, ok := l.(LeveledLogger); ok {
		ll.Debugf(format, args...)
		return
	}
	l.Printf(format, args...)
}

// Warnf logs a recoverable problem
func Warnf(l Logger, format string, args ...interface{}) {
	if ll, ok := l.(LeveledLogger); ok {
		ll.Warnf(format, args...)
		return
	}
	l.Printf(format, args...)
}

// Errorf logs a failure
func Errorf(l Logger, format string, args ...interface{}) {
	if ll, ok := l.(LeveledLogger); ok {
		ll.Errorf(format, args...)
		return
	}
	l.Printf(format, args...)
}
