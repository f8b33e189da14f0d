package logger

import "log"

// A LoggerOptFn is a functional option configuring an AppLogger when constructing a new one.
type LoggerOptFn func(*AppLogger)

// WithEnv sets the environment the AppLogger is operating in.
func WithEnv(env string) func(*AppLogger) {
	return func(l *AppLogger) {
		l.env = env
	}
}

// WithLevel sets the log level the AppLogger uses.
func WithLevel(level LogLevel) func(*AppLogger) {
	return func(l *AppLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger the AppLogger uses.
func WithLogger(log *log.Logger) func(*AppLogger) {
	return func(l *AppLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*AppLogger) {
	return func(l *AppLogger) {
		l.skip = skip
	}
}
