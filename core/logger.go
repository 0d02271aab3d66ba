package core

// Logger is any service that can log application messages.
// Implementations decide where messages end up (stdout, Rollbar, ...).
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
