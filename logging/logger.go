// Package logging decouples the simulation from a concrete logging library.
package logging

// Logger is the logging surface used across the module.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

type nopLogger struct{}

// Nop discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debugf(string, ...interface{})              {}
func (nopLogger) Infof(string, ...interface{})               {}
func (nopLogger) Warnf(string, ...interface{})               {}
func (nopLogger) Errorf(string, ...interface{})              {}
func (nopLogger) Fatalf(string, ...interface{})              {}
func (n nopLogger) WithField(string, interface{}) Logger     { return n }
func (n nopLogger) WithFields(map[string]interface{}) Logger { return n }

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
