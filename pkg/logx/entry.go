package logx

import "fmt"

// Entry carries fields for a log line. Entries are values: every With*
// call returns a new Entry, so a base entry (for example one scoped to a
// document run) can be shared and extended per page or region.
type Entry struct {
	logger *Logger
	fields Fields
	err    error
}

func newEntry(logger *Logger) *Entry {
	return &Entry{logger: logger, fields: make(Fields)}
}

func (e *Entry) derive() *Entry {
	return &Entry{logger: e.logger, fields: e.fields.clone(), err: e.err}
}

// WithField returns a copy of the entry with key set
func (e *Entry) WithField(key string, value any) *Entry {
	out := e.derive()
	out.fields[key] = value
	return out
}

// WithFields returns a copy of the entry with all fields set
func (e *Entry) WithFields(fields Fields) *Entry {
	out := e.derive()
	for k, v := range fields {
		out.fields[k] = v
	}
	return out
}

// WithError returns a copy of the entry carrying err
func (e *Entry) WithError(err error) *Entry {
	out := e.derive()
	out.err = err
	return out
}

func (e *Entry) Trace(msg string) { e.logger.log(LevelTrace, msg, e.fields, e.err) }
func (e *Entry) Debug(msg string) { e.logger.log(LevelDebug, msg, e.fields, e.err) }
func (e *Entry) Info(msg string)  { e.logger.log(LevelInfo, msg, e.fields, e.err) }
func (e *Entry) Warn(msg string)  { e.logger.log(LevelWarn, msg, e.fields, e.err) }
func (e *Entry) Error(msg string) { e.logger.log(LevelError, msg, e.fields, e.err) }

// Fatal logs at fatal level and exits
func (e *Entry) Fatal(msg string) {
	e.logger.log(LevelFatal, msg, e.fields, e.err)
	e.logger.exit(1)
}

func (e *Entry) Debugf(format string, args ...any) {
	e.logger.log(LevelDebug, fmt.Sprintf(format, args...), e.fields, e.err)
}

func (e *Entry) Infof(format string, args ...any) {
	e.logger.log(LevelInfo, fmt.Sprintf(format, args...), e.fields, e.err)
}

func (e *Entry) Warnf(format string, args ...any) {
	e.logger.log(LevelWarn, fmt.Sprintf(format, args...), e.fields, e.err)
}

func (e *Entry) Errorf(format string, args ...any) {
	e.logger.log(LevelError, fmt.Sprintf(format, args...), e.fields, e.err)
}
