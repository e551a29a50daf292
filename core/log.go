package core

import "time"

type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

var (
	// Verbose is set when we want to be exceptionally verbose.
	Verbose bool

	mode = InfoMode
)

// Logger provides a way for the application to log messages at different severities.
type Logger interface {
	// Debugf formats its arguments analogous to fmt.Printf and records the text as a log
	// message at Debug level.
	Debugf(format string, args ...interface{})

	// Infof is like Debugf, but at Info level.
	Infof(format string, args ...interface{})

	// Warningf is like Debugf, but at Warning level.
	Warningf(format string, args ...interface{})

	// Errorf is like Debugf, but at Error level.
	Errorf(format string, args ...interface{})

	// Criticalf is like Debugf, but at Critical level.
	Criticalf(format string, args ...interface{})

	// Shutdown makes sure logs are closed.
	Shutdown()
}

// SetLogMode sets the severity required for a log message to be printed.
// For example, SetLogMode(core.WarningMode) will log any calls using
// Warningf, Errorf, or Criticalf.  To turn off all logging, use SilentMode.
func SetLogMode(newMode ModeFlag) {
	mode = newMode
}

// LogMode returns the current logging severity threshold.
func LogMode() ModeFlag {
	return mode
}

// DebugEnabled returns true if Debugf messages are written.  Use it to skip costly
// argument computation.
func DebugEnabled() bool {
	return enabled(DebugMode)
}

// SetLogger replaces the package-level logger, e.g., to capture logs in tests.
// A nil Logger restores the default standard log output.
func SetLogger(l Logger) {
	if l == nil {
		logger = stdLogger{}
		return
	}
	logger = l
}

func enabled(level ModeFlag) bool {
	return mode <= level || (level == DebugMode && Verbose)
}

func Debugf(format string, args ...interface{}) {
	if enabled(DebugMode) {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if enabled(InfoMode) {
		logger.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if enabled(WarningMode) {
		logger.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if enabled(ErrorMode) {
		logger.Errorf(format, args...)
	}
}

func Criticalf(format string, args ...interface{}) {
	if enabled(CriticalMode) {
		logger.Criticalf(format, args...)
	}
}

// Shutdown closes the package-level logger.
func Shutdown() {
	logger.Shutdown()
}

// TimeLog adds elapsed time to logging.
// Example:
//
//	mylog := NewTimeLog()
//	...
//	mylog.Debugf("stuff happened")  // Appends elapsed time from NewTimeLog() to message.
type TimeLog struct {
	logger Logger
	start  time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{logger, time.Now()}
}

// Elapsed returns the time since the TimeLog was created.
func (t TimeLog) Elapsed() time.Duration {
	return time.Since(t.start)
}

// logf writes a message with the elapsed time appended if the level is enabled.
func (t TimeLog) logf(level ModeFlag, write func(string, ...interface{}), format string, args []interface{}) {
	if enabled(level) {
		write(format+": %s\n", append(args, t.Elapsed())...)
	}
}

func (t TimeLog) Debugf(format string, args ...interface{}) {
	t.logf(DebugMode, t.logger.Debugf, format, args)
}

func (t TimeLog) Infof(format string, args ...interface{}) {
	t.logf(InfoMode, t.logger.Infof, format, args)
}

func (t TimeLog) Warningf(format string, args ...interface{}) {
	t.logf(WarningMode, t.logger.Warningf, format, args)
}

func (t TimeLog) Errorf(format string, args ...interface{}) {
	t.logf(ErrorMode, t.logger.Errorf, format, args)
}

func (t TimeLog) Criticalf(format string, args ...interface{}) {
	t.logf(CriticalMode, t.logger.Criticalf, format, args)
}

func (t TimeLog) Shutdown() {
	t.logger.Shutdown()
}
