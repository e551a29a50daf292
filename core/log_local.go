package core

import (
	"fmt"
	"log"

	"github.com/natefinch/lumberjack"
)

var logger Logger = stdLogger{}

// LogConfig selects a rotating log file.  With no Logfile, messages go to the
// standard log output.
type LogConfig struct {
	Logfile string
	MaxSize int `toml:"max_log_size"`
	MaxAge  int `toml:"max_log_age"`
}

// SetLogger creates a logger that saves to a rotating log file.
func (c *LogConfig) SetLogger() {
	if c == nil || c.Logfile == "" {
		Debugf("Sending log messages to stderr since no log file specified.\n")
		return
	}
	fmt.Printf("Sending log messages to: %s\n", c.Logfile)
	l := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize, // megabytes
		MaxAge:   c.MaxAge,  // days
	}
	log.SetOutput(l)
	logger = stdLogger{l}
}

// stdLogger writes through the standard log package, whose output is the rotating
// file once LogConfig.SetLogger has run.
type stdLogger struct {
	*lumberjack.Logger
}

func (slog stdLogger) printf(level, format string, args []interface{}) {
	log.Printf("%8s %s", level, fmt.Sprintf(format, args...))
}

func (slog stdLogger) Debugf(format string, args ...interface{}) {
	slog.printf("DEBUG", format, args)
}

func (slog stdLogger) Infof(format string, args ...interface{}) {
	slog.printf("INFO", format, args)
}

func (slog stdLogger) Warningf(format string, args ...interface{}) {
	slog.printf("WARNING", format, args)
}

func (slog stdLogger) Errorf(format string, args ...interface{}) {
	slog.printf("ERROR", format, args)
}

func (slog stdLogger) Criticalf(format string, args ...interface{}) {
	slog.printf("CRITICAL", format, args)
}

func (slog stdLogger) Shutdown() {
	if slog.Logger == nil {
		return
	}
	log.Printf("Closing log file %s\n", slog.Filename)
	slog.Close()
}
