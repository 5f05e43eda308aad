package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel int

const (
	TRACE LogLevel = 5
	DEBUG LogLevel = 10
	INFO  LogLevel = 20
	WARN  LogLevel = 30
	ERROR LogLevel = 40
)

func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "trace"
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

type logfilePtr struct {
	f         *os.File
	useStdout bool
}

func (l *logfilePtr) Close() error {
	if l.useStdout || l.f == nil {
		return nil
	}
	return l.f.Close()
}

var (
	loggers  = map[LogLevel]*log.Logger{}
	minLevel LogLevel = TRACE

	// logfile stores a pointer to the log file descriptor
	logfile *logfilePtr
)

var prefixes = map[LogLevel]string{
	TRACE: "TRACE ",
	DEBUG: "DEBUG ",
	INFO:  "INFO  ",
	WARN:  "WARN  ",
	ERROR: "ERROR ",
}

// Init (re)directs all logging to file. A nil file disables logging.
func Init(file *os.File, useStdout bool, level LogLevel) error {
	loggers = map[LogLevel]*log.Logger{}

	if logfile != nil {
		if e := logfile.Close(); e != nil {
			return e
		}
		logfile = nil
	}

	minLevel = level
	if file == nil {
		return nil
	}
	logfile = &logfilePtr{f: file, useStdout: useStdout}
	initWriter(file)
	return nil
}

func initWriter(w io.Writer) {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	for lvl, prefix := range prefixes {
		loggers[lvl] = log.New(w, prefix, flags)
	}
}

// Close releases the log file, if any.
func Close() error {
	return Init(nil, false, minLevel)
}

func ParseLevel(value string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "trace":
		return TRACE, nil
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "err", "error":
		return ERROR, nil
	}
	return 0, fmt.Errorf("%s: invalid log level", value)
}

type Logger interface {
	Tracef(string, ...any)
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

type logger struct {
	name      string
	calldepth int
}

func NewLogger(name string) Logger {
	return &logger{name: name, calldepth: 2}
}

func (l *logger) output(level LogLevel, message string, args ...any) {
	out, ok := loggers[level]
	if !ok || minLevel > level {
		return
	}
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	if l.name != "" {
		message = fmt.Sprintf("[%s] %s", l.name, message)
	}
	out.Output(l.calldepth+1, message) //nolint:errcheck // we can't do anything with what we log
}

func (l *logger) Tracef(message string, args ...any) {
	l.output(TRACE, message, args...)
}

func (l *logger) Debugf(message string, args ...any) {
	l.output(DEBUG, message, args...)
}

func (l *logger) Infof(message string, args ...any) {
	l.output(INFO, message, args...)
}

func (l *logger) Warnf(message string, args ...any) {
	l.output(WARN, message, args...)
}

func (l *logger) Errorf(message string, args ...any) {
	l.output(ERROR, message, args...)
}

var root = logger{calldepth: 3}

func Tracef(message string, args ...any) {
	root.Tracef(message, args...)
}

func Debugf(message string, args ...any) {
	root.Debugf(message, args...)
}

func Infof(message string, args ...any) {
	root.Infof(message, args...)
}

func Warnf(message string, args ...any) {
	root.Warnf(message, args...)
}

func Errorf(message string, args ...any) {
	root.Errorf(message, args...)
}
