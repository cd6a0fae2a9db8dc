package logger

import (
	"log"
	"os"
)

var (
	debugMode = false
	infoLog   = log.New(os.Stdout, "[INFO] ", log.LstdFlags|log.Lmsgprefix)
	debugLog  = log.New(os.Stdout, "[DEBUG] ", log.LstdFlags|log.Lmsgprefix)
	errorLog  = log.New(os.Stderr, "[ERROR] ", log.LstdFlags|log.Lmsgprefix)
)

// SetDebug toggles debug-level output.
func SetDebug(debug bool) {
	debugMode = debug
}

// Info logs an informational message.
func Info(format string, v ...interface{}) {
	infoLog.Printf(format, v...)
}

// Debug logs a debug message when debug mode is on.
func Debug(format string, v ...interface{}) {
	if debugMode {
		debugLog.Printf(format, v...)
	}
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	errorLog.Printf(format, v...)
}

// Fatal logs an error message and exits.
func Fatal(format string, v ...interface{}) {
	errorLog.Fatalf(format, v...)
}
