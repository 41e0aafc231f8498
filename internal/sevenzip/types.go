// Package sevenzip converts .7z archives into equivalent .zip archives
// by driving an external 7-Zip compatible binary.
//
// The package never reimplements compression. It locates a usable binary
// across explicit overrides, known install directories, the search path
// and an embedded fallback, probes the input for validity and encryption,
// extracts it into a private workspace, and repacks the explicit entry
// list into a zip, negotiating command-line compatibility across binary
// vintages along the way.
package sevenzip

import "os"

// Environment variable overrides recognized by OptionsFromEnv.
const (
	// EnvBinary is an explicit full path to the archive binary
	// (highest-priority override).
	EnvBinary = "REZIP_7Z_BINARY"
	// EnvBinaryDir is a directory searched first for named binary
	// candidates.
	EnvBinaryDir = "REZIP_7Z_DIR"
	// EnvDebug enables verbose logging when set to a non-empty value.
	EnvDebug = "REZIP_DEBUG"
)

// Options configures a Converter.
type Options struct {
	// BinaryPath is an explicit path to the 7-Zip binary. When set it is
	// the first resolution tier.
	BinaryPath string
	// BinaryDir is a directory searched before conventional install
	// locations for candidate binary names.
	BinaryDir string
	// Debug enables verbose logging through Logger.
	Debug bool
	// Logger receives stage-by-stage diagnostics. Defaults to a no-op
	// logger when nil.
	Logger Logger
}

// OptionsFromEnv builds Options from the REZIP_* environment overrides.
func OptionsFromEnv() Options {
	return Options{
		BinaryPath: os.Getenv(EnvBinary),
		BinaryDir:  os.Getenv(EnvBinaryDir),
		Debug:      os.Getenv(EnvDebug) != "",
	}
}

// Logger provides structured logging for conversion stages.
// This interface allows users to plug in their own logging implementation.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// defaultLogger returns the default no-op logger.
func defaultLogger() Logger {
	return &noopLogger{}
}
