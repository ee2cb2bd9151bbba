// Package logging provides a simple leveled logging interface for rigal.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The initial level comes from the DEBUG and LOG_LEVEL environment variables.
// SetLevel overrides it once the configuration file or command-line flags
// have been read.
package logging
