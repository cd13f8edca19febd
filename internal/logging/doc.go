// Package logging provides a simple leveled logging interface for the
// video player.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions, including session contract violations
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable
// (DEBUG=true forces debug). Output is written by zerolog, in console
// format by default or as JSON lines when LOG_FORMAT=json.
package logging
