// Package config loads and validates rigal.toml.
//
// Loading follows a fixed sequence: Default values are decoded over by the
// TOML file, paths are normalized to absolute form, and the result is
// validated. Any failure is reported as an *Error so the caller can tell a
// configuration problem apart from a build failure.
//
// CreateSample writes the embedded sample configuration used by `rigal new`.
package config
