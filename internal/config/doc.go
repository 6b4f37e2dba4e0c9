// Package config loads, normalizes, and validates fileconverser configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and honours environment fallbacks such as FILECONVERSER_OUTPUT_DIR. The
// Config type centralizes the defaults new jobs are seeded with and the
// directories the CLI and API server write to.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum spellings, and clear validation errors.
package config
