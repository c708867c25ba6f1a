// Package config loads, normalizes, and validates archivist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// WP_BASE and SOURCE_ROOT, including values declared in a working-directory
// .env file. The Config type centralizes every knob the CLI needs so the
// archive root, progress ledger, and CMS credentials are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
