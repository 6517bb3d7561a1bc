// Package config loads, normalizes, and validates paxmatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PAXMATCH_DECISIONS_DIR. The Config type centralizes every knob the pipeline
// and CLI need, so roster and booking inputs, the decisions folder, and the
// output folder are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
