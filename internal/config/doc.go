// Package config loads, validates, and normalizes lookout configuration.
//
// Configuration lives in a TOML file (default ~/.config/lookout/config.toml).
// Load applies repository defaults, merges the file when present, expands
// home-relative paths, backfills environment fallbacks for secrets, and
// validates the result. Validation failures are fatal at startup by design:
// a misconfigured pipeline must not run.
package config
