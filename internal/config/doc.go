// Package config loads, normalizes, and validates recroute configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RECROUTE_TEMPLATE. The Config type centralizes the device identity strings
// the routing core matches against, the template used to pick a route table,
// and the knobs of the launch orchestration that surrounds it.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
