// Package config loads, validates, and normalizes Galleria configuration.
//
// Configuration comes from a TOML file (~/.config/galleria/config.toml by
// default, or galleria.toml in the working directory), layered over the
// defaults in defaults.go. Path fields are tilde-expanded and made absolute
// during normalization so downstream packages never deal with relative or
// home-anchored paths.
package config
