// Package config loads, validates, and normalizes panaudit configuration.
//
// Configuration lives in a TOML file, by default at
// ~/.config/panaudit/config.toml, with a project-local panaudit.toml as a
// fallback. Load applies defaults first, so a minimal file only needs the
// backend connection settings.
package config
