// Package config persists connector credentials and app preferences.
//
// Settings live in a single file, JSON or YAML by extension, saved whole on
// every change. Every section is optional: a missing file or a partial
// config is normal and only blocks the features that need the missing
// section. Environment variables override file values for credentials.
package config
