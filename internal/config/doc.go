// Package config provides configuration structures and utilities for
// holidayscan. It defines the main options for fetching source pages,
// extraction, persistence, and report generation preferences.
package config
