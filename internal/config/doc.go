// Package config provides configuration structures and utilities for urlreport.
// It defines where scan results are read from, how many URLs are processed
// at once, how reports are written and the optional list of tracked URLs
// loaded from a YAML file.
package config
