// Package config loads, validates, and normalizes the TOML configuration
// shared by the podforge CLI and daemon.
package config
