// Package config loads typed configuration sections from environment
// variables. Each section is parsed once and cached, so packages can
// load their own config independently without re-reading the environment.
//
// A .env file in the working directory is loaded on first use when present,
// which keeps local development setups out of the shell profile.
package config
