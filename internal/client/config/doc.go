// Package config loads runtime configuration for the bankcli client.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see Defaults).
//  2. An optional config file. An explicit path must exist; without one,
//     config.{yaml,json,toml} in the bankcli user config directory is read
//     when present.
//  3. Environment variables prefixed with BANKCLI_, e.g. BANKCLI_BASE_URL.
//  4. Overrides passed by the caller, normally command-line flags.
//
// Durations accept Go syntax such as "15s" or "5m":
//
//	base_url: http://localhost:8080/api
//	request_timeout: 15s
//	refresh_margin: 60s
//	rate_cache_ttl: 5m
package config
