// Package config handles configuration loading for convbot.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${CONVBOT_DB_PATH}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	sessions:
//	  idle_timeout: "10m"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings (websocket listener):
//
//	server:
//	  addr: "127.0.0.1:8080"
//	  path: "/ws"
//
// Database:
//
//	database:
//	  path: "/var/lib/convbot/convbot.db"
//
// Session timing:
//
//	sessions:
//	  idle_timeout: "10m"   # 0 disables the idle reset
//
// Frontends:
//
//	frontends:
//	  websocket:
//	    enabled: true
//	  console:
//	    history_file: "~/.convbot_history"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration from a path:
//
//	cfg, err := config.Load("/etc/convbot/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or start from the built-in defaults:
//
//	cfg := config.Default()
package config
