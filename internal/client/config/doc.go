// Package config loads runtime configuration for the todo CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. TODO_SERVER_URL, TODO_REQUEST_TIMEOUT and TODO_ONLINE_CHECK_INTERVAL.
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
