// Package config loads runtime configuration for the vid2blog client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables VID2BLOG_*, after loading an optional .env file.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations may be strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_url": "https://api.vid2blog.example",
//	  "request_timeout": "20s",
//	  "upload_timeout": "10m",
//	  "database_path": "vid2blog.db",
//	  "ui_mode": "tui",
//	  "progress_interval": "3s",
//	  "otp_cooldown": "60s",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "log_file": "vid2blog.log"
//	}
package config
