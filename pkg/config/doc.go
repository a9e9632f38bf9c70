// Package config loads client configuration from three layered sources:
// built-in defaults, an optional YAML config file, and SCHEMECTL_*
// environment variables. Later sources win.
//
// # Environment variables
//
//	SCHEMECTL_API_URL        base URL of the scheme API
//	SCHEMECTL_TIMEOUT        uniform request timeout (Go duration)
//	SCHEMECTL_SESSION_FILE   session file path
//	SCHEMECTL_SESSION_WATCH  "true" to reload the session file on change
//	SCHEMECTL_LOG_LEVEL      debug | info | warn | error
//	SCHEMECTL_CONFIG         config file path override
//
// # Config file
//
// ~/.config/schemectl/config.yaml:
//
//	api:
//	  base_url: https://scheme.example.com
//	  timeout: 10s
//	session:
//	  path: /home/user/.config/schemectl/session.json
//	  watch: true
//	log:
//	  level: info
package config
