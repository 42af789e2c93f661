// Package config loads logtree settings from YAML or TOML files and LOGTREE_*
// environment variables, and applies them to a logging.Manager.
//
// A settings file names handlers and wires them to loggers:
//
//	level: info
//	format: detailed
//	handlers:
//	  - name: console
//	    type: console
//	  - name: audit
//	    type: file
//	    path: /var/log/app/audit.log
//	    redact: true
//	loggers:
//	  app.audit:
//	    handlers: [audit]
//
// Presets cover the common cases without a file:
//
//	config.ApplyPreset(logging.Default(), "production", false)
//
// Watch re-applies a settings file whenever it changes.
package config
