// Package config manages user-level settings stored at ~/.ngstart/config.yaml.
// Load merges built-in defaults, the YAML file and NGSTART_* environment
// variables into an explicit Config that is handed to the pipeline, so tests
// can point the pipeline at fixture repositories without touching globals.
package config
