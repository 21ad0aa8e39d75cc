// Package cli defines the Cobra command tree for the ngstart CLI. The root
// command runs the provisioning pipeline; version, config and doctor are
// helpers. Commands only parse flags and format output, the work happens in
// the pipeline and its stage packages.
package cli
