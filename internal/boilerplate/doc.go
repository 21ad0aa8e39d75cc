// Package boilerplate fetches a template repository with git and checks that
// it belongs to the expected project family. A fetch never overwrites an
// existing path, and a rejected template is removed from disk before the
// error is returned.
package boilerplate
