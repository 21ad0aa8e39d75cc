package boilerplate

import (
	"fmt"
	"os"
	"path/filepath"
)

// InvalidTemplateError is returned when a fetched directory lacks the marker
// file. By the time it is returned the directory has been removed.
type InvalidTemplateError struct {
	Dir    string
	Marker string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid template: boilerplate has no %s at its root; removed %s", e.Marker, e.Dir)
}

// Validate checks that dir/marker is a regular file. Otherwise dir is deleted
// first and *InvalidTemplateError is returned.
func Validate(dir, marker string) error {
	info, err := os.Stat(filepath.Join(dir, marker))
	if err == nil && info.Mode().IsRegular() {
		return nil
	}

	if rmErr := os.RemoveAll(dir); rmErr != nil {
		return fmt.Errorf("removing rejected template %s: %w (%w)", dir, rmErr, &InvalidTemplateError{Dir: dir, Marker: marker})
	}
	return &InvalidTemplateError{Dir: dir, Marker: marker}
}
