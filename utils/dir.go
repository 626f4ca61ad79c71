package utils

import (
	"os"

	"github.com/pkg/errors"
)

// EnsureDir creates dir and any missing parents. An existing directory is
// not an error; an existing file with the same name is.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}
	return nil
}
