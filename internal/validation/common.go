// Package validation holds filesystem checks shared by the loader and the executor.
package validation

import (
	"errors"
	"fmt"
	"os"

	"tasker/internal/domain/consts"
	"tasker/internal/utils/logging"
)

// ValidateDirectory validates that the directory exists, else creates it if desired.
func ValidateDirectory(dir string, createIfNotFound bool) (os.FileInfo, error) {
	logging.D(3, "Statting directory %q...", dir)

	if dir == "" {
		return nil, errors.New("directory path is empty")
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("path %q exists but is not a directory", dir)
		}
		return info, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)
	case !createIfNotFound:
		return nil, fmt.Errorf("directory %q does not exist", dir)
	}

	if err := os.MkdirAll(dir, consts.PermsArchiveDir); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	logging.D(1, "Created directory %q", dir)

	return os.Stat(dir)
}

// ValidateFile validates that the path is an existing, non-empty regular file.
func ValidateFile(f string) (os.FileInfo, error) {
	logging.D(3, "Statting file %q...", f)

	info, err := os.Stat(f)
	switch {
	case err != nil:
		return nil, err
	case info.IsDir():
		return nil, fmt.Errorf("file passed in as directory %q, should be file", f)
	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("%q is not a regular file", f)
	case info.Size() == 0:
		return nil, fmt.Errorf("file %q is empty", f)
	}
	return info, nil
}
