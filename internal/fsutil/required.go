package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// EntryFile is the document every served directory must contain.
const EntryFile = "index.html"

// MissingFilesError lists required files that are absent from a root.
type MissingFilesError struct {
	Files []string
}

func (err *MissingFilesError) Error() string {
	return fmt.Sprintf("missing required files: %s", strings.Join(err.Files, ", "))
}

// MissingFiles returns the names that do not exist as regular files in rootFS.
func MissingFiles(rootFS fs.FS, names ...string) ([]string, error) {
	missing := []string{}
	for _, name := range names {
		cleaned, err := CleanFSPath(name)
		if err != nil {
			return nil, err
		}
		info, err := fs.Stat(rootFS, cleaned)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, name)
				continue
			}
			return nil, err
		}
		if info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// RequireFiles returns a *MissingFilesError when any name is absent.
func RequireFiles(rootFS fs.FS, names ...string) error {
	missing, err := MissingFiles(rootFS, names...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &MissingFilesError{Files: missing}
	}
	return nil
}
