package emit

import (
	"fmt"
	"os"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes every file to its directory, creating directories
// as needed.
func WriteFiles(files []GeneratedFile) error {
	created := make(map[string]bool)

	for _, file := range files {
		if !created[file.Dir] {
			if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			created[file.Dir] = true
		}

		if err := os.WriteFile(file.Path(), file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}
	}

	return nil
}
