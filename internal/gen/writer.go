package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes one facade file per composition type into outputDir,
// creating the directory when needed. Existing facades are overwritten.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return fmt.Errorf("creating facade directory %s: %w", outputDir, err)
	}

	for _, file := range files {
		path := filepath.Join(outputDir, file.Filename)
		if err := os.WriteFile(path, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing facade %s: %w", file.Filename, err)
		}
	}

	return nil
}
