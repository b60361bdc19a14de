package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted saves a facade that gofmt rejected as
// <type>.unformatted.go beside its intended file, so the template output
// can be inspected. Its error never replaces the formatting error.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	name := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(outDir, name), content, filePerm)
}
