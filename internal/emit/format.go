package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
	"mvdan.cc/gofumpt/format"
)

// format resolves imports and applies gofumpt. On failure the unformatted
// source is returned along with the error and a sidecar copy is written
// next to the intended output.
func (g *Generator) format(dir, filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filepath.Join(dir, filename), src, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err == nil {
		out, err = format.Source(out, format.Options{LangVersion: g.config.LangVersion})
	}

	if err != nil {
		if werr := writeDebugUnformatted(dir, filename, src); werr != nil {
			g.logger.Warn("writing unformatted sidecar", "file", filename, "error", werr)
		}

		return src, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return out, nil
}

// writeDebugUnformatted writes unformatted code to a sidecar file next to the
// intended output. Best-effort only.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	// Keep the .go extension for syntax highlighting without colliding with
	// real output.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(outDir, debugName), content, filePerm)
}
