package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whorl/internal/templatecodec"
)

// Template builds a deterministic fake template of the given length,
// seeded so different seeds produce different bytes.
func Template(seed byte, length int) []byte {
	tpl := make([]byte, length)
	for i := range tpl {
		tpl[i] = seed + byte(i)
	}
	return tpl
}

// EncodedTemplate returns the text form of Template(seed, length).
func EncodedTemplate(seed byte, length int) string {
	return templatecodec.Encode(Template(seed, length))
}

// WriteSourceFile writes the lines to a temp file and returns its path.
func WriteSourceFile(t testing.TB, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "templates.txt")
	contents := strings.Join(lines, "\n")
	if len(lines) > 0 {
		contents += "\n"
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}

// EncodedLines produces n encoded template lines with distinct payloads.
func EncodedLines(n, length int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = EncodedTemplate(byte(i+1), length)
	}
	return lines
}
