package plugin

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultManifest is the manifest file name used when none is configured.
const DefaultManifest = "plugins.pdp"

// ParseManifest reads plugin identifiers from r. Identifiers are
// whitespace-delimited; blank lines and lines whose first non-blank
// character is # are skipped.
func ParseManifest(r io.Reader) ([]string, error) {
	var names []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return names, nil
}

// ReadManifest reads the manifest at path and resolves relative
// identifiers against its directory.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names, err := ParseManifest(f)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i, name := range names {
		if !filepath.IsAbs(name) {
			names[i] = filepath.Join(dir, name)
		}
	}
	return names, nil
}
