package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadSchemaDir reads every *.json file in dir as a JSON schema keyed by its base name.
// An empty dir yields no schemas.
func LoadSchemaDir(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", p, err)
		}
		out[strings.TrimSuffix(filepath.Base(p), ".json")] = string(b)
	}
	return out, nil
}
