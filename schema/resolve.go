package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	version "github.com/hashicorp/go-version"
)

type versionedFile struct {
	version *version.Version
	name    string
}

// Resolve picks a schema file named "<version>.json", "<version>.yaml" or
// "<version>.yml" from dir: the highest version not newer than serverVersion,
// or the highest available when serverVersion is empty. For equal versions
// the .json file wins. Files whose base name is not a version are ignored.
func Resolve(dir, serverVersion string) (string, error) {
	var server *version.Version
	if serverVersion != "" {
		v, err := version.NewVersion(serverVersion)
		if err != nil {
			return "", fmt.Errorf("invalid server version %q: %w", serverVersion, err)
		}
		server = v.Core()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read schema directory: %w", err)
	}
	var candidates []versionedFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		v, err := version.NewVersion(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		if err != nil {
			continue
		}
		if server != nil && v.GreaterThan(server) {
			continue
		}
		candidates = append(candidates, versionedFile{version: v, name: entry.Name()})
	}
	if len(candidates) == 0 {
		if server != nil {
			return "", fmt.Errorf("no schema in %s for server version %s", dir, serverVersion)
		}
		return "", fmt.Errorf("no schema in %s", dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.version.Equal(b.version) {
			return a.version.GreaterThan(b.version)
		}
		return extRank(a.name) < extRank(b.name)
	})
	return filepath.Join(dir, candidates[0].name), nil
}

func extRank(name string) int {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return 0
	case ".yaml":
		return 1
	default:
		return 2
	}
}
