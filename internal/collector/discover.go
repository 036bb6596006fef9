package collector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// reportDirPlaceholder marks a path relative to the Puppet reportdir, e.g.
// "RDIR/web01.example.com/*.yaml".
const reportDirPlaceholder = "RDIR/"

var reportExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// ResolvePath expands the RDIR/ placeholder. The report directory is
// prefixed to the whole path and the first RDIR/ is removed, so
// "RDIR/web01/*.yaml" becomes "<reportdir>/web01/*.yaml". Paths without the
// placeholder are returned unchanged.
func (c *Collector) ResolvePath(path string) string {
	if !strings.Contains(path, reportDirPlaceholder) {
		return path
	}
	joined := strings.TrimRight(c.reportDir, "/") + "/" + path
	return strings.Replace(joined, reportDirPlaceholder, "", 1)
}

// IsDirectory reports whether the resolved path is an existing directory.
func (c *Collector) IsDirectory(path string) bool {
	info, err := os.Stat(c.ResolvePath(path))
	return err == nil && info.IsDir()
}

// Discover lists the report files named by path. A directory is walked
// recursively for .yaml, .yml and .json files; anything else is treated as a
// glob pattern. Results are in lexical order.
func (c *Collector) Discover(path string) ([]string, error) {
	resolved := c.ResolvePath(path)

	if info, err := os.Stat(resolved); err == nil && info.IsDir() {
		files, err := walkReports(resolved)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, &LoadError{Path: resolved, Err: ErrNoReports}
		}
		return files, nil
	}

	matches, err := filepath.Glob(resolved)
	if err != nil {
		return nil, fmt.Errorf("invalid report pattern %q: %w", resolved, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}
	if len(files) == 0 {
		return nil, &LoadError{Path: resolved, Err: ErrNoReports}
	}
	return files, nil
}

func walkReports(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if reportExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan report directory %q: %w", root, err)
	}
	return files, nil
}
