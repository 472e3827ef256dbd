// Package discovery lists and classifies candidate stats files in the
// watched directory. It never parses file contents and never recurses
// into subdirectories.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// statsExtension is the only file extension Kovaak's uses for exports.
const statsExtension = ".csv"

// IsCandidate reports whether a file name looks like a stats export.
func IsCandidate(name string) bool {
	return strings.HasSuffix(name, statsExtension)
}

// ListCandidateFiles returns the full paths of all regular stats files
// directly inside dir.
func ListCandidateFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScanDirectory, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		if !IsCandidate(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// UniqueScenarioNames derives the sorted set of scenario names from the
// file names in dir, without parsing any file. The scenario name is the
// trimmed prefix before the first '-'.
func UniqueScenarioNames(dir string) ([]string, error) {
	files, err := ListCandidateFiles(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, path := range files {
		head, _, _ := strings.Cut(filepath.Base(path), "-")
		name := strings.TrimSpace(head)
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
