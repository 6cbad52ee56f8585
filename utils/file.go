package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// parseable filing extensions, lowercase
var filingExtensions = map[string]bool{
	".pdf":  true,
	".html": true,
	".htm":  true,
}

// ListFilingFiles returns the parseable filings directly inside dir,
// sorted by name so ingestion order is stable across runs.
func ListFilingFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filingExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// FileStem extracts the base filename without its extension.
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
