package results

import (
	"fmt"
	"path/filepath"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FilePrefix starts every default result file name.
const FilePrefix = "hashdrift_results_"

// DefaultFilename returns the conventional file name for a ResultSet
// produced under id, e.g. "hashdrift_results_linux_go1.23.4.json".
func DefaultFilename(id SystemIdentity) string {
	platform := cases.Lower(language.Und).String(id.Platform)
	return fmt.Sprintf("%s%s_%s.json", FilePrefix, platform, id.RuntimeVersion)
}

// Discover returns the result files in dir that follow the default naming
// convention, sorted by name.
func Discover(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FilePrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("discovering result files: %w", err)
	}
	slices.Sort(matches)
	return matches, nil
}
