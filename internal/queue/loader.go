package queue

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// ReadPathList loads a newline-delimited list of archive file paths. Blank
// lines are skipped; order and duplicates are preserved. Paths must match
// the archive's internal location field and are not validated here. An
// empty list is an error: it would queue nothing, which is never intended.
func ReadPathList(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("input file %s contains no file paths", path)
	}

	return paths, nil
}
