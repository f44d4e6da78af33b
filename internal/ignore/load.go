package ignore

import (
	"bufio"
	"fmt"
	"os"
)

// LoadFile reads an ignore file and returns its raw lines.
// An empty path returns no lines and no error.
func LoadFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ignore: open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ignore: read %s: %w", path, err)
	}
	return lines, nil
}
