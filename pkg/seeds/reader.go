// Package seeds reads seed gene lists and resolves them onto network nodes.
package seeds

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadList parses a seed list: one identifier per line or comma separated,
// in any mix. Lines starting with '#' are comments. Blank entries are dropped
// and duplicates removed, keeping the first occurrence.
func ReadList(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []string
	seen := make(map[string]struct{})
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = appendUnique(out, seen, strings.Split(line, ","))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read seed list: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptySeedList
	}
	return out, nil
}

// ReadFile reads a seed list from path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	ids, err := ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ids, nil
}

// Clean applies the ReadList rules to an inline list, such as the one given
// on the command line.
func Clean(raw []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, entry := range raw {
		out = appendUnique(out, seen, strings.Split(entry, ","))
	}
	if len(out) == 0 {
		return nil, ErrEmptySeedList
	}
	return out, nil
}

func appendUnique(out []string, seen map[string]struct{}, items []string) []string {
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
