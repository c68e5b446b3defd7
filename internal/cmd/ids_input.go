package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// resolveIDs merges positional ids (comma separated allowed) with ids read
// from idsFile, one per line. "-" reads stdin.
func resolveIDs(positional []string, idsFile string, stdin io.Reader) ([]string, error) {
	var ids []string
	for _, raw := range positional {
		ids = append(ids, splitIDs(raw)...)
	}

	if path := strings.TrimSpace(idsFile); path != "" {
		fromFile, err := readIDs(path, stdin)
		if err != nil {
			return nil, err
		}
		ids = append(ids, fromFile...)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one id is required")
	}
	return ids, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func readIDs(path string, stdin io.Reader) ([]string, error) {
	reader := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close() // nolint:errcheck
		reader = file
	}

	var ids []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, splitIDs(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
