package ledger

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// The record store reads and writes line-delimited flat files. Callers own
// their materialized state; nothing is cached here.

// LoadLines returns the non-empty lines of the file at path. A missing file
// is an empty store, never an error.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	return lines, nil
}

// Rewrite replaces the whole file with the given records, one per line,
// creating the parent directory on first use. The backing file carries no
// cross-process lock: two processes rewriting the same path race, and the
// last writer wins.
func Rewrite(path string, lines []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return &StorageError{Op: "rewrite", Path: path, Err: err}
	}
	return nil
}

// AppendLine adds one record to the end of the file, creating it if absent.
func AppendLine(path, line string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &StorageError{Op: "append", Path: path, Err: err}
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return &StorageError{Op: "append", Path: path, Err: err}
	}
	return nil
}

// ensureDir creates the parent directory so first-run succeeds.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}
