package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Append merges candidates against the store at path and appends the
// survivors, creating the file and its parent directory as needed. It
// returns how many notes were written. Candidates that duplicate an
// existing note, or an earlier candidate in the same batch, are dropped by
// their lowercase key. When nothing survives the merge the file is left
// untouched.
//
// The store is not locked: two processes appending concurrently can both
// pass the merge with the same note and duplicate it. Within one process
// the dedup set is local to each call.
func Append(path string, candidates []string) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	existing, err := readStoreFile(path)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, note := range existing {
		seen[noteKey(note)] = struct{}{}
	}

	var additions []string
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			continue
		}
		key := noteKey(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		additions = append(additions, trimmed)
	}

	if len(additions) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("memory: create store directory: %w", err)
	}

	empty, err := storeIsEmpty(path)
	if err != nil {
		return 0, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("memory: open store %s: %w", path, err)
	}

	// The whole batch goes out in a single append so a concurrent writer
	// cannot interleave lines inside it.
	var batch strings.Builder
	if empty {
		batch.WriteString(fileHeader + "\n")
	} else {
		batch.WriteString("\n")
	}
	for _, addition := range additions {
		batch.WriteString("- " + addition + "\n")
	}

	if _, err := file.WriteString(batch.String()); err != nil {
		file.Close()
		return 0, fmt.Errorf("memory: append notes to %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("memory: close store %s: %w", path, err)
	}

	return len(additions), nil
}
