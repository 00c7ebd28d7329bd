package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// readStoreFile loads and parses the notes at path. A missing or empty
// file reads as no notes. Files over maxStoreBytes are parsed from their
// trailing window only, which may split the oldest surviving line.
func readStoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory: read store %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	if len(data) > maxStoreBytes {
		slog.Warn("memory: store file exceeds max size, parsing trailing window only",
			"path", path, "size", len(data), "max_bytes", maxStoreBytes)
		data = data[len(data)-maxStoreBytes:]
	}

	// A store must always read: invalid byte sequences are replaced, never
	// surfaced as errors.
	text := strings.ToValidUTF8(string(data), "�")
	return ParseNotes(text), nil
}

// storeIsEmpty reports whether the store still needs its cosmetic header,
// i.e. the file is missing or zero-length.
func storeIsEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("memory: stat store %s: %w", path, err)
	}
	return info.Size() == 0, nil
}
