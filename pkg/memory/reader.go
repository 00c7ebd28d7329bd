package memory

import (
	"log/slog"
	"strings"

	"github.com/entrhq/recall/pkg/config"
)

// ReadForInstructions merges the notes from every resolved store path into
// the block a prompt builder embeds ahead of user instructions. Paths are
// read in resolution order (global first) and notes deduplicate across
// paths by their lowercase key, first occurrence winning. The boolean is
// false when no store holds any notes.
//
// A store that cannot be read contributes nothing; the other stores are
// still surfaced.
func ReadForInstructions(cfg *config.Config) (string, bool) {
	var entries []string
	seen := make(map[string]struct{})

	for _, path := range Paths(cfg) {
		notes, err := readStoreFile(path)
		if err != nil {
			slog.Warn("memory: failed to read store", "path", path, "err", err)
			continue
		}

		for _, note := range notes {
			trimmed := strings.TrimSpace(note)
			if trimmed == "" {
				continue
			}
			key := noteKey(trimmed)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			entries = append(entries, trimmed)
		}
	}

	return buildSection(entries)
}

// buildSection renders merged notes as the section header followed by one
// bullet line per note.
func buildSection(entries []string) (string, bool) {
	if len(entries) == 0 {
		return "", false
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, SectionHeader)
	for _, entry := range entries {
		lines = append(lines, "- "+entry)
	}
	return strings.Join(lines, "\n"), true
}
