package memory

import "strings"

// ParseNotes extracts the notes from a store file's text.
//
// Lines are trimmed; blank lines and #-headings are skipped. Bullet lines
// ("- " or "* ") take precedence: as soon as one bullet exists, every plain
// line in the same file is dropped from the result. Files with no bullets
// at all yield their plain lines verbatim, in order.
func ParseNotes(text string) []string {
	var bullets []string
	var plain []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if entry, ok := stripBullet(trimmed); ok {
			bullets = append(bullets, entry)
		} else {
			plain = append(plain, trimmed)
		}
	}

	if len(bullets) > 0 {
		return bullets
	}
	return plain
}

// ParseCandidates turns raw model output into an ordered, deduplicated
// list of proposed notes. A blank response or the NO_MEMORIES sentinel
// yields nothing. One leading bullet marker is stripped per line;
// duplicates fold case-insensitively, keeping the first-seen casing.
func ParseCandidates(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, noMemoriesResponse) {
		return nil
	}

	var entries []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, noMemoriesResponse) {
			continue
		}
		if entry, ok := stripBullet(line); ok {
			entries = append(entries, entry)
		} else {
			entries = append(entries, line)
		}
	}

	return dedupeNotes(entries)
}

// stripBullet removes one leading "- " or "* " marker and trims the rest.
func stripBullet(line string) (string, bool) {
	for _, marker := range []string{"- ", "* "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return line, false
}

// dedupeNotes drops case-insensitive duplicates, preserving first-seen
// order and casing.
func dedupeNotes(entries []string) []string {
	var deduped []string
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		key := noteKey(entry)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, entry)
	}

	return deduped
}

// noteKey is the dedup identity of a note: its lowercase form. Notes that
// differ only by casing are the same memory.
func noteKey(note string) string {
	return strings.ToLower(note)
}
