// Package memory extracts durable notes from conversation turns and
// persists them to plain-text store files.
//
// A note is one remembered fact, stored as a single line. Two stores
// exist: a global one under the recall home and an optional per-project
// one at the root of the enclosing git repository. The extraction pipeline
// asks a model backend to summarize the turn's text, parses the response
// into candidate notes, merges them against the target store, and appends
// the survivors. Everything that can fail is logged and swallowed: memory
// capture never fails the hosting turn.
package memory

// Store layout and extraction limits.
const (
	// DirName is the directory at a repository root that holds the
	// project-scoped store.
	DirName = ".recall"

	// FileName is the store file name, used under the recall home and
	// under DirName alike.
	FileName = "memories.md"

	// SectionHeader opens the rendered block handed to prompt builders.
	SectionHeader = "## Memories"

	// fileHeader is the cosmetic first line written to a brand-new store
	// file. It is written once and never rewritten.
	fileHeader = "# Memories"

	// maxStoreBytes caps how much of a store file is parsed. Larger files
	// are read from their trailing window only, so the newest notes
	// survive.
	maxStoreBytes = 8 * 1024

	// maxCandidatesPerTurn caps how many new notes one turn may persist.
	// Extra candidates are dropped, not rotated.
	maxCandidatesPerTurn = 6

	// promptMaxBytes caps the combined turn text sent for extraction.
	promptMaxBytes = 2000

	// noMemoriesResponse is the sentinel the model returns when the turn
	// holds nothing worth remembering.
	noMemoriesResponse = "NO_MEMORIES"
)
