package memory

import _ "embed"

// extractionPrompt is the instruction template for extraction calls, baked
// into the binary so capture works without any asset files on disk.
//
//go:embed templates/extract.md
var extractionPrompt string
