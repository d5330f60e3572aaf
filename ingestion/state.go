package ingestion

import "strings"

// ArchiveState tracks one archive through its lifecycle:
// Fetching -> Verifying -> Parsing -> Processing -> terminal.
// Terminal states are Completed, Partial, and Aborted.
type ArchiveState int

const (
	// StateFetching means the archive and its digest are being downloaded.
	StateFetching ArchiveState = iota

	// StateVerifying means the archive bytes are being checked against the
	// published digest while spooling to disk.
	StateVerifying

	// StateParsing means the verified archive is being opened by the lane
	// extractors.
	StateParsing

	// StateProcessing means lanes are extracting, embedding, and writing
	// records.
	StateProcessing

	// StateCompleted means every lane processed the archive to its end.
	StateCompleted

	// StateAborted means the archive could not be processed, for example a
	// checksum mismatch or corrupt content. No lane completed; a later run
	// refetches it.
	StateAborted

	// StatePartial means at least one lane halted before the end of the
	// archive while others completed. Halted lanes resume from their
	// checkpoints on the next run.
	StatePartial
)

// String returns a human-readable state name.
func (s ArchiveState) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateVerifying:
		return "verifying"
	case StateParsing:
		return "parsing"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	case StatePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// LaneResult summarizes one (archive, model) lane.
type LaneResult struct {
	Model     string
	Processed int // records embedded and written this run
	Skipped   int // records at or below the resume point
	Excluded  int // records removed by the content filter
	Err       error
}

// ArchiveResult summarizes one archive across all lanes.
type ArchiveResult struct {
	Sequence int
	State    ArchiveState
	Err      error // set when State is StateAborted
	Lanes    []LaneResult
}

// CollectionName derives the vector store collection for a model. Model
// names may contain characters that are awkward in collection names
// (slashes, colons), so anything outside [a-zA-Z0-9_-] is replaced with an
// underscore.
func CollectionName(prefix, model string) string {
	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(model))
	b.WriteString(prefix)
	b.WriteByte('_')
	for _, r := range model {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
