package queue

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// MaxChunkSize is the largest number of files the gateway accepts in a
// single Download request.
const MaxChunkSize = 10000

// SplitPaths partitions paths into ordered chunks of at most maxSize
// elements each. No reordering, no deduplication: concatenating the chunks
// reproduces the input exactly. An empty input yields zero chunks.
func SplitPaths(paths []string, maxSize int) ([][]string, error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxSize)
	}
	if len(paths) == 0 {
		return nil, nil
	}
	return lo.Chunk(paths, maxSize), nil
}

// DefaultBaseName is the Download name used when the user supplies none.
// Captured once at the start of a run so every part of a multi-chunk run
// shares the same base.
func DefaultBaseName(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// PartName derives the name for chunk index (1-based) out of total. A
// single-chunk run uses the base name unmodified.
func PartName(base string, index, total int) string {
	if total <= 1 {
		return base
	}
	return fmt.Sprintf("%s_part_%d", base, index)
}
