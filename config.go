package bytepatch

import (
	"time"

	"github.com/dmpcore/bytepatch/bitap"
)

// WordBits is the bitap pattern width the patch layer is hard-coded to.
// It bounds PatchMargin and PaddingLength and is threaded through
// splitMax and applyPadding.
const WordBits = bitap.WordBits

// Config holds the tunables for diff construction and patch application.
type Config struct {
	// DiffTimeout bounds wall-clock time spent inside Bisect. Zero means
	// unbounded: the half-match heuristic is disabled in that case to
	// guarantee a minimal diff.
	DiffTimeout time.Duration

	// MatchDistance and MatchThreshold configure the bitap matcher used
	// during patch application.
	MatchDistance  int
	MatchThreshold float64

	// PatchDeleteThreshold is the maximum acceptable
	// levenshtein(diff)/len(left) ratio before an imperfectly matched
	// fragment is rejected outright.
	PatchDeleteThreshold float64

	// PatchMargin is the chunk size used for patch context and for
	// splitMax's peeling budget.
	PatchMargin int
}

// NewDefaultConfig returns the conventional defaults used throughout the
// diff-match-patch lineage.
func NewDefaultConfig() *Config {
	return &Config{
		DiffTimeout:          time.Second,
		MatchDistance:        1000,
		MatchThreshold:       0.5,
		PatchDeleteThreshold: 0.5,
		PatchMargin:          4,
	}
}

func (c *Config) bitapConfig() bitap.Config {
	return bitap.Config{Distance: c.MatchDistance, Threshold: c.MatchThreshold}
}

// deadline returns the wall-clock deadline for a diff build, and whether
// building is time-bounded at all.
func (c *Config) deadline() (time.Time, bool) {
	if c.DiffTimeout <= 0 {
		return time.Time{}, false
	}
	return time.Now().Add(c.DiffTimeout), true
}
