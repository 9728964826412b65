package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Iteration - one captured revision of the mutable part of a message.
type Iteration struct {
	Timestamp     time.Time // When the revision was received or, for edits, when the platform says it was made.
	MayContainGap bool      // Set when revisions before this one may have been missed.
	SessionID     uuid.UUID // Archiver run that captured this revision.
	Connection    uint32    // Gateway connection within the run, bumped on every fresh (not resumed) connect.

	Content      string
	Attachments  []Attachment
	Embeds       []Embed
	Components   []Component
	StickerItems []StickerItem
}

// PossibleGaps returns the indices of iterations that may be preceded by
// unobserved revisions: either the iteration carries the gap flag or it was
// captured by a different session or gateway connection than the one before it.
func PossibleGaps(iterations []Iteration) []int {
	gaps := make([]int, 0)
	for i, it := range iterations {
		switch {
		case it.MayContainGap:
			gaps = append(gaps, i)
		case i > 0 && iterations[i-1].SessionID != it.SessionID:
			gaps = append(gaps, i)
		case i > 0 && iterations[i-1].Connection != it.Connection:
			gaps = append(gaps, i)
		}
	}
	return gaps
}

func appendIteration(iterations []Iteration, it Iteration) []Iteration {
	out := slices.Clone(iterations)
	return append(out, it)
}
