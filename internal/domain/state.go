package domain

import (
	"slices"
	"time"
)

// IDRange is a closed interval of word IDs.
type IDRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns the number of IDs in the range.
func (r IDRange) Len() int64 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// MergeRanges returns a new sorted list where overlapping and adjacent
// ranges are merged. Inverted ranges are dropped. The input is not modified.
func MergeRanges(ranges []IDRange) []IDRange {
	sorted := make([]IDRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Start <= r.End {
			sorted = append(sorted, r)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	slices.SortFunc(sorted, func(a, b IDRange) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})

	merged := []IDRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End+1 {
			last.End = max(last.End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// SubtractRanges returns the parts of span not covered by any range in covered.
func SubtractRanges(span IDRange, covered []IDRange) []IDRange {
	if span.Start > span.End {
		return nil
	}

	var gaps []IDRange
	cursor := span.Start
	for _, c := range MergeRanges(covered) {
		if c.End < cursor {
			continue
		}
		if c.Start > span.End {
			break
		}
		if c.Start > cursor {
			gaps = append(gaps, IDRange{Start: cursor, End: c.Start - 1})
		}
		cursor = c.End + 1
		if cursor > span.End {
			return gaps
		}
	}
	return append(gaps, IDRange{Start: cursor, End: span.End})
}

// ProcessingState records which word IDs have already been scored.
// It is a value object: methods return modified copies.
type ProcessingState struct {
	Ranges           []IDRange
	LastProcessedID  int64
	TotalProcessed   int
	WithFrequency    int
	WithoutFrequency int
	UpdatedAt        time.Time
}

// BatchCounts are the per-batch counters folded into ProcessingState.
type BatchCounts struct {
	Processed        int
	WithFrequency    int
	WithoutFrequency int
}

// Covers reports whether every ID in span is already processed.
func (s ProcessingState) Covers(span IDRange) bool {
	return len(SubtractRanges(span, s.Ranges)) == 0
}

// Pending returns the sub-ranges of span that are not yet processed.
func (s ProcessingState) Pending(span IDRange) []IDRange {
	return SubtractRanges(span, s.Ranges)
}

// WithProcessed returns a copy of s with span merged into the covered ranges
// and the counters advanced.
func (s ProcessingState) WithProcessed(span IDRange, lastID int64, counts BatchCounts, at time.Time) ProcessingState {
	ranges := make([]IDRange, 0, len(s.Ranges)+1)
	ranges = append(ranges, s.Ranges...)
	ranges = append(ranges, span)

	next := s
	next.Ranges = MergeRanges(ranges)
	if lastID > next.LastProcessedID {
		next.LastProcessedID = lastID
	}
	next.TotalProcessed += counts.Processed
	next.WithFrequency += counts.WithFrequency
	next.WithoutFrequency += counts.WithoutFrequency
	next.UpdatedAt = at
	return next
}
