package core

import "strings"

// DiffStats summarizes the line-level effect of an edit.
type DiffStats struct {
	Added   int `json:"added,omitempty"`   // lines present only after the edit
	Removed int `json:"removed,omitempty"` // lines present only before the edit
}

// ComputeDiffStats compares before and after line by line. Lines are matched
// as a multiset, so reordering is not counted. Returns nil when the texts
// have the same lines.
func ComputeDiffStats(before, after string) *DiffStats {
	if before == after {
		return nil
	}

	counts := make(map[string]int)
	for _, line := range splitLines(before) {
		counts[line]++
	}
	var added int
	for _, line := range splitLines(after) {
		if counts[line] > 0 {
			counts[line]--
			continue
		}
		added++
	}
	var removed int
	for _, n := range counts {
		removed += n
	}

	if added == 0 && removed == 0 {
		return nil
	}
	return &DiffStats{Added: added, Removed: removed}
}

// ChangedLines returns the lines of before that are missing from after and
// the lines of after that are missing from before, in document order.
func ChangedLines(before, after string) (removed, added []string) {
	beforeLines, afterLines := splitLines(before), splitLines(after)

	inAfter := make(map[string]int)
	for _, line := range afterLines {
		inAfter[line]++
	}
	inBefore := make(map[string]int)
	for _, line := range beforeLines {
		inBefore[line]++
	}

	for _, line := range beforeLines {
		if inAfter[line] > 0 {
			inAfter[line]--
			continue
		}
		removed = append(removed, line)
	}
	for _, line := range afterLines {
		if inBefore[line] > 0 {
			inBefore[line]--
			continue
		}
		added = append(added, line)
	}
	return removed, added
}

// splitLines splits s into lines. An empty string has no lines and a
// trailing newline does not start a new one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
