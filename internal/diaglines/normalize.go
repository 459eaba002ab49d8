package diaglines

// normalize.go — diagnostic reshaping: lnum/col denormalization, line
// scoping, and flattening of the by-tool grouping returned by the editor's
// pull API.

import "sort"

// Normalize populates Lnum and Col on every diagnostic from its range start.
// Idempotent; safe to call on an already-normalized set.
func Normalize(set []Diagnostic) []Diagnostic {
	for i := range set {
		set[i].Lnum = set[i].Range.Start.Line
		set[i].Col = set[i].Range.Start.Character
	}
	return set
}

// OnLine reports whether a diagnostic spans the one-based cursor line lnum.
// Ranges are zero-based, so a diagnostic on lines [s,e] is on the cursor
// line iff s <= lnum-1 <= e.
func OnLine(d Diagnostic, lnum int) bool {
	return d.Range.Start.Line <= lnum-1 && lnum-1 <= d.Range.End.Line
}

// FilterLine returns the order-preserving subset of set on the one-based
// cursor line lnum. The result is never nil: an empty set must still reach
// the renderer so it can clear stale annotations.
func FilterLine(set []Diagnostic, lnum int) []Diagnostic {
	out := make([]Diagnostic, 0, len(set))
	for _, d := range set {
		if OnLine(d, lnum) {
			out = append(out, d)
		}
	}
	return out
}

// Flatten merges the by-tool grouping into one sequence. Group keys are
// visited in sorted order so repeated calls over the same input produce the
// same sequence.
func Flatten(grouped map[string][]Diagnostic) []Diagnostic {
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Diagnostic
	for _, k := range keys {
		out = append(out, grouped[k]...)
	}
	return out
}
