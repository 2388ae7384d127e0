package models

// MarkChecked returns a copy of candidates with Checked set on every
// genre whose id appears in refs. Ids are compared as canonical
// strings. Empty refs yields an all-false mask; empty candidates
// yields an empty slice.
func MarkChecked(candidates []Genre, refs []string) []Genre {
	out := make([]Genre, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Checked = false
		for _, ref := range refs {
			if out[i].ID == ref {
				out[i].Checked = true
				break
			}
		}
	}
	return out
}
