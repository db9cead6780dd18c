package midata

// MergeInto appends to archive every row of child whose date is not already
// present in archive, keeping child's row order, and returns the number of
// rows appended. Existing archive rows are never touched.
//
// Dates are only checked against the archive as it was before the call, so
// two child rows sharing a new date are both appended.
func MergeInto(archive, child *Clean) int {
	if child == nil || len(child.rows) == 0 {
		return 0
	}

	known := make(map[string]struct{}, len(archive.rows))
	for _, r := range archive.rows {
		known[r.Date] = struct{}{}
	}

	added := 0
	for _, r := range child.rows {
		if _, ok := known[r.Date]; ok {
			continue
		}
		archive.rows = append(archive.rows, r)
		added++
	}
	return added
}
