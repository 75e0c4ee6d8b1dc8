package helpers

// StringSliceDiff returns the entries added to and removed from $before in $after
func StringSliceDiff(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]struct{}, len(before))
	for _, entry := range before {
		beforeSet[entry] = struct{}{}
	}
	afterSet := make(map[string]struct{}, len(after))
	for _, entry := range after {
		afterSet[entry] = struct{}{}
		if _, ok := beforeSet[entry]; !ok {
			added = append(added, entry)
		}
	}
	for _, entry := range before {
		if _, ok := afterSet[entry]; !ok {
			removed = append(removed, entry)
		}
	}
	return added, removed
}
