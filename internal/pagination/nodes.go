package pagination

// ConcatNodes returns left followed by every key of right not already
// present. Membership is by key. A null reference (empty key) in right has no
// key to compare, so it is matched by position: it is dropped only when left
// holds a null at the same index. The inputs are never modified.
func ConcatNodes(left, right []string) []string {
	seen := make(map[string]struct{}, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))
	for _, key := range left {
		if key != "" {
			seen[key] = struct{}{}
		}
		out = append(out, key)
	}
	for i, key := range right {
		if key == "" {
			if i < len(left) && left[i] == "" {
				continue
			}
			out = append(out, key)
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
