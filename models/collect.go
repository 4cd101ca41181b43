package models

// Concat flattens per-account result slices in order, so the final table
// preserves per-account row order with accounts appended in
// configuration order.
func Concat[T any](parts [][]T) []T {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total == 0 {
		return nil
	}
	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Dedup drops fully identical rows, keeping the first occurrence and the
// original order.
func Dedup[T comparable](rows []T) []T {
	if len(rows) == 0 {
		return rows
	}
	seen := make(map[T]struct{}, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
