package slice

// Filter returns the elements of s for which keep returns true, in order.
// The result never aliases s.
func Filter[T any](s []T, keep func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Window returns s[offset:offset+limit] clamped to the bounds of s. A
// negative offset is treated as 0 and a negative limit as no limit.
func Window[T any](s []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s) {
		return s[:0:0]
	}
	end := len(s)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return s[offset:end:end]
}
