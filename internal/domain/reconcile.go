package domain

// ReplaceByID returns a copy of list with the element whose key equals
// key(updated) swapped for updated. Unknown ids leave the list unchanged.
func ReplaceByID[T any](list []T, updated T, key func(T) int) []T {
	id := key(updated)
	out := make([]T, len(list))
	for i, v := range list {
		if key(v) == id {
			out[i] = updated
			continue
		}
		out[i] = v
	}
	return out
}

// FilterByID returns a copy of list without the elements keyed by id.
func FilterByID[T any](list []T, id int, key func(T) int) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if key(v) != id {
			out = append(out, v)
		}
	}
	return out
}
