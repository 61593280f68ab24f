// Package rank reorders ranked sequences: a pure move operation and the
// interactive drag session built on top of it.
package rank

// IndexOf returns the index of the element whose key is id, or -1.
func IndexOf[T any, K comparable](seq []T, key func(T) K, id K) int {
	for i := range seq {
		if key(seq[i]) == id {
			return i
		}
	}
	return -1
}

// Move returns a new sequence with the element keyed moved removed and
// reinserted at target, clamped to [0, len(seq)-1]. The relative order of all
// other elements is preserved and seq is never modified. ok is false when no
// element has that key, in which case a copy of seq is returned.
func Move[T any, K comparable](seq []T, key func(T) K, moved K, target int) (out []T, ok bool) {
	out = make([]T, len(seq))
	copy(out, seq)

	from := IndexOf(seq, key, moved)
	if from < 0 {
		return out, false
	}

	if target < 0 {
		target = 0
	}
	if target > len(seq)-1 {
		target = len(seq) - 1
	}
	if target == from {
		return out, true
	}

	item := out[from]
	if from < target {
		copy(out[from:target], out[from+1:target+1])
	} else {
		copy(out[target+1:from+1], out[target:from])
	}
	out[target] = item
	return out, true
}

// Equal reports whether a and b hold the same keys in the same order.
func Equal[T any, K comparable](a, b []T, key func(T) K) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if key(a[i]) != key(b[i]) {
			return false
		}
	}
	return true
}
