package layer

import "sort"

// keyframes maps frame numbers to content.
type keyframes[T any] struct {
	frames map[int]T
}

func newKeyframes[T any]() keyframes[T] {
	return keyframes[T]{frames: make(map[int]T)}
}

func (k *keyframes[T]) set(frame int, v T) {
	k.frames[frame] = v
}

func (k *keyframes[T]) at(frame int) (T, bool) {
	v, ok := k.frames[frame]
	return v, ok
}

func (k *keyframes[T]) has(frame int) bool {
	_, ok := k.frames[frame]
	return ok
}

func (k *keyframes[T]) remove(frame int) bool {
	if _, ok := k.frames[frame]; !ok {
		return false
	}
	delete(k.frames, frame)
	return true
}

func (k *keyframes[T]) sorted() []int {
	out := make([]int, 0, len(k.frames))
	for f := range k.frames {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}

// last returns the key at or before frame.
func (k *keyframes[T]) last(frame int) (int, T, bool) {
	best, found := 0, false
	for f := range k.frames {
		if f <= frame && (!found || f > best) {
			best, found = f, true
		}
	}
	if !found {
		var zero T
		return 0, zero, false
	}
	return best, k.frames[best], true
}

// next returns the first key strictly after frame.
func (k *keyframes[T]) next(frame int) (int, T, bool) {
	best, found := 0, false
	for f := range k.frames {
		if f > frame && (!found || f < best) {
			best, found = f, true
		}
	}
	if !found {
		var zero T
		return 0, zero, false
	}
	return best, k.frames[best], true
}

func (k *keyframes[T]) clone(copyFn func(T) T) keyframes[T] {
	out := newKeyframes[T]()
	for f, v := range k.frames {
		out.frames[f] = copyFn(v)
	}
	return out
}
