package projector

// Number is the set of types numeric casts apply to.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Text is the set of string-based types.
type Text interface {
	~string
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}

	return *p
}

// MapPtr applies fn to *p, keeping nil as nil.
func MapPtr[S, T any](p *S, fn func(S) T) *T {
	if p == nil {
		return nil
	}

	v := fn(*p)
	return &v
}

// MapValue applies fn to *p, or returns def when p is nil.
func MapValue[S, T any](p *S, fn func(S) T, def T) T {
	if p == nil {
		return def
	}

	return fn(*p)
}

// CastOr converts *p to T, or returns def when p is nil.
func CastOr[T, S Number](p *S, def T) T {
	if p == nil {
		return def
	}

	return T(*p)
}

// CastPtr converts *p to T, keeping nil as nil.
func CastPtr[T, S Number](p *S) *T {
	if p == nil {
		return nil
	}

	v := T(*p)
	return &v
}

// CastTextOr converts *p to T, or returns def when p is nil.
func CastTextOr[T, S Text](p *S, def T) T {
	if p == nil {
		return def
	}

	return T(*p)
}

// CastTextPtr converts *p to T, keeping nil as nil.
func CastTextPtr[T, S Text](p *S) *T {
	if p == nil {
		return nil
	}

	v := T(*p)
	return &v
}
