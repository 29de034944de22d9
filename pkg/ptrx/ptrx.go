// Package ptrx converts between values and pointers. Artifact links are
// optional and travel as *string.
package ptrx

// Of returns a pointer to a copy of v.
func Of[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value for nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// String returns a pointer to the string value passed in.
func String(v string) *string {
	return &v
}

// StringValue returns the value of the string pointer passed in or
// "" if the pointer is nil.
func StringValue(v *string) string {
	return Value(v)
}
