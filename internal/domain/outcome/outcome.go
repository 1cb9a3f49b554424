// Package outcome carries the result of a pipeline stage: either a
// value or a classified failure with a stable code the HTTP layer can
// surface to callers.
package outcome

// Outcome is the tagged result of a fallible stage.
type Outcome[T any] struct {
	ok      bool
	value   T
	code    string
	message string
}

// Ok wraps a successful value.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{ok: true, value: v}
}

// Fail records a classified failure.
func Fail[T any](code, message string) Outcome[T] {
	return Outcome[T]{code: code, message: message}
}

// Success reports whether the stage produced a value.
func (o Outcome[T]) Success() bool { return o.ok }

// Value returns the stage result. Only meaningful when Success is true.
func (o Outcome[T]) Value() T { return o.value }

// Code returns the failure classification, empty on success.
func (o Outcome[T]) Code() string { return o.code }

// Message returns the human-readable failure detail, empty on success.
func (o Outcome[T]) Message() string { return o.message }
