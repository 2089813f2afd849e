// Package types contains small value types shared across the application.
package types

// Point is a 2-D projection coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Neighbor is another candidate ranked by vector similarity.
type Neighbor struct {
	Filename string  `json:"filename"`
	Sim      float64 `json:"sim"`
}

// Step is the outcome of a best-effort computation. When Degraded is set,
// Value holds the documented default and Reason says what failed.
type Step[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

// OK wraps a successful value.
func OK[T any](v T) Step[T] {
	return Step[T]{Value: v}
}

// Degrade wraps a default value with the failure reason.
func Degrade[T any](def T, err error) Step[T] {
	s := Step[T]{Value: def, Degraded: true}
	if err != nil {
		s.Reason = err.Error()
	}
	return s
}
