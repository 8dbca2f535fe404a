package collector

import "context"

// Result is one element of a lazy sequence. A non-nil Err carries the failure
// that terminated or interrupted the producer.
type Result[T any] struct {
	Result T
	Err    error
}

// Send delivers r on ch unless ctx is done first. It reports whether r was delivered.
func Send[T any](ctx context.Context, ch chan<- Result[T], r Result[T]) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- r:
		return true
	}
}
