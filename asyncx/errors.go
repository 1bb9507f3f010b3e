package asyncx

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Conversia-AI/craftable-serialx/errx"
)

// Error registry for asyncx
var ErrorRegistry = errx.NewRegistry("ASYNC")

// Error codes for asyncx
var (
	ErrCanceled = ErrorRegistry.Register("CANCELED", errx.TypeSystem, 499, "Operation was canceled")
	ErrTimeout  = ErrorRegistry.Register("TIMEOUT", errx.TypeTimeout, 408, "Operation timed out")
	ErrPoolSize = ErrorRegistry.Register("INVALID_POOL_SIZE", errx.TypeBadRequest, 400, "Invalid pool size")
)

// ErrorCollection holds multiple errors from concurrent operations, keyed by item index
type ErrorCollection struct {
	Errors    map[int]error
	Operation string
}

// Error implements the error interface
func (e *ErrorCollection) Error() string {
	return fmt.Sprintf("%s: %d operations failed", e.Operation, len(e.Errors))
}

// IsErrorCollection checks if an error is an ErrorCollection
func IsErrorCollection(err error) (*ErrorCollection, bool) {
	var ec *ErrorCollection
	ok := errors.As(err, &ec)
	return ec, ok
}

// HasError checks if there was an error at a specific index
func (e *ErrorCollection) HasError(index int) bool {
	_, exists := e.Errors[index]
	return exists
}

// GetError retrieves the error at a specific index
func (e *ErrorCollection) GetError(index int) error {
	if err, exists := e.Errors[index]; exists {
		return err
	}
	return nil
}

// Indexes returns the failed indexes in ascending order
func (e *ErrorCollection) Indexes() []int {
	idx := make([]int, 0, len(e.Errors))
	for i := range e.Errors {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// FilterSuccessful returns only the successful results
func FilterSuccessful[R any](results []R, err error) []R {
	ec, ok := IsErrorCollection(err)
	if !ok {
		if err != nil {
			return nil
		}
		return results
	}

	successful := make([]R, 0, len(results))
	for i, result := range results {
		if !ec.HasError(i) {
			successful = append(successful, result)
		}
	}
	return successful
}

func contextError(ctx context.Context) *errx.Error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ErrorRegistry.NewWithCause(ErrCanceled, ctx.Err())
	}
	return ErrorRegistry.NewWithCause(ErrTimeout, ctx.Err())
}
