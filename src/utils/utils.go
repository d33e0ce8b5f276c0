package utils

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"git.vibecoding.academy/vca/vca/src/oops"
)

// Checks for nil errors even when hiding behind a typed nil in an
// interface, e.g. a nil *MyError returned as error.
func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Returns the provided value, or a default value if the input was zero.
func OrDefault[T comparable](v T, def T) T {
	var zero T
	if v == zero {
		return def
	} else {
		return v
	}
}

func Min[T int | int64 | float64](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Max[T int | int64 | float64](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Clamp[T int | int64 | float64](min, t, max T) T {
	return Max(min, Min(t, max))
}

// Takes an (error) return and panics if there is an error.
// Helps avoid `if err != nil` in scripts. Use sparingly.
func Must(err error) {
	if !isNil(err) {
		panic(err)
	}
}

// Takes a (something, error) return and panics if there is an error.
// Helps avoid `if err != nil` in scripts. Use sparingly.
func Must1[T any](v T, err error) T {
	Must(err)
	return v
}

func Must2[T1, T2 any](v1 T1, v2 T2, err error) (T1, T2) {
	Must(err)
	return v1, v2
}

/*
Recover a panic and convert it to a returned error. Call it like so:

	func MyFunc() (err error) {
		defer utils.RecoverPanicAsError(&err)
	}

If an error was already set, the panicked error will wrap it; we can't
preserve two separate error chains and still play nice with the standard
library's Unwrap behavior, so the panic wins.
*/
func RecoverPanicAsError(err *error) {
	if r := recover(); r != nil {
		var recoveredErr error
		if rerr, ok := r.(error); ok {
			recoveredErr = rerr
		} else {
			recoveredErr = fmt.Errorf("panic with value: %v", r)
		}
		if *err != nil {
			recoveredErr = fmt.Errorf("%v (while handling error: %w)", recoveredErr, *err)
		}
		*err = oops.New(recoveredErr, "panic recovered as error")
	}
}

var ErrSleepInterrupted = errors.New("sleep interrupted by context cancellation")

// Sleeps until the duration elapses or the context is canceled, whichever
// comes first.
func SleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ErrSleepInterrupted
	case <-time.After(d):
		return nil
	}
}
