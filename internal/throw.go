package internal

import "github.com/pkg/errors"

// Threading errors through every heap operation and strategy callback would
// add a ton of noise for conditions that only arise from bugs or corrupt
// input. Instead, integrity failures panic with a GeometryError, and the
// public API and batch workers recover them into ordinary errors.

type GeometryError struct {
	error
}

func (e GeometryError) Unwrap() error {
	return e.error
}

// Panic with a GeometryError.
func fatalf(format string, args ...interface{}) {
	panic(GeometryError{errors.Errorf(format, args...)})
}

// Convert a recovered GeometryError into an error. Anything else is a real
// panic and is re-raised.
func HandlePanicRecover(r interface{}) error {
	if r != nil {
		if geometryError, ok := r.(GeometryError); ok {
			return geometryError
		}
		panic(r)
	}
	return nil
}
