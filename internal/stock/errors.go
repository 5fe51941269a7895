package stock

import (
	"errors"
	"fmt"
)

// Failure kinds reported by record stores. Match them with errors.Is.
var (
	ErrStorageRead  = errors.New("storage read failed")
	ErrFormat       = errors.New("stored content has unexpected format")
	ErrStorageWrite = errors.New("storage write failed")
)

// StoreError wraps an underlying store failure with its kind and the
// operation that hit it.
type StoreError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is matches the kind sentinel as well as anything in the wrapped chain.
func (e *StoreError) Is(target error) bool {
	return target == e.Kind
}

func ReadError(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrStorageRead, Err: err}
}

func FormatError(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrFormat, Err: err}
}

func WriteError(op string, err error) error {
	return &StoreError{Op: op, Kind: ErrStorageWrite, Err: err}
}

// KindOf returns a short label for the failure kind, used in logs and metrics.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStorageRead):
		return "read"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrStorageWrite):
		return "write"
	}
	return "other"
}
