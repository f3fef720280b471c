package ml

import "fmt"

// ModelLoadError reports a failure to acquire, read or decode the model
// artifact. It wraps the underlying cause.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("ml: load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// PredictionError wraps any failure raised by the underlying model during
// inference.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("ml: prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }
