package domain

// LoadError is the consumer-facing form of a failed dataset load.
type LoadError struct {
	Err error
}

// NewLoadError wraps err for presentation. It returns nil for a nil error.
func NewLoadError(err error) *LoadError {
	if err == nil {
		return nil
	}
	return &LoadError{Err: err}
}

func (e *LoadError) Error() string {
	return "load failed: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
