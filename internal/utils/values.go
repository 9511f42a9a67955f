package utils

// Ptr returns a pointer to v.
//
// Example:
//
//	cfg.Temperature = utils.Ptr(0.2)
func Ptr[T any](v T) *T {
	return &v
}

