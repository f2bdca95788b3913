package checkpoint

import "errors"

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrNoLayers           = errors.New("checkpoint contains no layers")
	ErrUnknownActivation  = errors.New("unknown activation name")
	ErrShapeMismatch      = errors.New("layer record shape mismatch")
)
