package codec

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a SerializationError.
type ErrorKind string

const (
	// KindUnsupported indicates the protocol cannot represent a construct.
	KindUnsupported ErrorKind = "Unsupported"

	// KindUnsupportedProtocol indicates the protocol number is unknown.
	KindUnsupportedProtocol ErrorKind = "UnsupportedProtocol"

	// KindUnhashable indicates a mutable composite was used as a set
	// element or mapping key.
	KindUnhashable ErrorKind = "Unhashable"
)

// SerializationError reports that a graph cannot be encoded under a
// protocol. It is an expected outcome, not a defect.
type SerializationError struct {
	Kind     ErrorKind
	Message  string
	Protocol Protocol
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsSerializationError returns true if err is or wraps a SerializationError.
func IsSerializationError(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

func unsupported(p Protocol, format string, args ...any) *SerializationError {
	return &SerializationError{
		Kind:     KindUnsupported,
		Message:  fmt.Sprintf(format, args...),
		Protocol: p,
	}
}

func unhashable(p Protocol, what string) *SerializationError {
	return &SerializationError{
		Kind:     KindUnhashable,
		Message:  fmt.Sprintf("unhashable %s", what),
		Protocol: p,
	}
}
