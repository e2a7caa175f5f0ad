package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
//
// Parameters:
//   - err: The error to be converted into a slog.Attr.
//
// Returns:
//   - slog.Attr: An attribute with the key "error" and the error's message as the value.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// Stringer creates a slog.Attr with the provided key and the string representation
// of the given fmt.Stringer value. This function is useful for logging purposes
// where you want to include a string representation of an object that implements
// the fmt.Stringer interface.
//
// Parameters:
//   - key: A string representing the key for the attribute.
//   - value: An object that implements the fmt.Stringer interface.
//
// Returns:
//   - slog.Attr: An attribute containing the key and the string representation of the value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

const (
	// KeyListener is the key for a listener node identity.
	KeyListener = "listener"
	// KeyComponent is the key for a registered component label.
	KeyComponent = "component"
)

// Listener returns an attribute carrying a listener node identity.
// The attribute key is defined by KeyListener.
//
// Parameters:
//   - identity: The identity label of the listener node.
//
// Returns:
//
//	A slog.Attr containing the listener identity.
func Listener(identity string) slog.Attr {
	return slog.String(KeyListener, identity)
}

// Component returns an attribute carrying a registered component label.
// The attribute key is defined by KeyComponent.
//
// Parameters:
//   - label: The label of the component.
//
// Returns:
//
//	A slog.Attr containing the component label.
func Component(label string) slog.Attr {
	return slog.String(KeyComponent, label)
}
