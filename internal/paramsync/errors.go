package paramsync

import "errors"

// Domain-specific errors for parameter commands received over MQTT.
var (
	// ErrUnknownParameter is returned for a command topic naming no field.
	ErrUnknownParameter = errors.New("paramsync: unknown parameter")

	// ErrReadOnly is returned for fields that cannot be set over MQTT:
	// text fields and counters.
	ErrReadOnly = errors.New("paramsync: parameter is read-only over MQTT")

	// ErrInvalidPayload is returned when a command payload is not a number.
	ErrInvalidPayload = errors.New("paramsync: invalid payload")

	// ErrOutOfRange is returned when a value lies outside the field bounds.
	ErrOutOfRange = errors.New("paramsync: value out of range")
)
