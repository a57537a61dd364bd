package libraryevent

import (
	"fmt"
	"strconv"
)

// SerializationError means the event could not be encoded. Nothing was sent.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize library event: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// DeliveryError means the broker did not acknowledge the event, or did not
// answer in time. Err is the transport cause.
type DeliveryError struct {
	Topic string
	Key   []byte
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver library event to %s (key %s): %v", e.Topic, keyString(e.Key), e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// keyString renders a partition key for logs and errors
func keyString(key []byte) string {
	id, err := DecodeKey(key)
	switch {
	case err != nil:
		return fmt.Sprintf("%x", key)
	case id == nil:
		return "null"
	default:
		return strconv.Itoa(*id)
	}
}
