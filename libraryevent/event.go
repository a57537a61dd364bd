// Package libraryevent publishes library events to the broker.
//
// A LibraryEvent is serialized once, keyed by its identifier and handed to the
// broker client. Producer offers three ways to send it: SendSync waits for the
// broker, SendAsync returns the in-flight handle, and SendFireAndForget drops
// it. Every asynchronous outcome goes through DispatchCallback.
//
// Ordering: only events that carry an identifier are keyed. NEW events have no
// identifier, so they are left to the default partitioner and may land on a
// different partition than the UPDATE events that follow for the same book.
// Consumers get per-entity ordering only from the first UPDATE on.
package libraryevent

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DefaultTopic is the topic library events are published to
const DefaultTopic = "library-events"

// EventType tells consumers whether the event creates or updates a book
type EventType string

const (
	// EventTypeNew - a book added to the library
	EventTypeNew EventType = "NEW"
	// EventTypeUpdate - a change to a book already published
	EventTypeUpdate EventType = "UPDATE"
)

// Book is the entity carried by a library event
type Book struct {
	BookID     int    `json:"bookId"`
	BookName   string `json:"bookName"`
	BookAuthor string `json:"bookAuthor"`
}

// LibraryEvent is the message published for every create or update.
// LibraryEventID is nil exactly when LibraryEventType is NEW.
type LibraryEvent struct {
	LibraryEventID   *int      `json:"libraryEventId"`
	LibraryEventType EventType `json:"libraryEventType"`
	Book             Book      `json:"book"`
}

// NewEvent wraps book as a NEW event without an identifier
func NewEvent(book Book) LibraryEvent {
	return LibraryEvent{LibraryEventType: EventTypeNew, Book: book}
}

// UpdateEvent wraps book as an UPDATE of the event identified by id
func UpdateEvent(id int, book Book) LibraryEvent {
	return LibraryEvent{LibraryEventID: &id, LibraryEventType: EventTypeUpdate, Book: book}
}

// ErrKeyOutOfRange is returned for identifiers that do not fit a 32-bit key
var ErrKeyOutOfRange = errors.New("library event id out of int32 range")

// DeriveKey returns the partition key of ev: its identifier encoded with
// EncodeKey, or nil when it has none. Identifiers outside the int32 range
// are rejected rather than truncated.
func DeriveKey(ev LibraryEvent) ([]byte, error) {
	if ev.LibraryEventID == nil {
		return nil, nil
	}
	id := *ev.LibraryEventID
	if id < math.MinInt32 || id > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrKeyOutOfRange, id)
	}
	return EncodeKey(int32(id)), nil
}

// EncodeKey encodes id the way Kafka's IntegerSerializer does: four bytes,
// big-endian, two's complement.
func EncodeKey(id int32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(id))
	return key
}

// DecodeKey is the inverse of EncodeKey. A nil key decodes to nil.
func DecodeKey(key []byte) (*int, error) {
	if key == nil {
		return nil, nil
	}
	if len(key) != 4 {
		return nil, fmt.Errorf("key must be 4 bytes, got %d", len(key))
	}
	id := int(int32(binary.BigEndian.Uint32(key)))
	return &id, nil
}
