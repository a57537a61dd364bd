package libraryevent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Serializer turns a LibraryEvent into the record value
type Serializer interface {
	Serialize(ev LibraryEvent) ([]byte, error)
}

// Deserializer reads a record value back into a LibraryEvent
type Deserializer interface {
	Deserialize(data []byte) (LibraryEvent, error)
}

// JSONSerializer writes the canonical form
//
//	{"libraryEventId":null,"libraryEventType":"NEW","book":{"bookId":424,"bookName":"X","bookAuthor":"Itamar"}}
//
// Field order follows the struct declarations, HTML characters are not
// escaped and there is no trailing newline.
type JSONSerializer struct{}

// Serialize converts ev to JSON bytes
func (JSONSerializer) Serialize(ev LibraryEvent) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, fmt.Errorf("JSONSerializer: failed to serialize: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Deserialize converts JSON bytes to a LibraryEvent
func (JSONSerializer) Deserialize(data []byte) (LibraryEvent, error) {
	var ev LibraryEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return LibraryEvent{}, fmt.Errorf("JSONSerializer: failed to deserialize: %w", err)
	}
	return ev, nil
}
