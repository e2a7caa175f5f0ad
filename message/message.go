package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WinUP/dlcs-core/pkg/uuidx"
	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Mask is the bitfield a message is routed by. A listener receives a
// message when the two masks share at least one bit.
type Mask uint32

const (
	// MaskNone overlaps with no listener.
	MaskNone Mask = 0
	// MaskAll overlaps with every listener.
	MaskAll Mask = ^Mask(0)
)

// Overlaps reports whether the two masks share at least one bit.
func (m Mask) Overlaps(other Mask) bool { return m&other != 0 }

func (m Mask) String() string { return fmt.Sprintf("0x%08x", uint32(m)) }

// Stop is returned by a receiver to consume a message. The dispatch
// halts immediately and the message, as returned by the stopping
// receiver, becomes the result of the publish.
var Stop = errors.New("message consumed, propagation stopped")

// Receiver handles a message and returns its possibly modified
// successor. Returning Stop consumes the message; any other non-nil
// error aborts the dispatch.
type Receiver func(ctx context.Context, msg Message) (Message, error)

// Message is the envelope every dispatch carries through a listener
// tree.
type Message struct {
	ID        uuid.UUID
	Mask      Mask
	Tags      []string
	Payload   any
	Source    string
	Timestamp strfmt.DateTime
}

// New builds a message with a fresh v7 id and the current timestamp.
func New(mask Mask, payload any) Message {
	return Message{
		ID:        uuidx.New(),
		Mask:      mask,
		Payload:   payload,
		Timestamp: strfmt.DateTime(time.Now()),
	}
}

// WithTags returns a copy of the message carrying the given tags.
func (m Message) WithTags(tags ...string) Message {
	m.Tags = tags
	return m
}

// WithSource returns a copy of the message attributed to the given
// source.
func (m Message) WithSource(source string) Message {
	m.Source = source
	return m
}

// WithPayload returns a copy of the message carrying the given payload.
func (m Message) WithPayload(payload any) Message {
	m.Payload = payload
	return m
}

var messageJSON = []byte(`{"type":"message"}`)

// MarshalJSON implements custom JSON marshaling for Message. The
// envelope form exists for logs and test fixtures; there is no wire
// protocol.
func (m Message) MarshalJSON() ([]byte, error) {
	result := messageJSON

	var err error
	result, err = sjson.SetBytes(result, "id", m.ID.String())
	if err != nil {
		return nil, err
	}

	result, err = sjson.SetBytes(result, "mask", uint32(m.Mask))
	if err != nil {
		return nil, err
	}

	if len(m.Tags) > 0 {
		result, err = sjson.SetBytes(result, "tags", m.Tags)
		if err != nil {
			return nil, err
		}
	}

	if m.Payload != nil {
		payloadBytes, err := json.Marshal(m.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		result, err = sjson.SetRawBytes(result, "payload", payloadBytes)
		if err != nil {
			return nil, err
		}
	}

	if m.Source != "" {
		result, err = sjson.SetBytes(result, "source", m.Source)
		if err != nil {
			return nil, err
		}
	}

	if !m.Timestamp.IsZero() {
		result, err = sjson.SetBytes(result, "timestamp", m.Timestamp.String())
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// UnmarshalJSON implements custom JSON unmarshaling for Message.
// Payloads come back in the generic form produced by the JSON decoder.
func (m *Message) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}

	msgType := gjson.GetBytes(data, "type")
	if !msgType.Exists() || msgType.String() != "message" {
		return fmt.Errorf("missing or invalid type, expected 'message'")
	}

	id := gjson.GetBytes(data, "id")
	if !id.Exists() {
		return fmt.Errorf("missing required field 'id'")
	}
	if err := m.ID.UnmarshalText([]byte(id.String())); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	mask := gjson.GetBytes(data, "mask")
	if !mask.Exists() {
		return fmt.Errorf("missing required field 'mask'")
	}
	m.Mask = Mask(mask.Uint())

	if tags := gjson.GetBytes(data, "tags"); tags.Exists() {
		for _, tag := range tags.Array() {
			m.Tags = append(m.Tags, tag.String())
		}
	}

	if payload := gjson.GetBytes(data, "payload"); payload.Exists() {
		var value any
		if err := json.Unmarshal([]byte(payload.Raw), &value); err != nil {
			return fmt.Errorf("invalid payload: %w", err)
		}
		m.Payload = value
	}

	if source := gjson.GetBytes(data, "source"); source.Exists() {
		m.Source = source.String()
	}

	if timestamp := gjson.GetBytes(data, "timestamp"); timestamp.Exists() {
		if err := m.Timestamp.UnmarshalText([]byte(timestamp.String())); err != nil {
			return fmt.Errorf("invalid timestamp: %w", err)
		}
	}

	return nil
}
