// Package resource implements the resource manager side of the listener
// protocol: requests identify a protocol and address, loaders resolve
// them, and every response is broadcast to the listener trees on a
// reserved mask and tag so resource listeners can filter by address,
// tags and params.
package resource

import (
	"time"

	"github.com/WinUP/dlcs-core/message"
	"github.com/WinUP/dlcs-core/pkg/uuidx"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

const (
	// ResponseMask is the reserved mask resource responses broadcast
	// on.
	ResponseMask message.Mask = 1 << 30
	// ResponseTag marks a message as a resource response.
	ResponseTag = "resource.response"
)

// Request describes one resource load.
type Request struct {
	ID        uuid.UUID       `json:"id"`
	Protocol  string          `json:"protocol"`
	Address   string          `json:"address"`
	Tags      []string        `json:"tags,omitempty"`
	Params    map[string]any  `json:"params,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// NewRequest builds a request with a fresh id and the current
// timestamp.
func NewRequest(protocol, address string) Request {
	return Request{
		ID:        uuidx.New(),
		Protocol:  protocol,
		Address:   address,
		Timestamp: strfmt.DateTime(time.Now()),
	}
}

// WithTags returns a copy of the request carrying the given tags.
func (r Request) WithTags(tags ...string) Request {
	r.Tags = tags
	return r
}

// WithParams returns a copy of the request carrying the given params.
func (r Request) WithParams(params map[string]any) Request {
	r.Params = params
	return r
}

// URI reconstructs the protocol://address form, the string address
// filters are matched against.
func (r Request) URI() string {
	return r.Protocol + "://" + r.Address
}

// Response carries a loaded value together with its originating
// request.
type Response struct {
	Request   Request         `json:"request"`
	Value     any             `json:"value"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// Message wraps the response in the reserved broadcast envelope.
func (r Response) Message() message.Message {
	return message.New(ResponseMask, r).
		WithTags(ResponseTag).
		WithSource(r.Request.URI())
}
