package main

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Payload is the variant-specific part of a message body. Type returns the
// value of the body's "type" discriminant.
type Payload interface {
	Type() string
}

// Envelope is one wire message.
type Envelope[P Payload] struct {
	Src  string  `json:"src"`
	Dest string  `json:"dest"`
	Body Body[P] `json:"body"`
}

// Body carries the correlation ids and the payload. On the wire the payload's
// fields, including its discriminant, sit next to msg_id and in_reply_to.
type Body[P Payload] struct {
	MsgID     *uint64
	InReplyTo *uint64
	Payload   P
}

type bodyHeader struct {
	MsgID     *uint64 `json:"msg_id,omitempty"`
	InReplyTo *uint64 `json:"in_reply_to,omitempty"`
	Type      string  `json:"type"`
}

func (b Body[P]) MarshalJSON() ([]byte, error) {
	if any(b.Payload) == nil {
		return nil, errors.New("body has no payload")
	}

	head, err := json.Marshal(bodyHeader{
		MsgID:     b.MsgID,
		InReplyTo: b.InReplyTo,
		Type:      b.Payload.Type(),
	})
	if err != nil {
		return nil, err
	}

	fields, err := json.Marshal(b.Payload)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s payload", b.Payload.Type())
	}

	return flatten(head, fields)
}

// flatten merges the members of the object fields into the object head.
func flatten(head, fields []byte) ([]byte, error) {
	fields = bytes.TrimSpace(fields)
	if len(fields) < 2 || fields[0] != '{' || fields[len(fields)-1] != '}' {
		return nil, errors.Errorf("payload is not a JSON object: %s", fields)
	}
	inner := bytes.TrimSpace(fields[1 : len(fields)-1])
	if len(inner) == 0 {
		return head, nil
	}

	out := make([]byte, 0, len(head)+len(inner)+1)
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, inner...)
	out = append(out, '}')
	return out, nil
}
