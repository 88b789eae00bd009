package main

import (
	"encoding/json"
	"io"

	maelstrom "github.com/jepsen-io/maelstrom/demo/go"
	"github.com/pkg/errors"
)

// Decode parses a single request message.
func Decode(data []byte) (Envelope[RequestPayload], error) {
	return decodeEnvelope(data, requestVariants)
}

// DecodeReply parses a single reply message, as written by Encode.
func DecodeReply(data []byte) (Envelope[ResponsePayload], error) {
	return decodeEnvelope(data, responseVariants)
}

func decodeEnvelope[P Payload](data []byte, table variants[P]) (Envelope[P], error) {
	malformed := func(err error) (Envelope[P], error) {
		return Envelope[P]{}, newDecodeError(maelstrom.MalformedRequest, err)
	}

	msg, err := parseObject(data)
	if err != nil {
		return malformed(err)
	}
	var env Envelope[P]
	if err := msg.required("src", &env.Src); err != nil {
		return malformed(err)
	}
	if err := msg.required("dest", &env.Dest); err != nil {
		return malformed(err)
	}
	var raw json.RawMessage
	if err := msg.required("body", &raw); err != nil {
		return malformed(err)
	}

	body, err := parseObject(raw)
	if err != nil {
		return malformed(errors.Wrap(err, "body"))
	}
	var typ string
	if err := body.required("type", &typ); err != nil {
		return malformed(err)
	}
	decode, ok := table[typ]
	if !ok {
		return Envelope[P]{}, newDecodeError(maelstrom.NotSupported, errors.Errorf("unknown message type %q", typ))
	}

	var msgID, inReplyTo uint64
	if ok, err := body.optional("msg_id", &msgID); err != nil {
		return malformed(err)
	} else if ok {
		env.Body.MsgID = &msgID
	}
	if ok, err := body.optional("in_reply_to", &inReplyTo); err != nil {
		return malformed(err)
	} else if ok {
		env.Body.InReplyTo = &inReplyTo
	}

	env.Body.Payload, err = decode(body)
	if err != nil {
		return malformed(errors.Wrap(err, typ))
	}
	return env, nil
}

// Decoder reads consecutive request messages from a stream. Messages need no
// delimiter between them.
type Decoder struct {
	dec *json.Decoder
	seq int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Next returns the next request. It returns io.EOF only when the stream ends
// cleanly between messages; a truncated trailing message is a *DecodeError.
func (d *Decoder) Next() (Envelope[RequestPayload], error) {
	var raw json.RawMessage
	if err := d.dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return Envelope[RequestPayload]{}, io.EOF
		}
		d.seq++
		e := newDecodeError(maelstrom.MalformedRequest, err)
		e.Seq = d.seq
		return Envelope[RequestPayload]{}, e
	}
	d.seq++

	env, err := Decode(raw)
	if err != nil {
		var e *DecodeError
		if errors.As(err, &e) {
			e.Seq = d.seq
		}
		return Envelope[RequestPayload]{}, err
	}
	return env, nil
}

// Seq returns the number of messages read so far, including a failed one.
func (d *Decoder) Seq() int {
	return d.seq
}

// Encode writes env as one JSON object followed by a newline, in a single
// write to w.
func Encode[P Payload](w io.Writer, env Envelope[P]) error {
	typ := "<nil>"
	if any(env.Body.Payload) != nil {
		typ = env.Body.Payload.Type()
	}

	line, err := json.Marshal(env)
	if err != nil {
		return &EncodeError{Type: typ, Err: err}
	}
	line = append(line, '\n')

	if _, err := w.Write(line); err != nil {
		return &WriteError{Err: err}
	}
	return nil
}
