package main

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	typeEcho   = "echo"
	typeInit   = "init"
	typeEchoOk = "echo_ok"
	typeInitOk = "init_ok"
)

// RequestPayload is implemented by the payloads a node accepts.
type RequestPayload interface {
	Payload
	request()
}

// ResponsePayload is implemented by the payloads a node replies with.
type ResponsePayload interface {
	Payload
	response()
}

type Echo struct {
	Echo string `json:"echo"`
}

func (Echo) Type() string { return typeEcho }
func (Echo) request()     {}

// Init tells a node its own id and the ids of every node in the cluster.
type Init struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

func (Init) Type() string { return typeInit }
func (Init) request()     {}

type EchoOk struct {
	Echo string `json:"echo"`
}

func (EchoOk) Type() string { return typeEchoOk }
func (EchoOk) response()    {}

type InitOk struct{}

func (InitOk) Type() string { return typeInitOk }
func (InitOk) response()    {}

// variants maps a discriminant to the decoder for that payload's fields.
type variants[P Payload] map[string]func(o object) (P, error)

var requestVariants = variants[RequestPayload]{
	typeEcho: decodeEcho,
	typeInit: decodeInit,
}

var responseVariants = variants[ResponsePayload]{
	typeEchoOk: decodeEchoOk,
	typeInitOk: func(object) (ResponsePayload, error) { return InitOk{}, nil },
}

func decodeEcho(o object) (RequestPayload, error) {
	var p Echo
	if err := o.required("echo", &p.Echo); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeInit(o object) (RequestPayload, error) {
	var p Init
	if err := o.required("node_id", &p.NodeID); err != nil {
		return nil, err
	}
	var ids []json.RawMessage
	if err := o.required("node_ids", &ids); err != nil {
		return nil, err
	}
	p.NodeIDs = make([]string, 0, len(ids))
	for i, raw := range ids {
		if isNull(raw) {
			return nil, errors.Errorf("field \"node_ids\": element %d is null", i)
		}
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, errors.Wrapf(err, "field \"node_ids\": element %d", i)
		}
		p.NodeIDs = append(p.NodeIDs, id)
	}
	return p, nil
}

func decodeEchoOk(o object) (ResponsePayload, error) {
	var p EchoOk
	if err := o.required("echo", &p.Echo); err != nil {
		return nil, err
	}
	return p, nil
}

// object is a decoded JSON object whose members are looked up by exact key.
// encoding/json matches struct fields case-insensitively, so "Type" or
// "ECHO" would otherwise be taken for "type" or "echo".
type object map[string]json.RawMessage

func parseObject(data []byte) (object, error) {
	var o object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.New("expected a JSON object, got null")
	}
	return o, nil
}

// required decodes member name into v. An absent or null member is an error.
func (o object) required(name string, v any) error {
	raw, ok := o[name]
	if !ok || isNull(raw) {
		return errors.Errorf("missing field %q", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "field %q", name)
	}
	return nil
}

// optional decodes member name into v. An absent or null member leaves v
// untouched and reports false.
func (o object) optional(name string, v any) (bool, error) {
	raw, ok := o[name]
	if !ok || isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, errors.Wrapf(err, "field %q", name)
	}
	return true, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
