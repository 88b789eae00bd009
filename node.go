package main

import (
	"context"
	"fmt"
	"io"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Node answers requests one at a time. It is not safe for concurrent use:
// the message-id counter and the output sink are owned by whoever calls
// Handle or Run.
type Node struct {
	nextMsgID uint64

	id      string
	nodeIDs *arraylist.List

	logger *log.Entry
}

func NewNode() *Node {
	return &Node{
		nodeIDs: arraylist.New(),
		logger:  log.WithField("instance", uuid.NewString()),
	}
}

// ID returns the node id received in the last init message.
func (n *Node) ID() string {
	return n.id
}

// NodeIDs returns the cluster members received in the last init message, in
// the order they were given, without duplicates. The node's own id is always
// a member.
func (n *Node) NodeIDs() []string {
	ids := make([]string, 0, n.nodeIDs.Size())
	for _, v := range n.nodeIDs.Values() {
		ids = append(ids, v.(string))
	}
	return ids
}

// Handle replies to req on out. The counter only moves once the reply has
// been written in full.
func (n *Node) Handle(req Envelope[RequestPayload], out io.Writer) error {
	var payload ResponsePayload
	var commit func()

	switch p := req.Body.Payload.(type) {
	case Echo:
		payload = EchoOk{Echo: p.Echo}
	case Init:
		payload = InitOk{}
		commit = func() { n.init(p) }
	default:
		return &DispatchError{Type: fmt.Sprintf("%T", p)}
	}

	msgID := n.nextMsgID
	reply := Envelope[ResponsePayload]{
		Src:  req.Dest,
		Dest: req.Src,
		Body: Body[ResponsePayload]{
			MsgID:     &msgID,
			InReplyTo: req.Body.MsgID,
			Payload:   payload,
		},
	}
	if err := Encode(out, reply); err != nil {
		return err
	}

	n.nextMsgID++
	if commit != nil {
		commit()
	}

	n.logger.WithFields(log.Fields{
		"type":        payload.Type(),
		"dest":        reply.Dest,
		"msg_id":      msgID,
		"in_reply_to": optional(reply.Body.InReplyTo),
	}).Debug("reply sent")
	return nil
}

func (n *Node) init(p Init) {
	n.id = p.NodeID
	n.nodeIDs.Clear()
	for _, id := range p.NodeIDs {
		if !n.nodeIDs.Contains(id) {
			n.nodeIDs.Add(id)
		}
	}
	n.logger = n.logger.WithField("node", n.id)
	if !n.nodeIDs.Contains(n.id) {
		n.logger.Warnf("node %s missing from node_ids, adding it", n.id)
		n.nodeIDs.Add(n.id)
	}
	n.logger.Infof("node initialized, %d nodes in cluster", n.nodeIDs.Size())
}

// Run reads requests from in and replies on out until in is exhausted. It
// stops at the first decode, dispatch, encode or write failure. ctx is only
// checked between messages.
func (n *Node) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	dec := NewDecoder(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, err := dec.Next()
		if err == io.EOF {
			n.logger.Infof("input closed after %d messages", dec.Seq())
			return nil
		}
		if err != nil {
			return err
		}

		if err := n.Handle(req, out); err != nil {
			return errors.Wrapf(err, "handle message %d", dec.Seq())
		}
	}
}

func optional(v *uint64) any {
	if v == nil {
		return nil
	}
	return *v
}
