package maelstrom

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Node represents a single node in the network. It processes one message at
// a time and is not safe for concurrent use.
type Node struct {
	id        string
	nodeIDs   []string
	nextMsgID int
	values    *Values

	// Stdin is for reading messages in from the Maelstrom network.
	Stdin io.Reader

	// Stdout is for writing messages out to the Maelstrom network.
	// It is flushed after every message if it implements Flush() error.
	Stdout io.Writer

	// NewID returns the ID sent in reply to a "generate" message.
	NewID func() (string, error)
}

// NewNode returns a new instance of Node connected to STDIN/STDOUT.
func NewNode() *Node {
	return &Node{
		values: NewValues(),

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		NewID:  NewUniqueID,
	}
}

// ID returns the identifier for this node.
// Only valid after "init" message has been received.
func (n *Node) ID() string {
	return n.id
}

// NodeIDs returns a list of all node IDs in the cluster. Only valid after
// "init" message has been received.
func (n *Node) NodeIDs() []string {
	return n.nodeIDs
}

// NextMsgID returns the message ID the next sent message will carry.
func (n *Node) NextMsgID() int {
	return n.nextMsgID
}

// Run executes the main event handling loop. It reads messages from STDIN
// and steps the node with each of them until the input is exhausted.
// This should be the last function executed by main().
func (n *Node) Run() error {
	dec := NewDecoder(n.Stdin)
	for {
		msg, err := dec.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "read message")
		}
		log.Printf("Received %s", msg)

		if err := n.Step(msg); err != nil {
			return errors.Wrapf(err, "step %s", msg.Body.Type())
		}
	}
}

// Step applies a single inbound message to the node and sends the reply,
// if the message type has one.
func (n *Node) Step(msg Message) error {
	switch p := msg.Body.Payload.(type) {
	case Init:
		n.id = p.NodeID
		n.nodeIDs = p.NodeIDs
		log.Printf("Node %s initialized", n.id)
		return n.Reply(msg, InitOK{})

	case Echo:
		return n.Reply(msg, EchoOK{Text: p.Text})

	case Generate:
		id, err := n.NewID()
		if err != nil {
			return fmt.Errorf("generate id: %w", err)
		}
		return n.Reply(msg, GenerateOK{ID: id})

	case Broadcast:
		n.values.Add(p.Message)
		return n.Reply(msg, BroadcastOK{})

	case Read:
		return n.Reply(msg, ReadOK{Messages: n.values.Clone()})

	case Topology:
		// Adjacency is not kept; values are never forwarded to neighbours.
		nodes := maps.Keys(p.Topology)
		slices.Sort(nodes)
		log.Printf("Topology for %v, neighbours of %s: %v", nodes, msg.Dest, lo.Without(p.Topology[msg.Dest], msg.Dest))
		return n.Reply(msg, TopologyOK{})

	case EchoOK, BroadcastOK:
		return nil

	case InitOK, GenerateOK, ReadOK, TopologyOK:
		return &ProtocolViolation{Src: msg.Src, Type: p.Type()}

	default:
		return &ProtocolViolation{Src: msg.Src, Type: fmt.Sprintf("%T", p)}
	}
}

// Reply replies to a request with a response payload. The reply is addressed
// from the request's destination back to its source.
func (n *Node) Reply(req Message, p Payload) error {
	return n.Send(Message{
		Src:  req.Dest,
		Dest: req.Src,
		Body: Body{InReplyTo: req.Body.MsgID, Payload: p},
	})
}

// Send assigns the next message ID to msg and writes it to STDOUT as a
// single newline-terminated line. The ID counter only advances once the
// write succeeds.
func (n *Node) Send(msg Message) error {
	msg.Body.MsgID = lo.ToPtr(n.nextMsgID)

	buf, err := msg.MarshalJSON()
	if err != nil {
		return &EncodeError{Err: err}
	}

	if _, err := n.Stdout.Write(append(buf, '\n')); err != nil {
		return &EncodeError{Err: fmt.Errorf("write: %w", err)}
	}
	if w, ok := n.Stdout.(interface{ Flush() error }); ok {
		if err := w.Flush(); err != nil {
			return &EncodeError{Err: fmt.Errorf("flush: %w", err)}
		}
	}
	log.Printf("Sent %s", buf)

	n.nextMsgID++
	return nil
}

// Decoder reads a stream of messages. Messages are consecutive JSON objects
// separated by any whitespace; one per line is not required.
type Decoder struct {
	dec *json.Decoder
}

// NewDecoder returns a decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Next returns the next message. Returns io.EOF at the end of the input and
// a *DecodeError for malformed or truncated input.
func (d *Decoder) Next() (Message, error) {
	var msg Message
	if err := d.dec.Decode(&msg); err == io.EOF {
		return Message{}, io.EOF
	} else if err != nil {
		return Message{}, &DecodeError{Err: err}
	}
	return msg, nil
}
