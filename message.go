package maelstrom

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message represents a message sent from Src node to Dest node.
type Message struct {
	Src  string
	Dest string
	Body Body
}

// Body represents a message body: the reserved correlation keys plus the
// payload whose fields are stored inline next to "type".
type Body struct {
	// MsgID is set on messages the sender expects a reply to.
	MsgID *int

	// InReplyTo holds the MsgID of the request when the body is a reply.
	InReplyTo *int

	Payload Payload
}

// Type returns the type tag of the payload or an empty string if the body
// carries no payload.
func (b Body) Type() string {
	if b.Payload == nil {
		return ""
	}
	return b.Payload.Type()
}

// Payload is implemented by every message kind the node understands.
// The set of implementations is closed to this package.
type Payload interface {
	// Type returns the wire "type" tag.
	Type() string

	payload()
}

// Echo asks the node to send Text back.
type Echo struct {
	Text string `json:"echo"`
}

// EchoOK is the reply to Echo.
type EchoOK struct {
	Text string `json:"echo"`
}

// Init is sent once by the network to tell a node its ID and the cluster.
type Init struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

type InitOK struct{}

// Generate requests a new globally unique ID.
type Generate struct{}

type GenerateOK struct {
	ID string `json:"id"`
}

// Broadcast delivers a single value to the node.
type Broadcast struct {
	Message int `json:"message"`
}

type BroadcastOK struct{}

// Read requests every value seen by Broadcast so far.
type Read struct{}

// ReadOK carries the set of values seen by the node.
type ReadOK struct {
	Messages *Values
}

// MarshalJSON encodes the set as a JSON array in ascending order.
func (p ReadOK) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Messages []int `json:"messages"`
	}{p.Messages.Sorted()})
}

// Topology tells the node about its neighbours. Keys are node IDs.
type Topology struct {
	Topology map[string][]string `json:"topology"`
}

type TopologyOK struct{}

func (Echo) Type() string        { return "echo" }
func (EchoOK) Type() string      { return "echo_ok" }
func (Init) Type() string        { return "init" }
func (InitOK) Type() string      { return "init_ok" }
func (Generate) Type() string    { return "generate" }
func (GenerateOK) Type() string  { return "generate_ok" }
func (Broadcast) Type() string   { return "broadcast" }
func (BroadcastOK) Type() string { return "broadcast_ok" }
func (Read) Type() string        { return "read" }
func (ReadOK) Type() string      { return "read_ok" }
func (Topology) Type() string    { return "topology" }
func (TopologyOK) Type() string  { return "topology_ok" }

func (Echo) payload()        {}
func (EchoOK) payload()      {}
func (Init) payload()        {}
func (InitOK) payload()      {}
func (Generate) payload()    {}
func (GenerateOK) payload()  {}
func (Broadcast) payload()   {}
func (BroadcastOK) payload() {}
func (Read) payload()        {}
func (ReadOK) payload()      {}
func (Topology) payload()    {}
func (TopologyOK) payload()  {}

// messageJSON is the wire layout of a Message.
type messageJSON struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
	Body Body   `json:"body"`
}

// bodyHeaderJSON holds the reserved body keys, in wire order.
type bodyHeaderJSON struct {
	MsgID     *int   `json:"msg_id,omitempty"`
	InReplyTo *int   `json:"in_reply_to,omitempty"`
	Type      string `json:"type"`
}

// MarshalJSON encodes the message in its canonical wire layout.
func (m Message) MarshalJSON() ([]byte, error) {
	return marshal(messageJSON{Src: m.Src, Dest: m.Dest, Body: m.Body})
}

// UnmarshalJSON decodes a message. The src, dest & body keys are required.
func (m *Message) UnmarshalJSON(data []byte) error {
	var v struct {
		Src  *string `json:"src"`
		Dest *string `json:"dest"`
		Body *Body   `json:"body"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch {
	case v.Src == nil:
		return fmt.Errorf("missing field %q", "src")
	case v.Dest == nil:
		return fmt.Errorf("missing field %q", "dest")
	case v.Body == nil:
		return fmt.Errorf("missing field %q", "body")
	}

	*m = Message{Src: *v.Src, Dest: *v.Dest, Body: *v.Body}
	return nil
}

// String returns the message as compact JSON.
func (m Message) String() string {
	buf, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%#v", m)
	}
	return string(buf)
}

// MarshalJSON writes the reserved keys first, followed by the payload fields.
func (b Body) MarshalJSON() ([]byte, error) {
	if b.Payload == nil {
		return nil, fmt.Errorf("body has no payload")
	}

	head, err := marshal(bodyHeaderJSON{
		MsgID:     b.MsgID,
		InReplyTo: b.InReplyTo,
		Type:      b.Payload.Type(),
	})
	if err != nil {
		return nil, err
	}

	fields, err := marshal(b.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", b.Payload.Type(), err)
	}

	// Payloads without fields encode as "{}".
	if len(fields) <= 2 {
		return head, nil
	}
	buf := append(head[:len(head)-1], ',')
	return append(buf, fields[1:]...), nil
}

// UnmarshalJSON decodes the reserved keys and then the payload selected by
// the "type" tag.
func (b *Body) UnmarshalJSON(data []byte) error {
	var head struct {
		MsgID     *int    `json:"msg_id"`
		InReplyTo *int    `json:"in_reply_to"`
		Type      *string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	} else if head.Type == nil {
		return fmt.Errorf("missing field %q", "type")
	}

	p, err := unmarshalPayload(*head.Type, data)
	if err != nil {
		return err
	}

	*b = Body{MsgID: head.MsgID, InReplyTo: head.InReplyTo, Payload: p}
	return nil
}

func unmarshalPayload(typ string, data []byte) (Payload, error) {
	switch typ {
	case "echo", "echo_ok":
		var v struct {
			Echo *string `json:"echo"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		} else if v.Echo == nil {
			return nil, missingField(typ, "echo")
		}
		if typ == "echo" {
			return Echo{Text: *v.Echo}, nil
		}
		return EchoOK{Text: *v.Echo}, nil

	case "init":
		var v struct {
			NodeID  *string   `json:"node_id"`
			NodeIDs *[]string `json:"node_ids"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		} else if v.NodeID == nil {
			return nil, missingField(typ, "node_id")
		} else if v.NodeIDs == nil {
			return nil, missingField(typ, "node_ids")
		}
		return Init{NodeID: *v.NodeID, NodeIDs: *v.NodeIDs}, nil

	case "init_ok":
		return InitOK{}, nil

	case "generate":
		return Generate{}, nil

	case "generate_ok":
		var v struct {
			ID *string `json:"id"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		} else if v.ID == nil {
			return nil, missingField(typ, "id")
		}
		return GenerateOK{ID: *v.ID}, nil

	case "broadcast":
		var v struct {
			Message *int `json:"message"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		} else if v.Message == nil {
			return nil, missingField(typ, "message")
		}
		return Broadcast{Message: *v.Message}, nil

	case "broadcast_ok":
		return BroadcastOK{}, nil

	case "read":
		return Read{}, nil

	case "read_ok":
		var v struct {
			Messages *[]int `json:"messages"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		} else if v.Messages == nil {
			return nil, missingField(typ, "messages")
		}
		return ReadOK{Messages: NewValues(*v.Messages...)}, nil

	case "topology":
		var v struct {
			Topology *map[string][]string `json:"topology"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		} else if v.Topology == nil {
			return nil, missingField(typ, "topology")
		}
		return Topology{Topology: *v.Topology}, nil

	case "topology_ok":
		return TopologyOK{}, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", typ)
	}
}

func missingField(typ, field string) error {
	return fmt.Errorf("missing field %q in %s message", field, typ)
}

// marshal encodes v as JSON without HTML escaping and without the trailing
// newline added by json.Encoder.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
