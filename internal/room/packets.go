// Package room handles the shared-room layer: the message shapes
// exchanged between tray clients, the numeric roll path used for
// network-synchronized rolls, and the relay client/server pair.
package room

import (
	"encoding/json"
	"fmt"
)

// MsgType discriminates the room protocol messages.
type MsgType string

const (
	// MsgHello introduces a client (name, die color) after connect.
	MsgHello MsgType = "hello"

	// MsgJoin asks to enter a room by code.
	MsgJoin MsgType = "join"

	// MsgJoined announces current room membership to all members.
	MsgJoined MsgType = "joined"

	// MsgChat carries a chat line.
	MsgChat MsgType = "chat"

	// MsgRollRequest asks the server to resolve a notation roll.
	MsgRollRequest MsgType = "roll"

	// MsgRollResult broadcasts a resolved roll to the room.
	MsgRollResult MsgType = "rollresult"
)

// Envelope is the wire frame: one JSON object per line.
type Envelope struct {
	Type MsgType         `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Hello is the client introduction payload.
type Hello struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Join asks to enter a room.
type Join struct {
	Room string `json:"room"`
}

// Joined reports room membership after a change.
type Joined struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// Chat is a room chat line.
type Chat struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// RollRequest asks for a notation roll on behalf of a member. The
// notation is an ordered list of die tags plus a constant, e.g.
// "d20+2d6+3".
type RollRequest struct {
	From     string `json:"from"`
	Notation string `json:"notation"`
}

// RollResult is a resolved roll as seen by every room member.
type RollResult struct {
	From     string `json:"from"`
	Notation string `json:"notation"`
	Values   []int  `json:"values"`
	Total    int    `json:"total"`
}

// Encode frames a payload into a newline-terminated wire line.
func Encode(t MsgType, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", t, err)
	}
	line, err := json.Marshal(Envelope{Type: t, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", t, err)
	}
	return append(line, '\n'), nil
}

// Decode parses one wire line into its envelope.
func Decode(line []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("envelope missing type")
	}
	return env, nil
}

// Unmarshal extracts the envelope's payload into v.
func (e Envelope) Unmarshal(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return nil
}
